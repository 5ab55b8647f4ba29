package sfx

import (
	"math"
	"slices"
	"testing"

	"powder-ca/pkg/sims/powder"
)

func TestPlanDeduplicatesAndOrders(t *testing.T) {
	events := []powder.Event{
		{Kind: powder.EventDischarge, X: 1},
		{Kind: powder.EventDischarge, X: 2},
		{Kind: powder.EventIgnition},
		{Kind: powder.EventExplosion},
		{Kind: powder.EventDischarge, X: 3},
	}
	got := Plan(events)
	want := []Cue{CueBoom, CueCrackle, CueWhoosh}
	if !slices.Equal(got, want) {
		t.Fatalf("Plan = %v, want %v", got, want)
	}
	if Plan(nil) != nil {
		t.Fatal("no events should yield no cues")
	}
}

func TestGeneratorsStayInRangeAndDecay(t *testing.T) {
	for _, c := range []Cue{CueCrackle, CueWhoosh, CueBoom, CueThunder} {
		s := Streamer(c)
		buf := make([][2]float64, 512)
		var first, last float64
		chunks := 0
		for {
			n, ok := s.Stream(buf)
			if !ok || n == 0 {
				break
			}
			var peak float64
			for _, smp := range buf[:n] {
				if smp[0] < -1 || smp[0] > 1 || smp[0] != smp[1] {
					t.Fatalf("cue %d produced an invalid sample %v", c, smp)
				}
				peak = math.Max(peak, math.Abs(smp[0]))
			}
			if chunks == 0 {
				first = peak
			}
			last = peak
			chunks++
		}
		if chunks == 0 {
			t.Fatalf("cue %d produced no audio", c)
		}
		if last >= first {
			t.Fatalf("cue %d should fade out: first peak %.3f, last %.3f", c, first, last)
		}
	}
}

func TestPlayerWithoutSpeakerIsSilent(t *testing.T) {
	p := NewPlayer()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("player panicked without a speaker: %v", r)
		}
	}()
	p.Play([]powder.Event{{Kind: powder.EventExplosion}})
	p.SetMuted(true)
	if !p.Muted() {
		t.Fatal("mute flag not kept")
	}
	p.Cleanup()
}
