// Package sfx turns powder world events into short synthesized sounds.
package sfx

import (
	"math"
	"sync"
	"time"

	"powder-ca/pkg/sims/powder"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Cue is one sound to play for a batch of events.
type Cue uint8

const (
	CueCrackle Cue = iota + 1
	CueWhoosh
	CueBoom
	CueThunder
)

// maxVoices caps how many sounds a single tick may start.
const maxVoices = 4

// Player mixes event sounds. Every method is safe to call when audio could
// not be initialised; the host keeps running silently.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	muted       bool
}

// NewPlayer creates a player. Call Initialize to open the speaker.
func NewPlayer() *Player {
	return &Player{mixer: &beep.Mixer{}}
}

// Initialize opens the speaker. Missing audio devices return an error the
// caller may log and ignore.
func (p *Player) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Cleanup silences every voice.
func (p *Player) Cleanup() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.initialized = false
}

// SetMuted toggles output without tearing down the speaker.
func (p *Player) SetMuted(muted bool) {
	p.mu.Lock()
	p.muted = muted
	p.mu.Unlock()
}

// Muted reports whether sounds are suppressed.
func (p *Player) Muted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

// Play queues the sounds for one tick's events.
func (p *Player) Play(events []powder.Event) {
	cues := Plan(events)
	if len(cues) == 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized || p.muted {
		return
	}
	speaker.Lock()
	for _, c := range cues {
		p.mixer.Add(Streamer(c))
	}
	speaker.Unlock()
}

// Plan picks the cues for a tick. Each kind sounds at most once, loudest
// first, so a wire carrying a signal does not drown the mixer.
func Plan(events []powder.Event) []Cue {
	var seen [CueThunder + 1]bool
	for _, ev := range events {
		switch ev.Kind {
		case powder.EventDischarge:
			seen[CueCrackle] = true
		case powder.EventIgnition:
			seen[CueWhoosh] = true
		case powder.EventExplosion:
			seen[CueBoom] = true
		case powder.EventStrike:
			seen[CueThunder] = true
		}
	}
	var out []Cue
	for _, c := range []Cue{CueBoom, CueThunder, CueCrackle, CueWhoosh} {
		if seen[c] && len(out) < maxVoices {
			out = append(out, c)
		}
	}
	return out
}

// Streamer returns a finite streamer for a cue.
func Streamer(c Cue) beep.Streamer {
	switch c {
	case CueCrackle:
		return beep.Take(sampleRate.N(time.Millisecond*120), NewCrackleGenerator(sampleRate, 0x5eed))
	case CueWhoosh:
		return beep.Take(sampleRate.N(time.Millisecond*250), NewCrackleGenerator(sampleRate, 0xf17e).Soft())
	case CueBoom:
		return beep.Take(sampleRate.N(time.Millisecond*700), NewBoomGenerator(sampleRate, 55))
	case CueThunder:
		return beep.Take(sampleRate.N(time.Millisecond*900), NewBoomGenerator(sampleRate, 35))
	}
	return beep.Silence(0)
}

// CrackleGenerator produces sparse clicks over a fast-decaying noise bed.
type CrackleGenerator struct {
	sr   beep.SampleRate
	pos  int
	seed uint32
	gain float64
}

// NewCrackleGenerator creates a crackle generator. The seed makes the noise
// repeatable.
func NewCrackleGenerator(sr beep.SampleRate, seed uint32) *CrackleGenerator {
	return &CrackleGenerator{sr: sr, seed: seed | 1, gain: 0.35}
}

// Soft lowers the gain for the ignition whoosh.
func (g *CrackleGenerator) Soft() *CrackleGenerator {
	g.gain = 0.12
	return g
}

func (g *CrackleGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		g.seed ^= g.seed << 13
		g.seed ^= g.seed >> 17
		g.seed ^= g.seed << 5
		noise := float64(g.seed)/float64(math.MaxUint32)*2 - 1

		envelope := math.Exp(-t * 25)
		sample := 0.3 * noise * envelope
		// Occasional sharp clicks.
		if g.seed%97 == 0 {
			sample += 0.7 * envelope
		}
		sample *= g.gain / 0.35
		sample = clampSample(sample)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *CrackleGenerator) Err() error {
	return nil
}

// BoomGenerator produces a low thump with a falling pitch.
type BoomGenerator struct {
	sr    beep.SampleRate
	freq  float64
	pos   int
	phase float64
	seed  uint32
}

// NewBoomGenerator creates a boom generator starting at freq Hz.
func NewBoomGenerator(sr beep.SampleRate, freq float64) *BoomGenerator {
	return &BoomGenerator{sr: sr, freq: freq, seed: 0x9e3779b9}
}

func (g *BoomGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		freq := g.freq * (1 + 2*math.Exp(-t*12))
		g.phase += 2 * math.Pi * freq / float64(g.sr)

		g.seed = g.seed*1664525 + 1013904223
		noise := float64(g.seed)/float64(math.MaxUint32)*2 - 1

		envelope := math.Exp(-t * 4)
		sample := envelope * (0.55*math.Sin(g.phase) + 0.2*noise*math.Exp(-t*10))
		sample = clampSample(sample)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *BoomGenerator) Err() error {
	return nil
}

func clampSample(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
