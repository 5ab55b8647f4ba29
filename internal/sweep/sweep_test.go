package sweep

import (
	"context"
	"errors"
	"testing"
)

func smallConfig() Config {
	return Config{Width: 32, Height: 24, Base: map[string]string{"workers": "2"}}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	res := Evaluate(context.Background(), smallConfig(), Scenario{Seed: 11, Scene: "demo", Ticks: 60})
	if res.Err != nil {
		t.Fatalf("evaluate: %v", res.Err)
	}
	if !res.Deterministic || res.Hash != res.ReplayHash {
		t.Fatalf("replay diverged: %x vs %x", res.Hash, res.ReplayHash)
	}
	if res.MassStart == 0 {
		t.Fatal("demo scene should start with cells")
	}
	if res.Faults != 0 {
		t.Fatalf("unexpected faults: %d", res.Faults)
	}
}

func TestRunKeepsScenarioOrder(t *testing.T) {
	scenarios := Grid([]int64{1, 2, 3}, []string{"circuit"}, 20, []map[string]string{
		nil,
		{"fire_spread": "200"},
	})
	if len(scenarios) != 6 {
		t.Fatalf("expected 6 scenarios, got %d", len(scenarios))
	}
	results := Run(context.Background(), smallConfig(), scenarios, 3)
	for i, r := range results {
		if r.Err != nil {
			t.Fatalf("scenario %d: %v", i, r.Err)
		}
		if r.Scenario.Seed != scenarios[i].Seed || r.Scenario.String() != scenarios[i].String() {
			t.Fatalf("result %d belongs to %s, want %s", i, r.Scenario, scenarios[i])
		}
		if !r.Deterministic {
			t.Fatalf("scenario %s diverged", r.Scenario)
		}
	}
}

func TestSeedsProduceDifferentWorlds(t *testing.T) {
	cfg := smallConfig()
	a := Evaluate(context.Background(), cfg, Scenario{Seed: 1, Scene: "demo", Ticks: 40})
	b := Evaluate(context.Background(), cfg, Scenario{Seed: 2, Scene: "demo", Ticks: 40})
	if a.Hash == b.Hash {
		t.Fatal("different seeds should diverge")
	}
}

func TestEvaluateReportsBadScene(t *testing.T) {
	res := Evaluate(context.Background(), smallConfig(), Scenario{Seed: 1, Scene: "nowhere", Ticks: 5})
	if res.Err == nil {
		t.Fatal("unknown scene should fail")
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results := Run(ctx, smallConfig(), Grid([]int64{1, 2}, []string{"demo"}, 1000, nil), 1)
	for _, r := range results {
		if r.Err != nil && !errors.Is(r.Err, context.Canceled) {
			t.Fatalf("unexpected error %v", r.Err)
		}
	}
}
