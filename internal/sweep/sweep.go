// Package sweep replays powder worlds across seeds and parameter sets to check
// that runs are reproducible and to measure throughput.
package sweep

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"powder-ca/pkg/sims/powder"
)

// Scenario is one world setup to replay.
type Scenario struct {
	Seed      int64
	Scene     string
	Ticks     int
	Overrides map[string]string
}

func (s Scenario) String() string {
	keys := make([]string, 0, len(s.Overrides))
	for k := range s.Overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+s.Overrides[k])
	}
	return fmt.Sprintf("seed=%d scene=%s ticks=%d %s", s.Seed, s.Scene, s.Ticks, strings.Join(parts, " "))
}

// Result reports how a scenario behaved on two identical runs.
type Result struct {
	Scenario Scenario

	Hash       uint64
	ReplayHash uint64
	// Deterministic is true when both runs ended on the same hash.
	Deterministic bool

	MassStart  int
	MassEnd    int
	Explosions int
	Discharges int
	Faults     int

	TicksPerSecond float64
	Err            error
}

// MassDrift is the change in non-empty cells over the run.
func (r Result) MassDrift() int { return r.MassEnd - r.MassStart }

// Config is the world template shared by every scenario.
type Config struct {
	Width  int
	Height int
	// Base holds key/value settings applied before each scenario's overrides.
	Base map[string]string
}

// Run evaluates scenarios on a pool of workers. Results come back in
// scenario order. Cancelling ctx stops workers between runs.
func Run(ctx context.Context, cfg Config, scenarios []Scenario, workers int) []Result {
	workers = max(workers, 1)
	type job struct {
		index int
		sc    Scenario
	}
	type done struct {
		index int
		res   Result
	}

	jobs := make(chan job)
	results := make(chan done)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results <- done{index: j.index, res: Evaluate(ctx, cfg, j.sc)}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		defer close(jobs)
		for i, sc := range scenarios {
			select {
			case jobs <- job{index: i, sc: sc}:
			case <-ctx.Done():
				return
			}
		}
	}()

	out := make([]Result, len(scenarios))
	filled := make([]bool, len(scenarios))
	for d := range results {
		out[d.index] = d.res
		filled[d.index] = true
	}
	// Scenarios never handed out because ctx ended.
	for i := range out {
		if !filled[i] {
			out[i] = Result{Scenario: scenarios[i], Err: ctx.Err()}
		}
	}
	return out
}

// Evaluate runs a scenario twice from scratch and compares the outcomes.
func Evaluate(ctx context.Context, cfg Config, sc Scenario) Result {
	res := Result{Scenario: sc}
	first, err := replay(ctx, cfg, sc)
	if err != nil {
		res.Err = err
		return res
	}
	second, err := replay(ctx, cfg, sc)
	if err != nil {
		res.Err = err
		return res
	}
	res.Hash = first.hash
	res.ReplayHash = second.hash
	res.Deterministic = first.hash == second.hash
	res.MassStart = first.massStart
	res.MassEnd = first.massEnd
	res.Explosions = first.explosions
	res.Discharges = first.discharges
	res.Faults = first.faults
	if first.elapsed > 0 {
		res.TicksPerSecond = float64(sc.Ticks) / first.elapsed.Seconds()
	}
	return res
}

type run struct {
	hash       uint64
	massStart  int
	massEnd    int
	explosions int
	discharges int
	faults     int
	elapsed    time.Duration
}

func replay(ctx context.Context, cfg Config, sc Scenario) (run, error) {
	settings := map[string]string{
		"w":    fmt.Sprint(cfg.Width),
		"h":    fmt.Sprint(cfg.Height),
		"seed": fmt.Sprint(sc.Seed),
	}
	maps.Copy(settings, cfg.Base)
	maps.Copy(settings, sc.Overrides)

	w, err := powder.NewWithConfig(powder.FromMap(settings))
	if err != nil {
		return run{}, err
	}
	defer w.Destroy()
	if sc.Scene != "" {
		if err := w.LoadScene(sc.Scene); err != nil {
			return run{}, err
		}
	}

	r := run{massStart: w.Mass()}
	start := time.Now()
	for t := 0; t < sc.Ticks; t++ {
		if t%64 == 0 && ctx.Err() != nil {
			return run{}, ctx.Err()
		}
		w.Step()
		st := w.Stats()
		r.explosions += st.Explosions
		r.discharges += st.Discharges
	}
	r.elapsed = time.Since(start)
	r.hash = w.Hash()
	r.massEnd = w.Mass()
	r.faults = w.Stats().Faults
	return r, nil
}

// Grid expands seeds and scenes into scenarios, crossing them with each
// override set. A nil or empty override list yields one set with no overrides.
func Grid(seeds []int64, scenes []string, ticks int, overrides []map[string]string) []Scenario {
	if len(overrides) == 0 {
		overrides = []map[string]string{nil}
	}
	var out []Scenario
	for _, seed := range seeds {
		for _, scene := range scenes {
			for _, o := range overrides {
				out = append(out, Scenario{Seed: seed, Scene: scene, Ticks: ticks, Overrides: o})
			}
		}
	}
	return out
}
