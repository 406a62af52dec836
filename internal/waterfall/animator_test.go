package waterfall

import (
	"math"
	"testing"

	"github.com/dmarch/specfall/internal/pipeline"
)

func TestAnimatorStepDrainsQueueIntoHistory(t *testing.T) {
	q := pipeline.NewQueue()
	a, err := NewAnimator(q, 44100, 4, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	q.Push([]float64{-40, -40, -40, -40})
	q.Push([]float64{-60, -60, -60, -60})
	a.Step(1.0 / 60)

	if got := a.History().Len(); got != 2 {
		t.Fatalf("history holds %d slices after step, want 2", got)
	}
	if drained := q.DrainAll(); len(drained) != 0 {
		t.Fatalf("queue still holds %d spectra after step", len(drained))
	}
}

func TestAnimatorAdvancesBeforeAppending(t *testing.T) {
	q := pipeline.NewQueue()
	cfg := DefaultConfig()
	a, err := NewAnimator(q, 44100, 2, cfg)
	if err != nil {
		t.Fatal(err)
	}

	const dt = 1.0 / 60
	q.Push([]float64{-50, -50})
	a.Step(dt)

	// The slice arriving this tick must not pick up this tick's motion.
	if z := a.History().At(0).Vertices[0].Z; z != 0 {
		t.Fatalf("fresh slice z = %v, want 0", z)
	}

	a.Step(dt)
	want := cfg.Speed * dt
	if z := a.History().At(0).Vertices[0].Z; math.Abs(z-want) > 1e-12 {
		t.Fatalf("slice z = %v after one further tick, want %v", z, want)
	}
}

func TestAnimatorScrollMatchesWallClock(t *testing.T) {
	q := pipeline.NewQueue()
	cfg := DefaultConfig()
	a, err := NewAnimator(q, 44100, 2, cfg)
	if err != nil {
		t.Fatal(err)
	}

	q.Push([]float64{-50, -50})
	a.Step(0)

	// Two seconds of 60 Hz ticks with no new data: depth ends at speed*2.
	const dt = 1.0 / 60
	for i := 0; i < 120; i++ {
		a.Step(dt)
	}
	want := cfg.Speed * 2
	if z := a.History().At(0).Vertices[0].Z; math.Abs(z-want) > cfg.Speed*dt {
		t.Fatalf("first slice depth = %v after 2s, want ~%v", z, want)
	}
}

func TestAnimatorRejectsUnknownColormap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Colormap = "jet"
	if _, err := NewAnimator(pipeline.NewQueue(), 44100, 4, cfg); err == nil {
		t.Fatal("expected error for unknown colormap")
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	bad := []func(*Config){
		func(c *Config) { c.BlocksPerSec = 0 },
		func(c *Config) { c.Speed = -1 },
		func(c *Config) { c.MaxSlices = 0 },
		func(c *Config) { c.CeilDB = c.FloorDB },
		func(c *Config) { c.TickRate = 0 },
		func(c *Config) { c.Colormap = "nope" },
	}
	for i, mutate := range bad {
		cfg := DefaultConfig()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}

func TestColormapEndpointsAndClamping(t *testing.T) {
	for _, name := range []string{"viridis", "magma", "heat"} {
		cmap, err := Lookup(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if got := cmap(-0.5); got != cmap(0) {
			t.Errorf("%s: below-range input not clamped to start", name)
		}
		if got := cmap(1.5); got != cmap(1) {
			t.Errorf("%s: above-range input not clamped to end", name)
		}
		mid := cmap(0.5)
		if mid.A != 1 {
			t.Errorf("%s: alpha = %v, want 1", name, mid.A)
		}
	}
}
