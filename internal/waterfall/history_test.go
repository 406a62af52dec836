package waterfall

import (
	"math"
	"testing"
)

func flatSlice(id float64, n int) Slice {
	s := Slice{Vertices: make([]Vec3, n), Colors: make([]RGBA, n)}
	for i := range s.Vertices {
		s.Vertices[i] = Vec3{X: float64(i), Y: id}
	}
	return s
}

func TestHistoryNeverExceedsCapacity(t *testing.T) {
	h := NewHistory(5, 1.0)
	for i := 0; i < 20; i++ {
		h.Append(flatSlice(float64(i), 4))
		if h.Len() > 5 {
			t.Fatalf("history grew to %d after %d appends, cap 5", h.Len(), i+1)
		}
	}
	if h.Len() != 5 {
		t.Fatalf("history len = %d, want 5", h.Len())
	}
}

func TestHistoryEvictsOldestFirst(t *testing.T) {
	h := NewHistory(3, 1.0)
	for i := 0; i < 7; i++ {
		h.Append(flatSlice(float64(i), 2))
	}
	// Appends 0..6 into a 3-deep ring leave 4, 5, 6 oldest-first.
	for i := 0; i < 3; i++ {
		want := float64(4 + i)
		if got := h.At(i).Vertices[0].Y; got != want {
			t.Fatalf("slice %d tagged %v, want %v", i, got, want)
		}
	}
}

func TestHistoryAtPanicsOutOfRange(t *testing.T) {
	h := NewHistory(3, 1.0)
	h.Append(flatSlice(0, 2))
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out-of-range index")
		}
	}()
	h.At(1)
}

func TestAdvanceAgesAllSlices(t *testing.T) {
	h := NewHistory(10, 5.0)
	h.Append(flatSlice(0, 3))
	h.Append(flatSlice(1, 3))

	h.Advance(0.5)
	for i := 0; i < h.Len(); i++ {
		for j, v := range h.At(i).Vertices {
			if math.Abs(v.Z-2.5) > 1e-12 {
				t.Fatalf("slice %d vertex %d z = %v after advance, want 2.5", i, j, v.Z)
			}
		}
	}
}

func TestAdvanceWithoutAppendsKeepsScrolling(t *testing.T) {
	h := NewHistory(10, 2.0)
	h.Append(flatSlice(0, 2))

	// Motion is tied to elapsed time, not to data arrival.
	for i := 0; i < 4; i++ {
		h.Advance(0.25)
	}
	if z := h.At(0).Vertices[0].Z; math.Abs(z-2.0) > 1e-12 {
		t.Fatalf("z = %v after 1s at speed 2, want 2", z)
	}
}

func TestDepthReflectsTicksSinceAppend(t *testing.T) {
	const (
		speed = 5.0
		dt    = 1.0 / 60
		ticks = 30
	)
	h := NewHistory(100, speed)

	// Advance-then-append per tick: the slice appended on tick k has aged
	// (ticks-1-k) ticks by the end.
	for k := 0; k < ticks; k++ {
		h.Advance(dt)
		h.Append(flatSlice(float64(k), 2))
	}

	for i := 0; i < h.Len(); i++ {
		appendedOn := int(h.At(i).Vertices[0].Y)
		want := speed * dt * float64(ticks-1-appendedOn)
		if got := h.At(i).Vertices[0].Z; math.Abs(got-want) > 1e-9 {
			t.Fatalf("slice appended on tick %d has z = %v, want %v", appendedOn, got, want)
		}
	}

	// Newest slice entered after the final advance, so it sits at the origin.
	if z := h.At(h.Len() - 1).Vertices[0].Z; z != 0 {
		t.Fatalf("newest slice z = %v, want 0", z)
	}

	// Depth is monotonically non-increasing from oldest to newest.
	for i := 1; i < h.Len(); i++ {
		if h.At(i).Vertices[0].Z > h.At(i-1).Vertices[0].Z {
			t.Fatalf("slice %d is deeper than slice %d", i, i-1)
		}
	}
}

func TestFreqAxisSpansTwentyUnits(t *testing.T) {
	axis := FreqAxis(44100, 513)
	if len(axis) != 513 {
		t.Fatalf("axis length = %d, want 513", len(axis))
	}
	if axis[0] != 0 {
		t.Fatalf("axis[0] = %v, want 0", axis[0])
	}
	if math.Abs(axis[512]-20.0) > 1e-9 {
		t.Fatalf("axis end = %v, want 20", axis[512])
	}
	// Axis does not depend on sample rate: full span is always 20 units.
	axis8k := FreqAxis(8000, 129)
	if math.Abs(axis8k[128]-20.0) > 1e-9 {
		t.Fatalf("8 kHz axis end = %v, want 20", axis8k[128])
	}
}

func TestNewSliceShapesAndDepth(t *testing.T) {
	spectrum := []float64{-120, -50, 0}
	axis := []float64{0, 10, 20}
	cmap, err := Lookup("viridis")
	if err != nil {
		t.Fatal(err)
	}

	s := NewSlice(spectrum, axis, 0.05, cmap, -100, 0)
	if len(s.Vertices) != len(s.Colors) || len(s.Vertices) != 3 {
		t.Fatalf("got %d vertices, %d colors, want 3 of each", len(s.Vertices), len(s.Colors))
	}
	for i, v := range s.Vertices {
		if v.Z != 0 {
			t.Fatalf("vertex %d z = %v, want 0", i, v.Z)
		}
		if want := spectrum[i] * 0.05; v.Y != want {
			t.Fatalf("vertex %d y = %v, want %v", i, v.Y, want)
		}
		if v.X != axis[i] {
			t.Fatalf("vertex %d x = %v, want %v", i, v.X, axis[i])
		}
	}

	// -120 dB is below the floor and must clamp to the colormap start,
	// 0 dB to its end.
	lo := cmap(0)
	if s.Colors[0] != lo {
		t.Fatalf("below-floor color = %v, want %v", s.Colors[0], lo)
	}
	hi := cmap(1)
	if s.Colors[2] != hi {
		t.Fatalf("ceiling color = %v, want %v", s.Colors[2], hi)
	}
}
