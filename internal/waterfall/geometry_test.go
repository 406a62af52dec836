package waterfall

import "testing"

func TestBuildGeometryCounts(t *testing.T) {
	h := NewHistory(10, 1.0)
	for i := 0; i < 4; i++ {
		h.Append(flatSlice(float64(i), 7))
	}

	vertices, colors := BuildGeometry(h)
	if len(vertices) != 4*7 {
		t.Fatalf("vertex count = %d, want %d", len(vertices), 4*7)
	}
	if len(colors) != len(vertices) {
		t.Fatalf("color count %d != vertex count %d", len(colors), len(vertices))
	}
}

func TestBuildGeometryEmptyHistory(t *testing.T) {
	vertices, colors := BuildGeometry(NewHistory(10, 1.0))
	if vertices != nil || colors != nil {
		t.Fatalf("expected nil geometry for empty history, got %d/%d", len(vertices), len(colors))
	}
}

func TestBuildGeometryOrderFollowsHistory(t *testing.T) {
	h := NewHistory(3, 1.0)
	for i := 0; i < 5; i++ {
		h.Append(flatSlice(float64(i), 2))
	}

	vertices, _ := BuildGeometry(h)
	// Surviving slices are 2, 3, 4 oldest-first; each block of two vertices
	// carries its slice tag in Y.
	wantTags := []float64{2, 2, 3, 3, 4, 4}
	for i, v := range vertices {
		if v.Y != wantTags[i] {
			t.Fatalf("vertex %d from slice %v, want %v", i, v.Y, wantTags[i])
		}
	}
}

func TestBuildGeometryIdempotent(t *testing.T) {
	h := NewHistory(10, 1.0)
	for i := 0; i < 3; i++ {
		h.Append(flatSlice(float64(i), 5))
	}
	h.Advance(0.1)

	first, firstColors := BuildGeometry(h)
	second, secondColors := BuildGeometry(h)
	for i := range first {
		if first[i] != second[i] || firstColors[i] != secondColors[i] {
			t.Fatalf("geometry differs at vertex %d without intervening mutation", i)
		}
	}
}
