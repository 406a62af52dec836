package ui

import "testing"

func TestDimFullyFadesToBackground(t *testing.T) {
	c := rgb{r: 200, g: 150, b: 50}
	if got := c.dim(1); got != heatBackground {
		t.Fatalf("dim(1) = %+v, want background %+v", got, heatBackground)
	}
	if got := c.dim(0); got != c {
		t.Fatalf("dim(0) = %+v, want unchanged %+v", got, c)
	}
}

func TestHeatCellEmptyRowsUseBackground(t *testing.T) {
	h := testHistory(t, 2)
	if got := heatCell(h, -1, 0.5, h.Len()); got != heatBackground {
		t.Fatalf("cell below range = %+v, want background", got)
	}
	if got := heatCell(h, h.Len(), 0.5, h.Len()); got != heatBackground {
		t.Fatalf("cell above range = %+v, want background", got)
	}
}
