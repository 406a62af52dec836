package waterfall

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBA is one vertex color, premultiplied nowhere, components in [0,1].
type RGBA struct {
	R, G, B, A float64
}

// Colormap maps a normalized magnitude in [0,1] to a color. Values outside
// the range are clamped by the callers before mapping.
type Colormap func(t float64) RGBA

// anchorMap linearly blends a ramp of anchor colors. Anchors are assumed
// evenly spaced over [0,1].
func anchorMap(hex []string) Colormap {
	anchors := make([]colorful.Color, len(hex))
	for i, h := range hex {
		c, err := colorful.Hex(h)
		if err != nil {
			panic("waterfall: bad colormap anchor " + h)
		}
		anchors[i] = c
	}
	return func(t float64) RGBA {
		t = clamp01(t)
		pos := t * float64(len(anchors)-1)
		lo := int(pos)
		if lo >= len(anchors)-1 {
			lo = len(anchors) - 2
		}
		c := anchors[lo].BlendRgb(anchors[lo+1], pos-float64(lo))
		return RGBA{R: c.R, G: c.G, B: c.B, A: 1}
	}
}

// Matplotlib viridis and magma, sampled at nine evenly spaced points.
var (
	viridis = anchorMap([]string{
		"#440154", "#472d7b", "#3b528b", "#2c728e", "#21918c",
		"#28ae80", "#5ec962", "#addc30", "#fde725",
	})
	magma = anchorMap([]string{
		"#000004", "#1d1147", "#51127c", "#822681", "#b73779",
		"#e75263", "#fc8961", "#fec488", "#fcfdbf",
	})
	// heat is the classic black-red-yellow-white ramp.
	heat = anchorMap([]string{
		"#000000", "#780000", "#e00000", "#ff8c00", "#ffd000", "#ffffff",
	})
)

var colormaps = map[string]Colormap{
	"viridis": viridis,
	"magma":   magma,
	"heat":    heat,
}

// Lookup resolves a colormap by name.
func Lookup(name string) (Colormap, error) {
	cm, ok := colormaps[name]
	if !ok {
		return nil, fmt.Errorf("unknown colormap %q", name)
	}
	return cm, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
