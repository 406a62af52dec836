package ui

import (
	"strings"

	"github.com/charmbracelet/harmonica"

	"github.com/dmarch/specfall/internal/waterfall"
)

var ridgeChars = []rune(" ▁▂▃▄▅▆▇█")

// springField smooths one value per column with a shared spring, so the
// ridge line eases toward new targets instead of jumping.
type springField struct {
	spring harmonica.Spring
	pos    []float64
	vel    []float64
}

func newSpringField(fps int, frequency, damping float64) springField {
	return springField{spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping)}
}

func (s *springField) resize(n int) {
	if len(s.pos) == n {
		return
	}
	s.pos = make([]float64, n)
	s.vel = make([]float64, n)
}

func (s *springField) step(i int, target float64) float64 {
	p, v := s.spring.Update(s.pos[i], s.vel[i], target)
	s.pos[i] = p
	s.vel[i] = v
	return p
}

// waterfallView renders the slice history as a terminal heatmap: newest
// slice at the top, older slices fading toward the bottom, two slices per
// terminal row via half-block cells. A spring-smoothed ridge line of the
// newest spectrum sits above the heatmap.
type waterfallView struct {
	smooth springField
	cfg    waterfall.Config
}

func newWaterfallView(cfg waterfall.Config) *waterfallView {
	return &waterfallView{
		smooth: newSpringField(cfg.TickRate, 8.5, 0.72),
		cfg:    cfg,
	}
}

// normalized recovers the [0,1] magnitude of vertex j of a slice from its
// height, inverting the dB scaling applied when the slice was built.
func (v *waterfallView) normalized(s *waterfall.Slice, j int) float64 {
	db := s.Vertices[j].Y / v.cfg.AmpScale
	return clamp01((db - v.cfg.FloorDB) / (v.cfg.CeilDB - v.cfg.FloorDB))
}

// sliceColor samples the color of a slice at a fractional column position.
func sliceColor(s *waterfall.Slice, frac float64) waterfall.RGBA {
	idx := int(frac * float64(len(s.Colors)-1))
	if idx >= len(s.Colors) {
		idx = len(s.Colors) - 1
	}
	return s.Colors[idx]
}

// Render draws the ridge plus heatmap into a string of height terminal
// rows and width columns.
func (v *waterfallView) Render(h *waterfall.History, width, height int) string {
	if width < 8 {
		width = 8
	}
	if height < 2 {
		height = 2
	}

	var out strings.Builder
	v.renderRidge(&out, h, width)
	out.WriteByte('\n')
	v.renderHeat(&out, h, width, height-1)
	return out.String()
}

func (v *waterfallView) renderRidge(out *strings.Builder, h *waterfall.History, width int) {
	v.smooth.resize(width)

	var newest *waterfall.Slice
	if h.Len() > 0 {
		newest = h.At(h.Len() - 1)
	}

	color := newANSIState()
	for c := 0; c < width; c++ {
		frac := float64(c) / float64(width-1)
		target := 0.0
		if newest != nil {
			target = v.normalized(newest, int(frac*float64(len(newest.Vertices)-1)))
		}
		level := clamp01(v.smooth.step(c, target))
		idx := int(level * float64(len(ridgeChars)-1))
		ch := ridgeChars[idx]
		if ch == ' ' || newest == nil {
			color.reset(out)
			out.WriteRune(ch)
			continue
		}
		color.setFG(out, toRGB(sliceColor(newest, frac)))
		out.WriteRune(ch)
	}
	color.reset(out)
}

// renderHeat packs two slices per terminal row with the upper-half block:
// foreground is the younger slice, background the older one.
func (v *waterfallView) renderHeat(out *strings.Builder, h *waterfall.History, width, rows int) {
	n := h.Len()
	color := newANSIState()

	mono := currentColorProfile() == colorNone
	for r := 0; r < rows; r++ {
		if r > 0 {
			out.WriteByte('\n')
		}
		top := n - 1 - r*2 // younger slice of the pair
		bottom := top - 1  // older slice
		for c := 0; c < width; c++ {
			frac := float64(c) / float64(width-1)
			if mono {
				out.WriteRune(v.monoCell(h, top, frac, n))
				continue
			}
			color.setFG(out, heatCell(h, top, frac, n))
			color.setBG(out, heatCell(h, bottom, frac, n))
			out.WriteRune('▀')
		}
		color.reset(out)
	}
}

var monoChars = []rune(" .:-=+*#%@")

// monoCell maps magnitude to a brightness character for colorless
// terminals.
func (v *waterfallView) monoCell(h *waterfall.History, idx int, frac float64, n int) rune {
	if idx < 0 || idx >= n {
		return ' '
	}
	s := h.At(idx)
	level := v.normalized(s, int(frac*float64(len(s.Vertices)-1)))
	return monoChars[int(level*float64(len(monoChars)-1))]
}

// heatCell returns the faded color of slice idx at a column, or the
// background where no slice exists.
func heatCell(h *waterfall.History, idx int, frac float64, n int) rgb {
	if idx < 0 || idx >= n {
		return heatBackground
	}
	age := float64(n-1-idx) / float64(n)
	return toRGB(sliceColor(h.At(idx), frac)).dim(age * 0.65)
}
