package ui

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/dmarch/specfall/internal/waterfall"
)

type colorProfile uint8

const (
	colorNone colorProfile = iota
	colorANSI256
	colorTrueColor
)

var (
	profileOnce sync.Once
	profile     colorProfile
)

func currentColorProfile() colorProfile {
	profileOnce.Do(func() {
		if _, disabled := os.LookupEnv("NO_COLOR"); disabled {
			profile = colorNone
			return
		}
		term := strings.ToLower(os.Getenv("TERM"))
		colorTerm := strings.ToLower(os.Getenv("COLORTERM"))
		switch {
		case strings.Contains(colorTerm, "truecolor"), strings.Contains(colorTerm, "24bit"):
			profile = colorTrueColor
		case strings.Contains(term, "256color"):
			profile = colorANSI256
		default:
			profile = colorNone
		}
	})
	return profile
}

type rgb struct {
	r, g, b uint8
}

// heatBackground is the near-black ground tone old rows fade toward and
// empty heatmap cells take.
var heatBackground = rgb{r: 14, g: 16, b: 24}

func toRGB(c waterfall.RGBA) rgb {
	return rgb{
		r: uint8(clamp01(c.R) * 255),
		g: uint8(clamp01(c.G) * 255),
		b: uint8(clamp01(c.B) * 255),
	}
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

// dim blends a color toward the background to fade old rows.
func (c rgb) dim(t float64) rgb {
	t = clamp01(t)
	return rgb{
		r: uint8(float64(c.r) + (float64(heatBackground.r)-float64(c.r))*t),
		g: uint8(float64(c.g) + (float64(heatBackground.g)-float64(c.g))*t),
		b: uint8(float64(c.b) + (float64(heatBackground.b)-float64(c.b))*t),
	}
}

// to256 quantizes to the xterm 6x6x6 color cube.
func (c rgb) to256() int {
	return 16 + 36*(int(c.r)*5/255) + 6*(int(c.g)*5/255) + (int(c.b) * 5 / 255)
}

// ansiState writes foreground/background escapes only when they change,
// keeping frame strings short.
type ansiState struct {
	profile colorProfile
	fgSet   bool
	bgSet   bool
	fg      rgb
	bg      rgb
}

func newANSIState() ansiState {
	return ansiState{profile: currentColorProfile()}
}

func (a *ansiState) setFG(out *strings.Builder, c rgb) {
	if a.fgSet && a.fg == c {
		return
	}
	a.fg, a.fgSet = c, true
	switch a.profile {
	case colorTrueColor:
		fmt.Fprintf(out, "\x1b[38;2;%d;%d;%dm", c.r, c.g, c.b)
	case colorANSI256:
		fmt.Fprintf(out, "\x1b[38;5;%dm", c.to256())
	}
}

func (a *ansiState) setBG(out *strings.Builder, c rgb) {
	if a.bgSet && a.bg == c {
		return
	}
	a.bg, a.bgSet = c, true
	switch a.profile {
	case colorTrueColor:
		fmt.Fprintf(out, "\x1b[48;2;%d;%d;%dm", c.r, c.g, c.b)
	case colorANSI256:
		fmt.Fprintf(out, "\x1b[48;5;%dm", c.to256())
	}
}

func (a *ansiState) reset(out *strings.Builder) {
	if a.fgSet || a.bgSet {
		out.WriteString("\x1b[0m")
		a.fgSet, a.bgSet = false, false
	}
}
