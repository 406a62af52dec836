// Package render draws the waterfall into a desktop window. The window's
// frame callback is the render loop: each frame ages the history, drains
// the queue and redraws the surface, independent of audio block cadence.
package render

import (
	"image"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/dmarch/specfall/internal/player"
	"github.com/dmarch/specfall/internal/waterfall"
)

const (
	windowWidth  = 1280
	windowHeight = 720
)

// Window is the ebiten front end: one fixed-rate game loop driving the
// animator and drawing the mesh.
type Window struct {
	anim   *waterfall.Animator
	player *player.Player
	info   string
	cam    camera

	lastTick time.Time
	finished bool
	white    *ebiten.Image

	// Reused across frames to avoid per-frame allocation churn.
	projected []ebiten.Vertex
	visible   []bool
	strip     []ebiten.Vertex
	indices   []uint16
}

// NewWindow builds the windowed front end around an animator and player.
func NewWindow(anim *waterfall.Animator, p *player.Player, info string) *Window {
	white := ebiten.NewImage(3, 3)
	white.Fill(color.White)
	return &Window{
		anim:   anim,
		player: p,
		info:   info,
		cam:    defaultCamera(),
		white:  white,
	}
}

// Run opens the window and blocks until it is closed. The audio player is
// stopped on the way out regardless of which side shut down first.
func (w *Window) Run(tickRate int) error {
	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetWindowTitle("specfall")
	ebiten.SetTPS(tickRate)
	ebiten.SetVsyncEnabled(true)
	defer w.player.Close()
	return ebiten.RunGame(w)
}

// Update runs once per tick: measure the real inter-tick interval, age the
// history, lift queued spectra into slices.
func (w *Window) Update() error {
	now := time.Now()
	if w.lastTick.IsZero() {
		w.lastTick = now
	}
	dt := now.Sub(w.lastTick).Seconds()
	w.lastTick = now

	w.anim.Step(dt)

	select {
	case <-w.player.Done():
		w.finished = true
	default:
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		w.player.TogglePause()
	case inpututil.IsKeyJustPressed(ebiten.KeyLeft):
		w.player.Seek(-5 * time.Second)
	case inpututil.IsKeyJustPressed(ebiten.KeyRight):
		w.player.Seek(5 * time.Second)
	case inpututil.IsKeyJustPressed(ebiten.KeyUp):
		w.player.AdjustVolume(0.05)
	case inpututil.IsKeyJustPressed(ebiten.KeyDown):
		w.player.AdjustVolume(-0.05)
	case inpututil.IsKeyJustPressed(ebiten.KeyQ), inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	}
	return nil
}

// Draw flattens the history through the geometry builder, projects the
// vertex run once, and stitches adjacent slices into triangle strips,
// oldest first so near geometry paints over far. One DrawTriangles call
// per slice pair keeps every batch well under the index limits.
func (w *Window) Draw(screen *ebiten.Image) {
	h := w.anim.History()
	n := h.Len()
	if n == 0 {
		w.drawOverlay(screen)
		return
	}

	vertices, colors := waterfall.BuildGeometry(h)
	bins := len(vertices) / n
	bounds := screen.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	w.projected = w.projected[:0]
	w.visible = w.visible[:0]
	for i, v := range vertices {
		sx, sy, ok := w.cam.project(v, width, height)
		c := colors[i]
		w.projected = append(w.projected, ebiten.Vertex{
			DstX: sx, DstY: sy,
			SrcX: 1.5, SrcY: 1.5,
			ColorR: float32(c.R), ColorG: float32(c.G), ColorB: float32(c.B), ColorA: float32(c.A),
		})
		w.visible = append(w.visible, ok)
	}

	src := w.white.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	for i := 0; i+1 < n; i++ {
		w.strip = w.strip[:0]
		w.indices = w.indices[:0]
		for j := 0; j < bins; j++ {
			far := i*bins + j
			near := (i+1)*bins + j
			if !w.visible[far] || !w.visible[near] {
				continue
			}
			w.strip = append(w.strip, w.projected[far], w.projected[near])
		}
		for j := 0; j+3 < len(w.strip); j += 2 {
			k := uint16(j)
			w.indices = append(w.indices, k, k+1, k+2, k+1, k+3, k+2)
		}
		if len(w.indices) > 0 {
			screen.DrawTriangles(w.strip, w.indices, src, nil)
		}
	}

	w.drawOverlay(screen)
}

func (w *Window) drawOverlay(screen *ebiten.Image) {
	overlay := w.info
	if w.finished {
		overlay += "\n\n[finished]"
	}
	if err := w.player.Err(); err != nil {
		overlay += "\naudio device: " + err.Error()
	}
	ebitenutil.DebugPrintAt(screen, overlay, 10, 10)
}

// Layout fixes the logical resolution; the OS window scales it.
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return windowWidth, windowHeight
}
