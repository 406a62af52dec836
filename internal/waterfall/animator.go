package waterfall

import "github.com/dmarch/specfall/internal/pipeline"

// Animator ties the render tick together: it ages the history, drains the
// queue, and lifts drained spectra into slices. Both front ends drive their
// frames through Step so the advance-then-append ordering is fixed in one
// place: existing slices move first, new slices enter at depth zero.
type Animator struct {
	history *History
	queue   *pipeline.Queue
	axis    []float64
	cmap    Colormap
	cfg     Config
}

// NewAnimator builds an Animator for a session. The frequency axis is
// derived once from the source sample rate and spectrum width.
func NewAnimator(queue *pipeline.Queue, sampleRate, numBins int, cfg Config) (*Animator, error) {
	cmap, err := Lookup(cfg.Colormap)
	if err != nil {
		return nil, err
	}
	return &Animator{
		history: NewHistory(cfg.MaxSlices, cfg.Speed),
		queue:   queue,
		axis:    FreqAxis(sampleRate, numBins),
		cmap:    cmap,
		cfg:     cfg,
	}, nil
}

// History exposes the underlying history for geometry building and views.
func (a *Animator) History() *History { return a.history }

// Step runs one render tick worth of motion: advance all slices by dt
// seconds, then append every queued spectrum at depth zero.
func (a *Animator) Step(dt float64) {
	a.history.Advance(dt)
	for _, spectrum := range a.queue.DrainAll() {
		a.history.Append(NewSlice(spectrum, a.axis, a.cfg.AmpScale, a.cmap, a.cfg.FloorDB, a.cfg.CeilDB))
	}
}
