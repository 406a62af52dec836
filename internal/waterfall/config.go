// Package waterfall holds the scrolling history of spectral slices and
// turns it into renderable geometry.
package waterfall

import "fmt"

// Config collects the session-fixed tuning knobs of the waterfall pipeline.
type Config struct {
	BlocksPerSec int     // target spectra per second of audio
	Speed        float64 // scroll rate, depth units per second
	AmpScale     float64 // dB-to-height scale for slice vertices
	MaxSlices    int     // history depth before eviction
	FloorDB      float64 // color normalization floor
	CeilDB       float64 // color normalization ceiling
	Colormap     string  // colormap name, see Lookup
	TickRate     int     // render ticks per second
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		BlocksPerSec: 50,
		Speed:        5.0,
		AmpScale:     0.05,
		MaxSlices:    100,
		FloorDB:      -100,
		CeilDB:       0,
		Colormap:     "viridis",
		TickRate:     60,
	}
}

// Validate reports the first nonsensical knob, if any.
func (c Config) Validate() error {
	switch {
	case c.BlocksPerSec <= 0:
		return fmt.Errorf("blocks per second must be positive, got %d", c.BlocksPerSec)
	case c.Speed <= 0:
		return fmt.Errorf("scroll speed must be positive, got %g", c.Speed)
	case c.MaxSlices <= 0:
		return fmt.Errorf("history depth must be positive, got %d", c.MaxSlices)
	case c.CeilDB <= c.FloorDB:
		return fmt.Errorf("dB ceiling %g must exceed floor %g", c.CeilDB, c.FloorDB)
	case c.TickRate <= 0:
		return fmt.Errorf("tick rate must be positive, got %d", c.TickRate)
	}
	if _, err := Lookup(c.Colormap); err != nil {
		return err
	}
	return nil
}
