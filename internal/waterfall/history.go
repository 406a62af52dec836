package waterfall

// Vec3 is one waterfall vertex: x is frequency position, y is amplitude
// height, z is depth (age).
type Vec3 struct {
	X, Y, Z float64
}

// Slice is one spectrum lifted into 3D: a row of vertices plus a parallel
// row of colors, always of equal length.
type Slice struct {
	Vertices []Vec3
	Colors   []RGBA
}

// FreqAxis returns the x positions of the frequency bins, computed once per
// session. The axis spans [0, 20] regardless of sample rate, matching a
// Nyquist-wide display 20 units across.
func FreqAxis(sampleRate, numBins int) []float64 {
	axis := make([]float64, numBins)
	if numBins < 2 {
		return axis
	}
	nyquist := float64(sampleRate) / 2
	scale := 20.0 / nyquist
	for i := range axis {
		freq := float64(i) * nyquist / float64(numBins-1)
		axis[i] = freq * scale
	}
	return axis
}

// NewSlice lifts a spectrum into a Slice at depth zero. Heights are the raw
// dB values scaled by ampScale; colors come from the colormap after
// normalizing dB into [floorDB, ceilDB].
func NewSlice(spectrum, axis []float64, ampScale float64, cmap Colormap, floorDB, ceilDB float64) Slice {
	n := len(spectrum)
	s := Slice{
		Vertices: make([]Vec3, n),
		Colors:   make([]RGBA, n),
	}
	span := ceilDB - floorDB
	for i, db := range spectrum {
		s.Vertices[i] = Vec3{X: axis[i], Y: db * ampScale}
		s.Colors[i] = cmap(clamp01((db - floorDB) / span))
	}
	return s
}

// History is the bounded, time-advancing sequence of slices. Slots live in
// a fixed ring indexed by a rolling head, so eviction is a pointer advance
// rather than a shift. Owned exclusively by the render tick.
type History struct {
	slots []Slice
	head  int // index of the oldest slice
	size  int
	speed float64
}

// NewHistory creates a History holding at most maxSlices slices scrolling
// at speed depth-units per second.
func NewHistory(maxSlices int, speed float64) *History {
	return &History{
		slots: make([]Slice, maxSlices),
		speed: speed,
	}
}

// Len returns the number of live slices.
func (h *History) Len() int { return h.size }

// Cap returns the history depth.
func (h *History) Cap() int { return len(h.slots) }

// At returns the i-th slice, oldest first. It panics if i is out of range,
// like a slice index.
func (h *History) At(i int) *Slice {
	if i < 0 || i >= h.size {
		panic("waterfall: history index out of range")
	}
	return &h.slots[(h.head+i)%len(h.slots)]
}

// Advance ages every slice by dt seconds, moving it away from the origin
// plane. Called once per render tick whether or not new slices arrived, so
// scroll speed tracks wall-clock time rather than data arrival.
func (h *History) Advance(dt float64) {
	dz := h.speed * dt
	for i := 0; i < h.size; i++ {
		s := h.At(i)
		for j := range s.Vertices {
			s.Vertices[j].Z += dz
		}
	}
}

// Append adds a slice at the newest end, evicting the oldest slice when the
// ring is full. New slices enter at whatever depth their vertices carry,
// which is zero for NewSlice output.
func (h *History) Append(s Slice) {
	if h.size == len(h.slots) {
		h.slots[h.head] = s
		h.head = (h.head + 1) % len(h.slots)
		return
	}
	h.slots[(h.head+h.size)%len(h.slots)] = s
	h.size++
}
