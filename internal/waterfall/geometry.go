package waterfall

// BuildGeometry flattens the history into one vertex run and one matching
// color run, oldest slice first. The output is len(history) * numBins
// entries long and depends only on the history state, so rebuilding without
// an intervening mutation yields identical output. Slices keep their
// relative block position until evicted, which keeps mesh topology stable
// frame to frame.
func BuildGeometry(h *History) ([]Vec3, []RGBA) {
	n := h.Len()
	if n == 0 {
		return nil, nil
	}
	perSlice := len(h.At(0).Vertices)
	vertices := make([]Vec3, 0, n*perSlice)
	colors := make([]RGBA, 0, n*perSlice)
	for i := 0; i < n; i++ {
		s := h.At(i)
		vertices = append(vertices, s.Vertices...)
		colors = append(colors, s.Colors...)
	}
	return vertices, colors
}
