package player

import (
	"io"
	"sync"

	"github.com/dmarch/specfall/internal/dsp"
	"github.com/dmarch/specfall/internal/pipeline"
)

// analysisTap sits between the decoder and the output device. Every Read
// happens on the device's pull goroutine, so this is the audio-callback
// context: the tap forwards PCM unchanged, tracks the playback position,
// and accumulates first-channel samples into analysis blocks. Each full
// block is analyzed in place and the spectrum pushed to the queue; neither
// step blocks on the render side.
//
// Errors never escape into the device: the decoder's error terminates the
// stream through the usual io.Reader contract and everything else is fixed
// size by construction.
type analysisTap struct {
	src      io.Reader
	analyzer *dsp.Analyzer
	queue    *pipeline.Queue
	channels int

	mu       sync.Mutex
	pos      int64 // bytes handed to the device
	block    []float64
	fill     int
	frameOff int  // sample offset within the current frame
	carry    byte // dangling low byte of a sample split across Reads
	hasCarry bool
	finished bool
}

func newAnalysisTap(src io.Reader, analyzer *dsp.Analyzer, queue *pipeline.Queue, channels int) *analysisTap {
	return &analysisTap{
		src:      src,
		analyzer: analyzer,
		queue:    queue,
		channels: channels,
		block:    make([]float64, analyzer.BlockSize()),
	}
}

func (t *analysisTap) Read(p []byte) (int, error) {
	n, err := t.src.Read(p)

	t.mu.Lock()
	t.pos += int64(n)
	t.consume(p[:n])
	if err == io.EOF && !t.finished {
		t.finished = true
		if t.fill > 0 {
			// Final short block: Analyze zero-pads it to full length.
			t.queue.Push(t.analyzer.Analyze(t.block[:t.fill]))
			t.fill = 0
		}
	}
	t.mu.Unlock()

	return n, err
}

// consume walks 16-bit LE interleaved PCM, keeping only channel 0.
func (t *analysisTap) consume(data []byte) {
	i := 0
	if t.hasCarry && len(data) > 0 {
		t.addSample(int16(uint16(t.carry) | uint16(data[0])<<8))
		t.hasCarry = false
		i = 1
	}
	for ; i+1 < len(data); i += 2 {
		t.addSample(int16(uint16(data[i]) | uint16(data[i+1])<<8))
	}
	if i < len(data) {
		t.carry = data[i]
		t.hasCarry = true
	}
}

func (t *analysisTap) addSample(s int16) {
	if t.frameOff == 0 {
		t.block[t.fill] = float64(s) / 32768.0
		t.fill++
		if t.fill == len(t.block) {
			t.queue.Push(t.analyzer.Analyze(t.block))
			t.fill = 0
		}
	}
	t.frameOff++
	if t.frameOff == t.channels {
		t.frameOff = 0
	}
}

// Pos returns the byte position of the stream as seen by the device.
func (t *analysisTap) Pos() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pos
}

// ResetAt repositions the tap after a seek: the partial block and any
// split sample are stale and dropped.
func (t *analysisTap) ResetAt(pos int64) {
	t.mu.Lock()
	t.pos = pos
	t.fill = 0
	t.frameOff = 0
	t.hasCarry = false
	t.finished = false
	t.mu.Unlock()
}

// Finished reports whether the end of the stream has been delivered.
func (t *analysisTap) Finished() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.finished
}
