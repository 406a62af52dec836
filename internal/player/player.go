package player

import (
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/dmarch/specfall/internal/dsp"
	"github.com/dmarch/specfall/internal/pipeline"
)

const bytesPerSample = 2 // 16-bit PCM

// Player streams a source file to the output device while feeding the
// spectral queue one spectrum per delivered block.
type Player struct {
	source    *Source
	tap       *analysisTap
	otoCtx    *oto.Context
	otoPlayer *oto.Player

	bytesPerSec int64
	duration    time.Duration
	volume      float64
	paused      bool
	done        chan struct{}
	status      error // last device error, side channel for the UI thread
	mu          sync.Mutex
	closed      bool
}

var (
	globalOtoCtx *oto.Context
	otoOnce      sync.Once
	otoInitErr   error
)

// initOto creates the process-wide oto context on first use. The device
// runs at the first source's native rate and channel count.
func initOto(sampleRate, channels int) (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channels,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		globalOtoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-ready
		}
	})
	return globalOtoCtx, otoInitErr
}

// New opens a Player over src and starts playback. The analyzer's block
// size is derived from the source sample rate and blocksPerSec; the
// resulting spectra land in queue as the device consumes audio.
func New(src *Source, queue *pipeline.Queue, blocksPerSec int) (*Player, error) {
	ctx, err := initOto(src.SampleRate, src.Channels)
	if err != nil {
		return nil, err
	}

	analyzer := dsp.NewAnalyzer(dsp.BlockSize(src.SampleRate, blocksPerSec))
	tap := newAnalysisTap(src, analyzer, queue, src.Channels)

	bytesPerSec := int64(src.SampleRate) * int64(src.Channels) * bytesPerSample
	p := &Player{
		source:      src,
		tap:         tap,
		otoCtx:      ctx,
		bytesPerSec: bytesPerSec,
		duration:    time.Duration(float64(src.Length()) / float64(bytesPerSec) * float64(time.Second)),
		volume:      0.8,
		done:        make(chan struct{}),
	}

	p.otoPlayer = ctx.NewPlayer(tap)
	p.otoPlayer.SetVolume(p.volume)
	p.otoPlayer.Play()

	go p.monitor()

	return p, nil
}

// NumBins returns the spectrum width produced for this session.
func (p *Player) NumBins() int { return p.tap.analyzer.NumBins() }

// BlockSize returns the analysis block length in sample frames.
func (p *Player) BlockSize() int { return p.tap.analyzer.BlockSize() }

// monitor watches for end of stream and collects device errors into the
// status side channel. It never propagates anything into the audio path.
func (p *Player) monitor() {
	for {
		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return
		}
		if err := p.otoPlayer.Err(); err != nil {
			p.status = err
		}
		paused := p.paused
		p.mu.Unlock()

		if !paused && p.tap.Finished() {
			close(p.done)
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
}

// Done returns a channel that closes when the stream has been fully
// delivered. Queued slices keep animating after this fires.
func (p *Player) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Err returns the last device error observed mid-playback, if any.
// Device errors are non-fatal; playback continues best-effort.
func (p *Player) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// TogglePause toggles between play and pause.
func (p *Player) TogglePause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.paused {
		p.otoPlayer.Play()
		p.paused = false
	} else {
		p.otoPlayer.Pause()
		p.paused = true
	}
}

// Paused returns whether playback is paused.
func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Position returns the current playback position.
func (p *Player) Position() time.Duration {
	secs := float64(p.tap.Pos()) / float64(p.bytesPerSec)
	return time.Duration(secs * float64(time.Second))
}

// Duration returns the total duration of the source.
func (p *Player) Duration() time.Duration {
	return p.duration
}

// Seek moves playback by delta from the current position. The device
// player is recreated to flush its buffer and the analysis tap drops its
// stale partial block.
func (p *Player) Seek(delta time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}

	newPos := p.tap.Pos() + int64(delta.Seconds()*float64(p.bytesPerSec))
	if newPos < 0 {
		newPos = 0
	}
	if total := p.source.Length(); newPos > total {
		newPos = total
	}

	// Align to a sample frame boundary.
	frameSize := int64(p.source.Channels) * bytesPerSample
	newPos -= newPos % frameSize

	p.otoPlayer.Pause()
	_ = p.otoPlayer.Close()
	if _, err := p.source.Seek(newPos, io.SeekStart); err != nil {
		p.status = err
		return
	}
	p.tap.ResetAt(newPos)

	p.otoPlayer = p.otoCtx.NewPlayer(p.tap)
	p.otoPlayer.SetVolume(p.volume)
	if !p.paused {
		p.otoPlayer.Play()
	}
}

// Volume returns the current volume in [0, 1].
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// SetVolume sets the volume, clamped to [0, 1].
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	p.volume = v
	p.otoPlayer.SetVolume(v)
}

// AdjustVolume adjusts the volume by delta.
func (p *Player) AdjustVolume(delta float64) {
	p.mu.Lock()
	v := p.volume + delta
	p.mu.Unlock()
	p.SetVolume(v)
}

// Close stops the device and releases the source. Safe to call in any
// teardown order; later calls are no-ops.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	p.otoPlayer.Pause()
	_ = p.otoPlayer.Close()
	p.source.Close()
}
