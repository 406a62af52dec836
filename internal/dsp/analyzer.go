// Package dsp turns fixed-size blocks of audio samples into magnitude
// spectra for the waterfall display.
package dsp

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// epsilon keeps silent bins finite: a zero-magnitude bin maps to
// 20*log10(epsilon) = -120 dB instead of -Inf.
const epsilon = 1e-6

// BlockSize returns the analysis block length for the given sample rate and
// target block cadence, rounded up to the next power of two. A 44.1 kHz
// source at 50 blocks/sec yields 1024.
func BlockSize(sampleRate, blocksPerSec int) int {
	if sampleRate <= 0 || blocksPerSec <= 0 {
		return 0
	}
	raw := float64(sampleRate) / float64(blocksPerSec)
	n := 1
	for float64(n) < raw {
		n <<= 1
	}
	return n
}

// Analyzer computes the dB magnitude spectrum of one audio block.
// The window and FFT plan are built once; an Analyzer is not safe for
// concurrent use, the playback driver owns exactly one.
type Analyzer struct {
	blockSize int
	window    []float64
	fft       *fourier.FFT
	scratch   []float64
	coeffs    []complex128
}

// NewAnalyzer creates an Analyzer for blocks of the given length.
// blockSize must be positive; the spectrum length is blockSize/2 + 1.
func NewAnalyzer(blockSize int) *Analyzer {
	window := make([]float64, blockSize)
	for i := range window {
		// Symmetric Hann window.
		window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(blockSize-1)))
	}
	return &Analyzer{
		blockSize: blockSize,
		window:    window,
		fft:       fourier.NewFFT(blockSize),
		scratch:   make([]float64, blockSize),
		coeffs:    make([]complex128, blockSize/2+1),
	}
}

// BlockSize returns the block length this Analyzer was built for.
func (a *Analyzer) BlockSize() int { return a.blockSize }

// NumBins returns the spectrum length: blockSize/2 + 1.
func (a *Analyzer) NumBins() int { return a.blockSize/2 + 1 }

// Analyze windows one block of mono samples and returns its magnitude
// spectrum in dB. Blocks shorter than the block size are zero-padded;
// longer blocks are truncated. The result is freshly allocated and all
// values are finite.
func (a *Analyzer) Analyze(block []float64) []float64 {
	n := copy(a.scratch, block)
	for i := n; i < a.blockSize; i++ {
		a.scratch[i] = 0
	}
	for i := 0; i < a.blockSize; i++ {
		a.scratch[i] *= a.window[i]
	}

	a.coeffs = a.fft.Coefficients(a.coeffs, a.scratch)

	spectrum := make([]float64, len(a.coeffs))
	for i, c := range a.coeffs {
		spectrum[i] = 20 * math.Log10(cmplxAbs(c)+epsilon)
	}
	return spectrum
}

// FloorDB returns the dB value every bin of an all-zero block takes.
func FloorDB() float64 {
	return 20 * math.Log10(epsilon)
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}
