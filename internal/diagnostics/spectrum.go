package diagnostics

import (
	"fmt"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns |X_k| for the non-negative frequency bins of the
// discrete Fourier transform of samples.
func PowerSpectrum(samples []float64) []float64 {
	spectrum := fft.FFTReal(samples)
	ps := make([]float64, len(spectrum)/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency finds the strongest non-DC bin of a series sampled every
// dt and returns its frequency in Hz. The mean is removed first.
func DominantFrequency(samples []float64, dt float64) (float64, error) {
	if len(samples) < 4 {
		return 0, fmt.Errorf("dominant frequency: need at least 4 samples, got %d", len(samples))
	}
	if !(dt > 0) {
		return 0, fmt.Errorf("dominant frequency: sample spacing must be positive, got %v", dt)
	}

	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(len(samples))
	centered := make([]float64, len(samples))
	for i, v := range samples {
		centered[i] = v - mean
	}

	ps := PowerSpectrum(centered)
	best := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[best] {
			best = k
		}
	}
	return float64(best) / (float64(len(samples)) * dt), nil
}
