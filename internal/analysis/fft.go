package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Spectrum is a one-sided amplitude spectrum.
type Spectrum struct {
	Freqs []float64
	Power []float64
}

// PowerSpectrum removes the mean of data and returns the amplitude of
// each frequency bin up to Nyquist. sampleRate is in samples per second.
func PowerSpectrum(data []float64, sampleRate float64) *Spectrum {
	n := len(data)
	if n < 2 || sampleRate <= 0 {
		return &Spectrum{}
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(n)

	centered := make([]float64, n)
	for i, v := range data {
		centered[i] = v - mean
	}

	bins := fft.FFTReal(centered)
	half := n / 2
	s := &Spectrum{
		Freqs: make([]float64, half),
		Power: make([]float64, half),
	}
	for i := 0; i < half; i++ {
		s.Freqs[i] = float64(i) * sampleRate / float64(n)
		s.Power[i] = cmplx.Abs(bins[i]) / float64(n)
	}
	return s
}

// Dominant returns the frequency with the most power, skipping DC.
func (s *Spectrum) Dominant() (freq, power float64) {
	for i := 1; i < len(s.Power); i++ {
		if s.Power[i] > power {
			freq, power = s.Freqs[i], s.Power[i]
		}
	}
	return freq, power
}

// Decibels converts Power to dB relative to the strongest bin.
func (s *Spectrum) Decibels() []float64 {
	peak := 0.0
	for _, p := range s.Power {
		peak = math.Max(peak, p)
	}
	out := make([]float64, len(s.Power))
	for i, p := range s.Power {
		if peak == 0 || p == 0 {
			out[i] = -120
			continue
		}
		out[i] = 20 * math.Log10(p/peak)
	}
	return out
}
