// Package testutil provides deterministic signals and tolerance helpers for
// codec tests.
package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a sine wave with a fixed phase origin.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise from a fixed seed.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a single impulse of the given amplitude at pos.
func Impulse(length, pos int, amplitude float64) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = amplitude
	}
	return out
}

// ImpulseTrain places an impulse at the start of every period. Within each
// period the magnitude spectrum is flat, which makes per-bin scaling
// directly observable in tests.
func ImpulseTrain(length, period int, amplitude float64) []float64 {
	out := make([]float64, length)
	if period <= 0 {
		return out
	}
	for i := 0; i < length; i += period {
		out[i] = amplitude
	}
	return out
}

// Scaled returns a copy of signal with every sample multiplied by factor.
func Scaled(signal []float64, factor float64) []float64 {
	out := make([]float64, len(signal))
	for i, v := range signal {
		out[i] = v * factor
	}
	return out
}
