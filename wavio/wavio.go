// Package wavio reads and writes PCM WAV containers and converts between
// integer samples and normalized float amplitudes.
//
// Normalization divides by 32768 while quantization multiplies by 32767.
// The asymmetry mirrors the signed 16-bit range and keeps the round trip
// within one least significant bit for every valid sample value.
package wavio

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-watermark/dsp/core"
)

const (
	fullScaleDivisor    = 32768.0
	fullScaleMultiplier = 32767.0

	// DefaultBitDepth is the sample resolution written when none is known.
	DefaultBitDepth = 16

	pcmFormat = 1
)

// Info describes the container metadata that must match between encode and
// decode and passes through unmodified from reader to writer.
type Info struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// ReadFile decodes a PCM WAV file into normalized float samples in
// [-1, 1). Multi-channel audio is kept as one interleaved sequence.
func ReadFile(path string) ([]float64, Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Info{}, fmt.Errorf("wavio: open %s: %w", path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, Info{}, fmt.Errorf("wavio: %s is not a valid WAV file", path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, Info{}, fmt.Errorf("wavio: read PCM from %s: %w", path, err)
	}

	info := Info{
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
	}

	samples := make([]float64, len(buf.Data))
	Normalize(samples, buf.Data)

	return samples, info, nil
}

// WriteFile quantizes samples and writes them as a PCM WAV file with the
// given container metadata.
func WriteFile(path string, samples []float64, info Info) error {
	if info.SampleRate <= 0 {
		return fmt.Errorf("wavio: sample rate must be > 0: %d", info.SampleRate)
	}

	if info.Channels <= 0 {
		return fmt.Errorf("wavio: channel count must be > 0: %d", info.Channels)
	}

	if info.BitDepth <= 0 {
		info.BitDepth = DefaultBitDepth
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wavio: create %s: %w", path, err)
	}

	pcm := make([]int, len(samples))
	Quantize(pcm, samples)

	enc := wav.NewEncoder(f, info.SampleRate, info.BitDepth, info.Channels, pcmFormat)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: info.Channels,
			SampleRate:  info.SampleRate,
		},
		Data:           pcm,
		SourceBitDepth: info.BitDepth,
	}

	if err := enc.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("wavio: write samples to %s: %w", path, err)
	}

	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("wavio: finalize %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("wavio: close %s: %w", path, err)
	}

	return nil
}

// Normalize converts integer PCM samples to floats by dividing by the
// full-scale value 32768. dst and pcm must have the same length.
func Normalize(dst []float64, pcm []int) {
	n := min(len(dst), len(pcm))
	for i := range n {
		dst[i] = float64(pcm[i]) / fullScaleDivisor
	}
}

// Quantize converts normalized floats back to integer PCM: clamp to
// [-1, 1], scale by 32767, round, and clamp to the signed 16-bit range.
// dst and samples must have the same length.
func Quantize(dst []int, samples []float64) {
	n := min(len(dst), len(samples))
	for i := range n {
		scaled := math.Round(core.Clamp(samples[i], -1, 1) * fullScaleMultiplier)
		dst[i] = int(core.Clamp(scaled, math.MinInt16, math.MaxInt16))
	}
}
