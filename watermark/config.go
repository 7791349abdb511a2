package watermark

import (
	"bytes"
	"fmt"
	"math"

	"github.com/cwbudde/algo-watermark/dsp/core"
)

// Default codec parameters. Frame duration of 20 ms keeps frames locally
// stationary for speech; the start bin skips low frequencies where magnitude
// changes are most audible.
const (
	DefaultFrameDuration = 0.02
	DefaultStartBin      = 10
	DefaultStrength      = 0.15

	maxPayloadBytes  = 65535
	lengthHeaderBits = 16
	bitsPerByte      = 8
)

// DefaultPilot returns the alternating calibration pattern shared by
// encoder and decoder. The 0/1 alternation gives the decoder interleaved
// low and high magnitude references within the first usable bins.
func DefaultPilot() []byte {
	return []byte{0, 1, 0, 1, 0, 1, 0, 1}
}

// Config holds the codec parameters encoder and decoder must share.
//
// The zero value is not usable; start from DefaultConfig and adjust fields
// before constructing an Encoder or Decoder.
type Config struct {
	// SampleRate is the audio sample rate in Hz.
	SampleRate int

	// FrameDuration is the frame length in seconds.
	FrameDuration float64

	// StartBin is the first frequency bin eligible to carry a bit. Bins
	// below it are never touched.
	StartBin int

	// Strength is the magnitude scaling depth: 1-bits scale a bin by
	// 1+Strength, 0-bits by 1-Strength. Larger values separate the two
	// magnitude populations at the cost of louder artifacts.
	Strength float64

	// Pilot is the threshold-calibration bit pattern. It must contain at
	// least one 0 and one 1.
	Pilot []byte
}

// DefaultConfig returns the canonical codec parameters for the given sample
// rate.
func DefaultConfig(sampleRate int) Config {
	return Config{
		SampleRate:    sampleRate,
		FrameDuration: DefaultFrameDuration,
		StartBin:      DefaultStartBin,
		Strength:      DefaultStrength,
		Pilot:         DefaultPilot(),
	}
}

// Validate checks that the configuration describes a usable codec.
func (c Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("watermark: sample rate must be > 0: %d", c.SampleRate)
	}

	if c.FrameDuration <= 0 || math.IsNaN(c.FrameDuration) || math.IsInf(c.FrameDuration, 0) {
		return fmt.Errorf("watermark: frame duration must be > 0: %f", c.FrameDuration)
	}

	if c.Strength <= 0 || c.Strength >= 1 {
		return fmt.Errorf("watermark: strength must be in (0, 1): %f", c.Strength)
	}

	if c.StartBin < 0 {
		return fmt.Errorf("watermark: start bin must be >= 0: %d", c.StartBin)
	}

	if c.StartBin >= c.Bins() {
		return fmt.Errorf("watermark: start bin %d leaves no usable bins of %d", c.StartBin, c.Bins())
	}

	if len(c.Pilot) == 0 {
		return fmt.Errorf("watermark: pilot pattern must not be empty")
	}

	var zeros, ones int

	for i, b := range c.Pilot {
		switch b {
		case 0:
			zeros++
		case 1:
			ones++
		default:
			return fmt.Errorf("watermark: pilot bit %d is not 0 or 1: %d", i, b)
		}
	}

	if zeros == 0 || ones == 0 {
		return fmt.Errorf("watermark: pilot pattern must contain both bit values")
	}

	return nil
}

// Equal reports whether two configurations describe the same codec.
func (c Config) Equal(other Config) bool {
	return c.SampleRate == other.SampleRate &&
		c.FrameDuration == other.FrameDuration &&
		c.StartBin == other.StartBin &&
		c.Strength == other.Strength &&
		bytes.Equal(c.Pilot, other.Pilot)
}

// FrameLength returns the frame length in samples,
// round(SampleRate * FrameDuration), minimum 1.
func (c Config) FrameLength() int {
	n := int(math.Round(float64(c.SampleRate) * c.FrameDuration))
	if n < 1 {
		n = 1
	}

	return n
}

// TransformLength returns the FFT length: the next power of two at or above
// the frame length, minimum 2. The frame remainder is zero-padded.
func (c Config) TransformLength() int {
	return max(core.NextPowerOfTwo(c.FrameLength()), 2)
}

// Bins returns the number of half-spectrum bins per frame,
// TransformLength/2 + 1.
func (c Config) Bins() int {
	return c.TransformLength()/2 + 1
}

// UsableBins returns the bins per frame eligible to carry one bit each.
func (c Config) UsableBins() int {
	u := c.Bins() - c.StartBin
	if u < 0 {
		return 0
	}

	return u
}

// Capacity returns the watermark capacity in bits for a signal of
// sampleCount samples.
func (c Config) Capacity(sampleCount int) int {
	if sampleCount <= 0 {
		return 0
	}

	frameLen := c.FrameLength()
	frames := (sampleCount + frameLen - 1) / frameLen

	return frames * c.UsableBins()
}

// BitLength returns the total framed bit count for a payload of the given
// byte length: pilot + length header + 8 bits per byte.
func (c Config) BitLength(payloadBytes int) int {
	return len(c.Pilot) + lengthHeaderBits + payloadBytes*bitsPerByte
}
