// Package frame splits a sample buffer into fixed-length, non-overlapping
// frames for per-frame spectral processing.
//
// Frames cover the buffer left to right with no gaps and no overlap. The
// final frame may be shorter than the nominal length; CopyAt zero-fills the
// remainder of the destination, which is how callers pad up to a transform
// length. Access is by index, so iteration is restartable and random access
// is free.
package frame

import (
	"fmt"

	"github.com/cwbudde/algo-watermark/dsp/core"
)

// Segmenter provides indexed access to the frames of a sample buffer.
type Segmenter struct {
	samples  []float64
	frameLen int
}

// NewSegmenter creates a segmenter over samples with the given frame length.
func NewSegmenter(samples []float64, frameLen int) (*Segmenter, error) {
	if frameLen <= 0 {
		return nil, fmt.Errorf("frame: frame length must be > 0: %d", frameLen)
	}

	return &Segmenter{samples: samples, frameLen: frameLen}, nil
}

// Count returns the number of frames, zero for an empty buffer.
func (s *Segmenter) Count() int {
	return (len(s.samples) + s.frameLen - 1) / s.frameLen
}

// FrameLength returns the nominal frame length in samples.
func (s *Segmenter) FrameLength() int { return s.frameLen }

// Len returns the total number of samples covered.
func (s *Segmenter) Len() int { return len(s.samples) }

// At returns frame i as a sub-slice of the source buffer. The final frame
// may be shorter than the nominal length. Indexes outside [0, Count) return
// an empty slice.
func (s *Segmenter) At(i int) []float64 {
	if i < 0 || i >= s.Count() {
		return nil
	}

	start := i * s.frameLen
	end := min(start+s.frameLen, len(s.samples))

	return s.samples[start:end]
}

// CopyAt copies frame i into dst, zero-filling any remainder, and returns
// the number of source samples copied. dst is typically a transform-length
// buffer, so a short or out-of-range frame yields a zero-padded result.
func (s *Segmenter) CopyAt(dst []float64, i int) int {
	chunk := s.At(i)
	n := copy(dst, chunk)
	core.Zero(dst[n:])

	return n
}
