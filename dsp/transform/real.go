// Package transform wraps FFT plans as a fixed-length real-input transform
// pair.
//
// Forward emits the non-negative-frequency half spectrum of a real frame;
// Inverse reconstructs a real frame from such a half spectrum by restoring
// conjugate symmetry before running the inverse plan. The underlying plan
// applies the 1/N factor on the inverse itself, so round-tripping a frame
// through Forward and Inverse reproduces it without further scaling.
package transform

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-watermark/dsp/core"
)

// Real performs forward and inverse transforms of a fixed power-of-two
// length over real-valued frames.
//
// A Real owns its scratch buffer and reuses it across calls. It is not safe
// for concurrent use; parallel frame workers need one instance each.
type Real struct {
	size int
	half int
	plan *algofft.Plan[complex128]
	buf  []complex128
}

// NewReal creates a transform of the given length. size must be a power of
// two and at least 2.
func NewReal(size int) (*Real, error) {
	if size < 2 || !core.IsPowerOfTwo(size) {
		return nil, fmt.Errorf("transform: length must be a power of two >= 2: %d", size)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("transform: failed to create FFT plan: %w", err)
	}

	return &Real{
		size: size,
		half: size / 2,
		plan: plan,
		buf:  make([]complex128, size),
	}, nil
}

// Size returns the transform length in samples.
func (r *Real) Size() int { return r.size }

// Bins returns the number of half-spectrum bins, Size/2 + 1.
func (r *Real) Bins() int { return r.half + 1 }

// Forward transforms frame into spec. frame may be shorter than Size; the
// remainder is zero-padded. spec must have length Bins.
func (r *Real) Forward(spec []complex128, frame []float64) error {
	if len(frame) > r.size {
		return fmt.Errorf("transform: frame length %d exceeds transform length %d", len(frame), r.size)
	}

	if len(spec) != r.Bins() {
		return fmt.Errorf("transform: spectrum length must be %d: %d", r.Bins(), len(spec))
	}

	for i := range r.size {
		x := 0.0
		if i < len(frame) {
			x = frame[i]
		}

		r.buf[i] = complex(x, 0)
	}

	if err := r.plan.Forward(r.buf, r.buf); err != nil {
		return fmt.Errorf("transform: forward FFT failed: %w", err)
	}

	copy(spec, r.buf[:r.Bins()])

	return nil
}

// Inverse transforms spec back into frame. spec must have length Bins and
// frame must have length Size. The imaginary parts of the DC and Nyquist
// bins are discarded, since a real frame cannot carry them.
func (r *Real) Inverse(frame []float64, spec []complex128) error {
	if len(spec) != r.Bins() {
		return fmt.Errorf("transform: spectrum length must be %d: %d", r.Bins(), len(spec))
	}

	if len(frame) != r.size {
		return fmt.Errorf("transform: frame length must be %d: %d", r.size, len(frame))
	}

	r.buf[0] = complex(real(spec[0]), 0)
	r.buf[r.half] = complex(real(spec[r.half]), 0)

	for k := 1; k < r.half; k++ {
		r.buf[k] = spec[k]
		r.buf[r.size-k] = complex(real(spec[k]), -imag(spec[k]))
	}

	if err := r.plan.Inverse(r.buf, r.buf); err != nil {
		return fmt.Errorf("transform: inverse FFT failed: %w", err)
	}

	for i := range frame {
		frame[i] = real(r.buf[i])
	}

	return nil
}
