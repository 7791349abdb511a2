// Package spectrum extracts magnitude and power values from complex
// spectrum bins.
//
// The package does not implement a transform itself. It consumes half
// spectra produced by dsp/transform and writes per-bin values into
// caller-owned buffers, so steady-state use allocates nothing.
package spectrum

import (
	"sync"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-watermark/dsp/core"
)

// scratchBuf holds pooled scratch memory for complex-to-real unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	need := 2 * n
	buf.data = core.EnsureLen(buf.data, need)
	return buf.data[:n], buf.data[n:need], buf
}

// Magnitude computes |X[k]| for each bin into dst. dst and bins must have
// the same length; excess dst elements are left untouched.
func Magnitude(dst []float64, bins []complex128) {
	n := min(len(dst), len(bins))
	if n == 0 {
		return
	}

	re, im, buf := getScratch(n)
	for i, c := range bins[:n] {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Magnitude(dst[:n], re, im)
	scratchPool.Put(buf)
}

// Power computes |X[k]|^2 for each bin into dst. dst and bins must have the
// same length; excess dst elements are left untouched.
func Power(dst []float64, bins []complex128) {
	n := min(len(dst), len(bins))
	if n == 0 {
		return
	}

	re, im, buf := getScratch(n)
	for i, c := range bins[:n] {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Power(dst[:n], re, im)
	scratchPool.Put(buf)
}
