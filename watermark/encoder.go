package watermark

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-watermark/dsp/frame"
	"github.com/cwbudde/algo-watermark/dsp/transform"
)

// Encoder embeds framed bit sequences into sample buffers by scaling
// frequency bins.
type Encoder struct {
	cfg     Config
	workers int
}

// EncoderOption mutates a new Encoder.
type EncoderOption func(*Encoder)

// WithWorkers sets the number of parallel frame workers. Frames are
// independent, so they can be processed concurrently; bit-to-bin assignment
// is precomputed per frame, which keeps the output identical to the
// sequential path. Values below 2 keep processing single-threaded.
func WithWorkers(n int) EncoderOption {
	return func(e *Encoder) {
		if n > 1 {
			e.workers = n
		}
	}
}

// NewEncoder creates an encoder for the given configuration.
func NewEncoder(cfg Config, opts ...EncoderOption) (*Encoder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Encoder{cfg: cfg, workers: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}

	return e, nil
}

// Config returns the encoder's configuration.
func (e *Encoder) Config() Config { return e.cfg }

// Capacity returns the embeddable bit count for a signal of sampleCount
// samples under the encoder's configuration.
func (e *Encoder) Capacity(sampleCount int) int {
	return e.cfg.Capacity(sampleCount)
}

// Embed returns a copy of samples carrying the message. Bits are consumed
// in frame order, then bin order from StartBin upward; frames beyond the
// last consumed bit pass through unchanged. The input is not modified.
//
// Embed fails with ErrPayloadTooLarge for messages over 65535 bytes and
// with ErrCapacityExceeded when the framed bit sequence does not fit the
// signal's usable bins. No partial output is produced on error.
func (e *Encoder) Embed(samples []float64, message []byte) ([]float64, error) {
	bits, err := BuildBitSequence(e.cfg.Pilot, message)
	if err != nil {
		return nil, err
	}

	capacity := e.cfg.Capacity(len(samples))
	if len(bits) > capacity {
		return nil, fmt.Errorf("%w: need %d bits, capacity is %d", ErrCapacityExceeded, len(bits), capacity)
	}

	seg, err := frame.NewSegmenter(samples, e.cfg.FrameLength())
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(samples))

	usable := e.cfg.UsableBins()
	modulated := (len(bits) + usable - 1) / usable

	if e.workers > 1 && modulated > 1 {
		err = e.embedParallel(out, seg, bits, modulated)
	} else {
		err = e.embedRange(out, seg, bits, 0, modulated, nil)
	}

	if err != nil {
		return nil, err
	}

	// Frames that carry no bits keep their original samples.
	for f := modulated; f < seg.Count(); f++ {
		start := f * seg.FrameLength()
		copy(out[start:], seg.At(f))
	}

	return out, nil
}

// embedRange processes frames [first, last), reusing tr when provided.
func (e *Encoder) embedRange(out []float64, seg *frame.Segmenter, bits []byte, first, last int, tr *transform.Real) error {
	var err error

	if tr == nil {
		tr, err = transform.NewReal(e.cfg.TransformLength())
		if err != nil {
			return err
		}
	}

	frameBuf := make([]float64, tr.Size())
	spec := make([]complex128, tr.Bins())
	usable := e.cfg.UsableBins()

	for f := first; f < last; f++ {
		lo := f * usable
		hi := min(lo+usable, len(bits))
		if lo >= hi {
			continue
		}

		seg.CopyAt(frameBuf, f)

		if err := tr.Forward(spec, frameBuf); err != nil {
			return err
		}

		e.modulate(spec, bits[lo:hi])

		if err := tr.Inverse(frameBuf, spec); err != nil {
			return err
		}

		chunk := seg.At(f)
		copy(out[f*seg.FrameLength():], frameBuf[:len(chunk)])
	}

	return nil
}

// modulate scales one bin per bit: 1+Strength for a 1, 1-Strength for a 0.
// Both components of the bin scale together, so the bin's phase is
// preserved and only its magnitude moves.
func (e *Encoder) modulate(spec []complex128, bits []byte) {
	high := complex(1+e.cfg.Strength, 0)
	low := complex(1-e.cfg.Strength, 0)

	for i, bit := range bits {
		bin := e.cfg.StartBin + i
		if bit == 1 {
			spec[bin] *= high
		} else {
			spec[bin] *= low
		}
	}
}

func (e *Encoder) embedParallel(out []float64, seg *frame.Segmenter, bits []byte, modulated int) error {
	workers := min(e.workers, modulated)
	perWorker := (modulated + workers - 1) / workers

	var g errgroup.Group

	for w := range workers {
		first := w * perWorker
		last := min(first+perWorker, modulated)
		if first >= last {
			break
		}

		g.Go(func() error {
			// Each worker owns its transform and scratch buffers;
			// output frame regions are disjoint.
			return e.embedRange(out, seg, bits, first, last, nil)
		})
	}

	return g.Wait()
}
