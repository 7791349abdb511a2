package watermark

import (
	"fmt"
	"unicode/utf8"

	"github.com/cwbudde/algo-watermark/dsp/frame"
	"github.com/cwbudde/algo-watermark/dsp/spectrum"
	"github.com/cwbudde/algo-watermark/dsp/transform"
)

// Decoder recovers embedded messages from watermarked sample buffers.
//
// The decision threshold is calibrated once from the pilot bins of the
// first frame and applied globally. Per-frame recalibration would track
// level changes across the recording, but the encoder spends pilot bits
// only once; signals whose level drifts between frames are outside the
// codec's robustness envelope.
type Decoder struct {
	cfg Config
}

// NewDecoder creates a decoder for the given configuration. It must match
// the encoder's configuration exactly.
func NewDecoder(cfg Config) (*Decoder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Decoder{cfg: cfg}, nil
}

// Config returns the decoder's configuration.
func (d *Decoder) Config() Config { return d.cfg }

// Extract recovers the embedded message as a string. It fails with
// ErrInvalidPayloadEncoding when the recovered bytes are not valid UTF-8;
// use ExtractBytes for raw payloads.
func (d *Decoder) Extract(samples []float64) (string, error) {
	payload, err := d.ExtractBytes(samples)
	if err != nil {
		return "", err
	}

	if !utf8.Valid(payload) {
		return "", fmt.Errorf("%w: % x", ErrInvalidPayloadEncoding, payload)
	}

	return string(payload), nil
}

// ExtractBytes recovers the raw payload bytes.
//
// It fails with ErrTruncatedWatermark when the signal has too few usable
// bins for the pilot, the length header, or the payload the header
// declares.
func (d *Decoder) ExtractBytes(samples []float64) ([]byte, error) {
	r, err := newBinReader(d.cfg, samples)
	if err != nil {
		return nil, err
	}

	header, err := r.readBits(lengthHeaderBits)
	if err != nil {
		return nil, err
	}

	payloadBytes := 0
	for _, bit := range header {
		payloadBytes = payloadBytes<<1 | int(bit)
	}

	need := payloadBytes * bitsPerByte
	if need > r.remaining() {
		return nil, fmt.Errorf("%w: header declares %d payload bytes (%d bits), only %d bins remain",
			ErrTruncatedWatermark, payloadBytes, need, r.remaining())
	}

	payloadBits, err := r.readBits(need)
	if err != nil {
		return nil, err
	}

	return bitsToBytes(payloadBits), nil
}

// binReader walks usable bins in encoder scan order, frame by frame,
// classifying each bin magnitude against the calibrated threshold.
type binReader struct {
	cfg       Config
	seg       *frame.Segmenter
	tr        *transform.Real
	frameBuf  []float64
	spec      []complex128
	mags      []float64
	threshold float64
	loaded    int // index of the frame currently analyzed
	pos       int // next global bit position, pilot included
	total     int // usable bins across the whole signal
}

func newBinReader(cfg Config, samples []float64) (*binReader, error) {
	seg, err := frame.NewSegmenter(samples, cfg.FrameLength())
	if err != nil {
		return nil, err
	}

	usable := cfg.UsableBins()
	pilotLen := len(cfg.Pilot)

	if seg.Count() == 0 || usable < pilotLen {
		return nil, fmt.Errorf("%w: %d usable bins per frame, pilot needs %d",
			ErrTruncatedWatermark, usable, pilotLen)
	}

	tr, err := transform.NewReal(cfg.TransformLength())
	if err != nil {
		return nil, err
	}

	r := &binReader{
		cfg:      cfg,
		seg:      seg,
		tr:       tr,
		frameBuf: make([]float64, tr.Size()),
		spec:     make([]complex128, tr.Bins()),
		mags:     make([]float64, tr.Bins()),
		loaded:   -1,
		total:    seg.Count() * usable,
	}

	if err := r.load(0); err != nil {
		return nil, err
	}

	r.threshold = calibrateThreshold(r.mags, cfg.Pilot, cfg.StartBin)
	r.pos = pilotLen

	return r, nil
}

// load transforms frame f and caches its bin magnitudes.
func (r *binReader) load(f int) error {
	if r.loaded == f {
		return nil
	}

	r.seg.CopyAt(r.frameBuf, f)

	if err := r.tr.Forward(r.spec, r.frameBuf); err != nil {
		return err
	}

	spectrum.Magnitude(r.mags, r.spec)
	r.loaded = f

	return nil
}

func (r *binReader) remaining() int {
	return r.total - r.pos
}

func (r *binReader) readBits(n int) ([]byte, error) {
	if n > r.remaining() {
		return nil, fmt.Errorf("%w: need %d more bits, %d bins remain",
			ErrTruncatedWatermark, n, r.remaining())
	}

	usable := r.cfg.UsableBins()
	bits := make([]byte, n)

	for i := range bits {
		f := r.pos / usable
		bin := r.cfg.StartBin + r.pos%usable

		if err := r.load(f); err != nil {
			return nil, err
		}

		if r.mags[bin] > r.threshold {
			bits[i] = 1
		}

		r.pos++
	}

	return bits, nil
}

// calibrateThreshold derives the bit decision level from the known pilot
// bins: the midpoint between the mean magnitude of bins the pilot marks as
// 1 and those it marks as 0. Because both means scale with the recording's
// absolute level, the threshold tracks it and no fixed numeric level is
// needed.
func calibrateThreshold(mags []float64, pilot []byte, startBin int) float64 {
	var hiSum, loSum float64
	var hiN, loN int

	for i, bit := range pilot {
		m := mags[startBin+i]
		if bit == 1 {
			hiSum += m
			hiN++
		} else {
			loSum += m
			loN++
		}
	}

	var hi, lo float64
	if hiN > 0 {
		hi = hiSum / float64(hiN)
	}

	if loN > 0 {
		lo = loSum / float64(loN)
	}

	return (hi + lo) / 2
}
