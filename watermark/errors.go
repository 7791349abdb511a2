package watermark

import "errors"

var (
	// ErrPayloadTooLarge reports a message that does not fit the 16-bit
	// length header.
	ErrPayloadTooLarge = errors.New("watermark: payload exceeds 16-bit length header")

	// ErrCapacityExceeded reports a bit sequence larger than the usable
	// bins of the signal.
	ErrCapacityExceeded = errors.New("watermark: bit sequence exceeds embedding capacity")

	// ErrTruncatedWatermark reports a signal with fewer usable bins than
	// the watermark framing requires.
	ErrTruncatedWatermark = errors.New("watermark: truncated watermark")

	// ErrInvalidPayloadEncoding reports recovered payload bytes that are
	// not valid UTF-8.
	ErrInvalidPayloadEncoding = errors.New("watermark: payload is not valid UTF-8")

	// ErrConfigMismatch reports encoder and decoder configurations that
	// disagree.
	ErrConfigMismatch = errors.New("watermark: configuration mismatch")
)
