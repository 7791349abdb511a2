// Package watermark embeds short messages into PCM audio by scaling the
// magnitude of selected frequency bins per frame, and recovers them without
// access to the original signal.
//
// The bit sequence is pilot + 16-bit big-endian length header + payload
// bytes MSB first. The pilot carries no payload; the decoder uses its known
// values to calibrate the magnitude threshold that separates 1-bits from
// 0-bits, which keeps detection independent of absolute signal level.
//
// Encoder and decoder must share the same Config. Any mismatch in sample
// rate, frame duration, start bin, or pilot desynchronizes the bit-to-bin
// mapping and makes recovery impossible.
package watermark
