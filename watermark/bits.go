package watermark

import "fmt"

// BuildBitSequence produces the framed bit sequence for a payload:
// pilot bits, then a 16-bit big-endian byte count, then the payload bytes
// MSB first. Payloads over 65535 bytes are rejected rather than truncated.
func BuildBitSequence(pilot []byte, payload []byte) ([]byte, error) {
	if len(payload) > maxPayloadBytes {
		return nil, fmt.Errorf("%w: %d bytes, maximum %d", ErrPayloadTooLarge, len(payload), maxPayloadBytes)
	}

	bits := make([]byte, 0, len(pilot)+lengthHeaderBits+len(payload)*bitsPerByte)
	bits = append(bits, pilot...)
	bits = appendUint16Bits(bits, uint16(len(payload)))

	for _, b := range payload {
		bits = appendByteBits(bits, b)
	}

	return bits, nil
}

func appendUint16Bits(bits []byte, v uint16) []byte {
	for shift := lengthHeaderBits - 1; shift >= 0; shift-- {
		bits = append(bits, byte((v>>shift)&1))
	}

	return bits
}

func appendByteBits(bits []byte, b byte) []byte {
	for shift := bitsPerByte - 1; shift >= 0; shift-- {
		bits = append(bits, (b>>shift)&1)
	}

	return bits
}

// bitsToBytes regroups bits MSB first into bytes. len(bits) must be a
// multiple of 8.
func bitsToBytes(bits []byte) []byte {
	out := make([]byte, len(bits)/bitsPerByte)

	for i := range out {
		var b byte
		for _, bit := range bits[i*bitsPerByte : (i+1)*bitsPerByte] {
			b = b<<1 | bit
		}

		out[i] = b
	}

	return out
}
