package watermark

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Payload framing: a 32-bit big-endian byte length followed by the
// raw payload bytes, serialized MSB-first into a bit sequence. The
// frame is what actually gets embedded, so the decoder can recover
// the payload without knowing its length in advance.

const (
	headerBits = 32
	// MaxPayloadBytes bounds the embeddable payload; anything larger
	// will not fit in reasonably sized images anyway.
	MaxPayloadBytes = 4096
)

var (
	ErrPayloadTooLarge = errors.New("watermark payload too large")
	ErrEmptyPayload    = errors.New("watermark payload is empty")
	ErrCorruptFrame    = errors.New("corrupt watermark frame")
)

// FrameBits serializes a payload into the framed bit sequence.
func FrameBits(payload []byte) ([]bool, error) {
	if len(payload) == 0 {
		return nil, ErrEmptyPayload
	}
	if len(payload) > MaxPayloadBytes {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrPayloadTooLarge, len(payload), MaxPayloadBytes)
	}

	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(payload)))

	bits := make([]bool, 0, headerBits+len(payload)*8)
	bits = appendBits(bits, header[:])
	bits = appendBits(bits, payload)
	return bits, nil
}

// UnframeBits recovers the payload from a framed bit sequence. The
// input may carry trailing garbage bits past the frame; they are
// ignored.
func UnframeBits(bits []bool) ([]byte, error) {
	if len(bits) < headerBits {
		return nil, fmt.Errorf("%w: only %d bits", ErrCorruptFrame, len(bits))
	}

	header := packBits(bits[:headerBits])
	length := int(binary.BigEndian.Uint32(header))
	if length <= 0 || length > MaxPayloadBytes {
		return nil, fmt.Errorf("%w: implausible length %d", ErrCorruptFrame, length)
	}
	if len(bits) < headerBits+length*8 {
		return nil, fmt.Errorf("%w: frame truncated", ErrCorruptFrame)
	}

	return packBits(bits[headerBits : headerBits+length*8]), nil
}

// FrameBitLen returns the total number of bits the framed payload
// occupies, for capacity checks before embedding.
func FrameBitLen(payload []byte) int {
	return headerBits + len(payload)*8
}

func appendBits(bits []bool, data []byte) []bool {
	for _, b := range data {
		for i := 7; i >= 0; i-- {
			bits = append(bits, (b>>uint(i))&1 == 1)
		}
	}
	return bits
}

func packBits(bits []bool) []byte {
	out := make([]byte, len(bits)/8)
	for i, bit := range bits {
		if bit {
			out[i/8] |= 1 << uint(7-i%8)
		}
	}
	return out
}
