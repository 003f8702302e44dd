// Package protocol implements the SPI console framing protocol.
//
// Firmware places frames in the SPI device's circular read buffer and the
// host pulls them out with flash reads:
//
//	+---------------------------+----------+
//	| magic 0xA5A5BEEF  4 bytes |          |
//	| frame number      4 bytes |  header  |
//	| payload length    4 bytes |          |
//	+---------------------------+----------+
//	| payload, word aligned     |          |
//	| 0xFF pad, < 4 bytes       | payload  |
//	+---------------------------+----------+
//
// All header fields are little-endian. The length excludes the pad. A
// header whose magic does not match means "no frame yet".
package protocol

import (
	"encoding/binary"
	"errors"
)

// Protocol constants
const (
	FrameMagic        uint32 = 0xA5A5BEEF
	HeaderSize               = 12
	PadByte                  = 0xFF
	DefaultBufferSize        = 2048 // 512-word SPI device read buffer
)

var (
	ErrShortHeader   = errors.New("short frame header")
	ErrBadMagic      = errors.New("bad frame magic")
	ErrFrameTooLarge = errors.New("frame larger than buffer")
)

// Header is the fixed 12-byte record at the start of every frame.
type Header struct {
	Magic         uint32
	FrameNumber   uint32
	PayloadLength uint32
}

// NewHeader returns the header for frame number frame carrying length
// payload bytes.
func NewHeader(frame, length uint32) Header {
	return Header{Magic: FrameMagic, FrameNumber: frame, PayloadLength: length}
}

// MarshalTo encodes h into the first HeaderSize bytes of b.
func (h Header) MarshalTo(b []byte) {
	_ = b[HeaderSize-1]
	binary.LittleEndian.PutUint32(b[0:4], h.Magic)
	binary.LittleEndian.PutUint32(b[4:8], h.FrameNumber)
	binary.LittleEndian.PutUint32(b[8:12], h.PayloadLength)
}

// ParseHeader decodes a header from the start of b.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, ErrShortHeader
	}
	h := Header{
		Magic:         binary.LittleEndian.Uint32(b[0:4]),
		FrameNumber:   binary.LittleEndian.Uint32(b[4:8]),
		PayloadLength: binary.LittleEndian.Uint32(b[8:12]),
	}
	if h.Magic != FrameMagic {
		return h, ErrBadMagic
	}
	return h, nil
}

// AlignedLength rounds a payload length up to a whole number of words.
func AlignedLength(n uint32) uint32 {
	return (n + 3) &^ 3
}

// FrameSize is the number of buffer bytes a frame with an n-byte payload
// occupies.
func FrameSize(n uint32) uint32 {
	return HeaderSize + AlignedLength(n)
}

// MaxPayload is the largest payload sent in one frame through a buffer of
// the given capacity: one header for the frame itself, one header of
// headroom and one word of alignment slack are reserved.
func MaxPayload(capacity uint32) uint32 {
	return capacity - HeaderSize - HeaderSize - 4
}

// ValidCapacity reports whether capacity can hold framed traffic: a whole
// number of words with room for a non-empty payload.
func ValidCapacity(capacity uint32) bool {
	return capacity%4 == 0 && capacity > 2*HeaderSize+4
}
