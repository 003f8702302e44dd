package protocol

import (
	"bufio"
	"fmt"
	"io"
)

// FrameReader decodes consecutive frames from a byte stream, such as a
// bridge forwarding the SPI read buffer over a serial line or a capture
// file. Bytes in front of a valid header are skipped.
type FrameReader struct {
	r      *bufio.Reader
	window [HeaderSize]byte

	synced   bool
	expected uint32
	missed   uint32
	skipped  uint64
}

// NewFrameReader creates a FrameReader reading from r
func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: bufio.NewReader(r)}
}

// Next reads the next frame and returns its header and payload. The
// payload is read into buf and aliases it; buf must hold the aligned
// payload.
func (fr *FrameReader) Next(buf []byte) (Header, []byte, error) {
	if _, err := io.ReadFull(fr.r, fr.window[:]); err != nil {
		return Header{}, nil, err
	}

	for {
		h, err := ParseHeader(fr.window[:])
		if err == nil {
			return fr.payload(h, buf)
		}

		// Slide the window by one byte and look again.
		copy(fr.window[:], fr.window[1:])
		b, err := fr.r.ReadByte()
		if err != nil {
			return Header{}, nil, err
		}
		fr.window[HeaderSize-1] = b
		fr.skipped++
	}
}

func (fr *FrameReader) payload(h Header, buf []byte) (Header, []byte, error) {
	aligned := AlignedLength(h.PayloadLength)
	if h.PayloadLength > aligned || uint64(aligned) > uint64(len(buf)) {
		return h, nil, fmt.Errorf("frame %d: %d byte payload: %w", h.FrameNumber, h.PayloadLength, ErrFrameTooLarge)
	}
	if _, err := io.ReadFull(fr.r, buf[:aligned]); err != nil {
		return h, nil, fmt.Errorf("frame %d payload: %w", h.FrameNumber, err)
	}

	if fr.synced && h.FrameNumber != fr.expected {
		fr.missed += h.FrameNumber - fr.expected
	}
	fr.synced = true
	fr.expected = h.FrameNumber + 1

	return h, buf[:h.PayloadLength], nil
}

// Missed returns how many frame numbers were skipped between frames read.
func (fr *FrameReader) Missed() uint32 { return fr.missed }

// Skipped returns how many bytes were discarded while looking for headers.
func (fr *FrameReader) Skipped() uint64 { return fr.skipped }
