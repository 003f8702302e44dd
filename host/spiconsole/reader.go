// Package spiconsole pulls console frames out of a device's SPI read
// buffer from the host side of the bus.
package spiconsole

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"fwconsole/core"
	"fwconsole/protocol"
)

var ErrNoFrame = errors.New("no frame available")

// Reader follows the frames a protocol.SPITransport writes into a read
// buffer of the given capacity, reached through mem.
//
// In polling mode the reader keeps a cursor that mirrors the device's write
// cursor. A frame is accepted only if its header carries the magic and the
// expected frame number; the first frame seeds the expectation. Anything
// else at the cursor is stale and reads as ErrNoFrame.
//
// In ready-pin mode the device raises a pin when a frame is waiting at
// offset 0. The reader reads it once per pin pulse.
type Reader struct {
	mem      io.ReaderAt
	capacity uint32

	cursor   uint32
	expected uint32
	synced   bool
	missed   uint32

	gpio  core.GPIODriver
	ready core.GPIOPin
	armed bool
}

// NewReader creates a polling-mode reader. It panics if
// protocol.ValidCapacity(capacity) is false.
func NewReader(mem io.ReaderAt, capacity uint32) *Reader {
	if !protocol.ValidCapacity(capacity) {
		panic("spiconsole: invalid read buffer capacity")
	}
	return &Reader{mem: mem, capacity: capacity}
}

// SetReadyPin switches to ready-pin mode using pin on gpio. A nil gpio
// switches back to polling.
//
// A pulse shorter than the poll interval can be missed. The device then
// waits for reads that never come.
func (r *Reader) SetReadyPin(gpio core.GPIODriver, pin core.GPIOPin) {
	r.gpio = gpio
	r.ready = pin
	r.armed = true
	r.cursor = 0
}

// Resync accepts whatever frame number comes next, e.g. after the device
// reinstalled its console and restarted numbering.
func (r *Reader) Resync() {
	r.synced = false
}

// Cursor returns the offset the next frame is expected at.
func (r *Reader) Cursor() uint32 { return r.cursor }

// Missed returns how many frame numbers were skipped in ready-pin mode.
func (r *Reader) Missed() uint32 { return r.missed }

// Next reads the next frame into buf, which must hold the aligned payload,
// and returns the header and the payload aliasing buf. It returns
// ErrNoFrame when no new frame is available yet.
func (r *Reader) Next(buf []byte) (protocol.Header, []byte, error) {
	if r.gpio != nil {
		return r.nextReady(buf)
	}
	return r.nextPolled(buf)
}

func (r *Reader) nextPolled(buf []byte) (protocol.Header, []byte, error) {
	h, err := r.header(r.cursor)
	if err != nil {
		if errors.Is(err, protocol.ErrBadMagic) {
			return h, nil, ErrNoFrame
		}
		return h, nil, err
	}
	if r.synced && h.FrameNumber != r.expected {
		return h, nil, ErrNoFrame
	}

	payload, err := r.payload(h, r.cursor, buf)
	if err != nil {
		return h, nil, err
	}

	r.cursor = (r.cursor + protocol.FrameSize(h.PayloadLength)) % r.capacity
	r.synced = true
	r.expected = h.FrameNumber + 1
	return h, payload, nil
}

func (r *Reader) nextReady(buf []byte) (protocol.Header, []byte, error) {
	high, err := r.gpio.GetPin(r.ready)
	if err != nil {
		return protocol.Header{}, nil, fmt.Errorf("ready pin: %w", err)
	}
	if !high {
		r.armed = true
		return protocol.Header{}, nil, ErrNoFrame
	}
	if !r.armed {
		// Still the pulse of the frame already read.
		return protocol.Header{}, nil, ErrNoFrame
	}

	h, err := r.header(0)
	if err != nil {
		return h, nil, err
	}
	payload, err := r.payload(h, 0, buf)
	if err != nil {
		return h, nil, err
	}
	r.armed = false

	if r.synced && h.FrameNumber != r.expected {
		r.missed += h.FrameNumber - r.expected
	}
	r.synced = true
	r.expected = h.FrameNumber + 1
	return h, payload, nil
}

func (r *Reader) header(at uint32) (protocol.Header, error) {
	var b [protocol.HeaderSize]byte
	if err := r.read(b[:], at); err != nil {
		return protocol.Header{}, err
	}
	h, err := protocol.ParseHeader(b[:])
	if err != nil {
		return h, fmt.Errorf("header at %d: %w", at, err)
	}
	return h, nil
}

func (r *Reader) payload(h protocol.Header, at uint32, buf []byte) ([]byte, error) {
	if h.PayloadLength >= r.capacity || protocol.FrameSize(h.PayloadLength) >= r.capacity {
		return nil, fmt.Errorf("frame %d: %d byte payload: %w", h.FrameNumber, h.PayloadLength, protocol.ErrFrameTooLarge)
	}
	aligned := protocol.AlignedLength(h.PayloadLength)
	if uint32(len(buf)) < aligned {
		return nil, fmt.Errorf("frame %d: %w", h.FrameNumber, io.ErrShortBuffer)
	}

	if err := r.read(buf[:aligned], (at+protocol.HeaderSize)%r.capacity); err != nil {
		return nil, err
	}
	return buf[:h.PayloadLength], nil
}

// read fills p from offset at, splitting the read at the end of the
// buffer.
func (r *Reader) read(p []byte, at uint32) error {
	first := min(uint32(len(p)), r.capacity-at)
	if _, err := r.mem.ReadAt(p[:first], int64(at)); err != nil {
		return fmt.Errorf("read %d bytes at %d: %w", first, at, err)
	}
	if rest := p[first:]; len(rest) > 0 {
		if _, err := r.mem.ReadAt(rest, 0); err != nil {
			return fmt.Errorf("read %d bytes at 0: %w", len(rest), err)
		}
	}
	return nil
}

// Copy writes frame payloads to w as they arrive, checking for new frames
// every interval, until ctx is done or a read fails.
func (r *Reader) Copy(ctx context.Context, w io.Writer, interval time.Duration) error {
	buf := make([]byte, r.capacity)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		_, payload, err := r.Next(buf)
		if err == nil {
			if _, err := w.Write(payload); err != nil {
				return err
			}
			continue
		}
		if !errors.Is(err, ErrNoFrame) {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
