package spiconsole

import (
	"errors"
	"io"
	"sync"

	"fwconsole/core"
)

var ErrWriteRange = errors.New("write outside read buffer")

// maxEdges is the number of chip-select edges a handshake waits for.
const maxEdges = 4

// Memory simulates an SPI device read buffer with both sides attached:
// firmware writes through core.SPIDeviceDriver, the host reads through
// io.ReaderAt. Every host read is recorded as a last-read address and as
// one chip-select low/high pair. Memory also serves as the GPIO block
// carrying the ready pin.
//
// The chip-select queue holds at most the edges of one handshake. Raising
// a pin starts a new cycle and discards edges left by earlier reads.
//
// Unlike the rest of the console, Memory is safe for concurrent use so
// both sides can run in their own goroutines.
type Memory struct {
	mu       sync.Mutex
	buf      []byte
	lastRead uint32
	cs       []bool
	pins     map[core.GPIOPin]bool
}

// NewMemory creates a simulated read buffer of capacity bytes.
func NewMemory(capacity uint32) *Memory {
	return &Memory{
		buf:  make([]byte, capacity),
		pins: make(map[core.GPIOPin]bool),
	}
}

func (m *Memory) WriteFlashBuffer(offset uint32, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if uint64(offset)+uint64(len(data)) > uint64(len(m.buf)) {
		return ErrWriteRange
	}
	copy(m.buf[offset:], data)
	return nil
}

func (m *Memory) LastReadAddress() (uint32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastRead, nil
}

// ChipSelect replays the chip-select levels of host reads in order and
// reads high when the bus is idle.
func (m *Memory) ChipSelect() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.cs) == 0 {
		return true, nil
	}
	level := m.cs[0]
	m.cs = m.cs[1:]
	return level, nil
}

func (m *Memory) ReadAt(p []byte, off int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if off < 0 || off >= int64(len(m.buf)) {
		return 0, io.EOF
	}
	n := copy(p, m.buf[off:])
	if n > 0 {
		m.lastRead = uint32(off) + uint32(n) - 1
	}
	if len(m.cs) >= maxEdges {
		m.cs = append(m.cs[:0], m.cs[2:]...)
	}
	m.cs = append(m.cs, false, true)
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (m *Memory) SetPin(pin core.GPIOPin, value bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if value && !m.pins[pin] {
		m.cs = m.cs[:0]
	}
	m.pins[pin] = value
	return nil
}

func (m *Memory) GetPin(pin core.GPIOPin) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pins[pin], nil
}
