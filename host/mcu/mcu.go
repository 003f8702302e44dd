// Package mcu connects to a device's console from the host.
package mcu

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"fwconsole/host/serial"
	"fwconsole/protocol"
)

var ErrNotConnected = errors.New("not connected to MCU")

// MCU represents a connection to a device's console
type MCU struct {
	// Serial port
	port serial.Port

	// Frame decoder for frame streams forwarded by a bridge
	frames *protocol.FrameReader
	buf    []byte

	framesRead uint64

	// Connection state. Close may run from another goroutine to unblock
	// a pending read.
	mu        sync.Mutex
	connected bool
}

// Stats summarizes a frame stream
type Stats struct {
	Frames  uint64 // frames decoded
	Missed  uint32 // frame numbers never seen
	Skipped uint64 // bytes discarded between frames
}

// NewMCU creates a new MCU instance (not yet connected)
func NewMCU() *MCU {
	return &MCU{
		connected: false,
	}
}

// Connect connects to an MCU via serial port
func (m *MCU) Connect(device string) error {
	return m.ConnectWithConfig(serial.DefaultConfig(device))
}

// ConnectWithConfig connects to an MCU with a custom serial config
func (m *MCU) ConnectWithConfig(cfg *serial.Config) error {
	port, err := serial.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to open serial port: %w", err)
	}
	return m.ConnectPort(port)
}

// ConnectPort uses an already open port
func (m *MCU) ConnectPort(port serial.Port) error {
	if err := port.Flush(); err != nil {
		return fmt.Errorf("failed to flush port: %w", err)
	}

	m.port = port
	m.frames = protocol.NewFrameReader(port)
	m.buf = make([]byte, protocol.DefaultBufferSize)
	m.mu.Lock()
	m.connected = true
	m.mu.Unlock()
	return nil
}

// SetBufferSize sets the largest frame accepted from the stream to the
// device's read buffer capacity.
func (m *MCU) SetBufferSize(capacity uint32) {
	m.buf = make([]byte, capacity)
}

// Close closes the connection to the MCU. Closing an already closed
// connection does nothing.
func (m *MCU) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return nil
	}
	m.connected = false
	return m.port.Close()
}

// CopyText copies UART console output to w with CR stripped from line
// ends. It returns nil when the port reaches EOF.
func (m *MCU) CopyText(w io.Writer) error {
	if !m.IsConnected() {
		return ErrNotConnected
	}

	buf := make([]byte, 256)
	for {
		n, err := m.port.Read(buf)
		if n > 0 {
			text := bytes.ReplaceAll(buf[:n], []byte("\r"), nil)
			if _, werr := w.Write(text); werr != nil {
				return fmt.Errorf("failed to write console output: %w", werr)
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read console: %w", err)
		}
	}
}

// ReadFrame reads the next SPI console frame from the stream
func (m *MCU) ReadFrame() (protocol.Header, []byte, error) {
	if !m.IsConnected() {
		return protocol.Header{}, nil, ErrNotConnected
	}

	h, payload, err := m.frames.Next(m.buf)
	if err != nil {
		return h, nil, err
	}
	m.framesRead++
	return h, payload, nil
}

// CopyFrames copies frame payloads to w until the stream ends. onFrame,
// if set, sees every header first.
func (m *MCU) CopyFrames(w io.Writer, onFrame func(protocol.Header)) error {
	for {
		h, payload, err := m.ReadFrame()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if onFrame != nil {
			onFrame(h)
		}
		if _, err := w.Write(payload); err != nil {
			return fmt.Errorf("failed to write frame %d: %w", h.FrameNumber, err)
		}
	}
}

// Stats returns frame stream counters
func (m *MCU) Stats() Stats {
	s := Stats{Frames: m.framesRead}
	if m.frames != nil {
		s.Missed = m.frames.Missed()
		s.Skipped = m.frames.Skipped()
	}
	return s
}

// IsConnected returns whether the MCU is connected
func (m *MCU) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}
