package protocol

import (
	"fwconsole/core"
	"fwconsole/fmtx"
)

// SPITransport is a sink that frames console output into the SPI device's
// circular read buffer.
//
// Flow control runs in one of two modes. Without a TX-ready pin the host
// polls the buffer continuously and the transport waits until the host's
// last read address leaves room for the frame. With a TX-ready pin the
// transport raises the pin after each frame and follows the host's two
// reads (header, payload) on the chip-select line; the host drains the
// whole buffer each time, so the next frame starts at offset 0.
//
// Both waits spin without a timeout: a host that stops reading stalls the
// caller forever. A driver error while sending a chunk makes Output retry
// that chunk, also without bound. Only the first failure of a chunk is
// reported.
//
// An SPITransport is owned by one execution context and is not safe for
// concurrent use.
type SPITransport struct {
	dev      core.SPIDeviceDriver
	capacity uint32

	nextWriteAddress uint32
	frameNumber      uint32

	gpio    core.GPIODriver
	txReady core.GPIOPin

	retrying bool
	debugBuf [96]byte
}

// NewSPITransport creates a transport for dev whose read buffer holds
// capacity bytes. It panics if ValidCapacity(capacity) is false.
func NewSPITransport(dev core.SPIDeviceDriver, capacity uint32) *SPITransport {
	if !ValidCapacity(capacity) {
		panic("protocol: invalid SPI read buffer capacity")
	}
	return &SPITransport{
		dev:      dev,
		capacity: capacity,
	}
}

// SetTxReadyIndicator switches to GPIO handshake mode using pin on gpio.
// A nil gpio switches back to polling mode.
func (t *SPITransport) SetTxReadyIndicator(gpio core.GPIODriver, pin core.GPIOPin) {
	t.gpio = gpio
	t.txReady = pin
}

// ResetFrameNumber restarts frame numbering at 0. The write cursor is
// kept: the host still expects frames where the last one ended.
func (t *SPITransport) ResetFrameNumber() {
	t.frameNumber = 0
}

// FrameNumber returns the number the next frame will carry.
func (t *SPITransport) FrameNumber() uint32 { return t.frameNumber }

// NextWriteAddress returns the buffer offset of the next frame.
func (t *SPITransport) NextWriteAddress() uint32 { return t.nextWriteAddress }

// Capacity returns the read buffer size in bytes.
func (t *SPITransport) Capacity() uint32 { return t.capacity }

// Output splits p into frames of at most MaxPayload bytes and sends them
// in order. A chunk whose frame fails is sent again until it succeeds.
func (t *SPITransport) Output(p []byte) int {
	maxPayload := int(MaxPayload(t.capacity))
	written := 0
	for written < len(p) {
		n := min(len(p)-written, maxPayload)
		if t.SendFrame(p[written:written+n]) == n {
			written += n
			t.retrying = false
		} else {
			t.retrying = true
		}
	}
	return written
}

// SendFrame sends p as a single frame and returns len(p), or 0 if the
// frame does not fit the buffer or a driver call failed.
func (t *SPITransport) SendFrame(p []byte) int {
	length := uint32(len(p))
	frameSize := FrameSize(length)
	if len(p) >= int(t.capacity) || frameSize >= t.capacity {
		t.debug("spi console: frame of %u bytes dropped, buffer holds %u", length, t.capacity)
		return 0
	}

	var header [HeaderSize]byte
	NewHeader(t.frameNumber, length).MarshalTo(header[:])

	if t.gpio == nil {
		if !t.waitForSpace(frameSize) {
			return 0
		}
	}

	// Payload first, header last: the host never sees a valid header in
	// front of incomplete data.
	dataAddress := (t.nextWriteAddress + HeaderSize) % t.capacity
	aligned := length &^ 3
	if err := t.write(p[:aligned], dataAddress); err != nil {
		t.debug("spi console: payload write failed at %u", dataAddress)
		return 0
	}

	if aligned != length {
		tail := [4]byte{PadByte, PadByte, PadByte, PadByte}
		copy(tail[:], p[aligned:])
		if err := t.write(tail[:], (dataAddress+aligned)%t.capacity); err != nil {
			t.debug("spi console: tail write failed at %u", dataAddress+aligned)
			return 0
		}
	}

	if err := t.write(header[:], t.nextWriteAddress); err != nil {
		t.debug("spi console: header write failed at %u", t.nextWriteAddress)
		return 0
	}

	t.nextWriteAddress = (t.nextWriteAddress + frameSize) % t.capacity
	t.frameNumber++

	if t.gpio != nil {
		if !t.handshake() {
			return 0
		}
		t.nextWriteAddress = 0
	}

	return len(p)
}

// waitForSpace polls the host's last read address until frameSize bytes
// plus one header of headroom are free in front of the write cursor.
func (t *SPITransport) waitForSpace(frameSize uint32) bool {
	for {
		lastRead, err := t.dev.LastReadAddress()
		if err != nil {
			t.debug("spi console: last read address unavailable")
			return false
		}

		// A polling host cannot tell an empty buffer from a fully drained
		// one, so its last read may run one header past the last frame.
		adjusted := (t.capacity + lastRead%t.capacity - HeaderSize) % t.capacity

		// Frames are word aligned.
		nextRead := ((adjusted + 1) &^ 3) % t.capacity

		var available uint32
		if nextRead > t.nextWriteAddress {
			available = nextRead - t.nextWriteAddress - 1
		} else {
			available = nextRead + (t.capacity - t.nextWriteAddress) - 1
		}

		if frameSize+HeaderSize <= available {
			return true
		}
	}
}

// handshake raises the TX-ready pin and follows chip select through the
// host's header read and payload read: low, high, low, high. The pin drops
// after the first low, once the host has committed to both reads.
func (t *SPITransport) handshake() bool {
	_ = t.gpio.SetPin(t.txReady, true)

	target := false
	for i := 0; i < 4; i++ {
		for {
			cs, err := t.dev.ChipSelect()
			if err != nil {
				t.debug("spi console: chip select unavailable")
				return false
			}
			if cs == target {
				break
			}
		}
		if i == 0 {
			_ = t.gpio.SetPin(t.txReady, false)
		}
		target = !target
	}
	return true
}

// write copies buf to address, splitting it at the end of the buffer.
func (t *SPITransport) write(buf []byte, address uint32) error {
	if len(buf) == 0 {
		return nil
	}

	toEnd := t.capacity - address
	first := min(uint32(len(buf)), toEnd)
	if err := t.dev.WriteFlashBuffer(address, buf[:first]); err != nil {
		return err
	}

	if first < uint32(len(buf)) {
		return t.dev.WriteFlashBuffer(0, buf[first:])
	}
	return nil
}

func (t *SPITransport) debug(format string, vals ...uint32) {
	if !core.IsDebugEnabled() || t.retrying {
		return
	}
	var args [2]fmtx.Arg
	n := min(len(vals), len(args))
	for i := 0; i < n; i++ {
		args[i] = fmtx.Uint(vals[i])
	}
	l := min(fmtx.Snprintf(t.debugBuf[:], format, args[:n]...), len(t.debugBuf))
	core.DebugPrintBytes(t.debugBuf[:l])
}
