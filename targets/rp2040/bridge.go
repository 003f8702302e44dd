//go:build rp2040

package main

import (
	"errors"
	"io"

	"tinygo.org/x/drivers/flash"

	"fwconsole/config"
	"fwconsole/core"
	"fwconsole/fmtx"
	"fwconsole/host/spiconsole"
	"fwconsole/protocol"
)

const bridgeBusRate = 4000000 // 4MHz

// forwarder drains a read buffer through a spiconsole.Reader and passes
// every frame, header included, to USB.
type forwarder struct {
	reader *spiconsole.Reader
	buf    []byte
	frames uint32
}

func newForwarder(mem io.ReaderAt, capacity uint32) *forwarder {
	return &forwarder{
		reader: spiconsole.NewReader(mem, capacity),
		buf:    make([]byte, capacity),
	}
}

// poll forwards frames until none is waiting
func (f *forwarder) poll() {
	for {
		h, _, err := f.reader.Next(f.buf)
		if errors.Is(err, spiconsole.ErrNoFrame) {
			return
		}
		if err != nil {
			msgerrors++
			debugf("bridge: frame read failed, %u errors", msgerrors)
			return
		}

		var header [protocol.HeaderSize]byte
		h.MarshalTo(header[:])
		USBWriteBytes(header[:])
		USBWriteBytes(f.buf[:protocol.AlignedLength(h.PayloadLength)])
		f.frames++
	}
}

// setupBridge connects to another device's SPI console
func setupBridge(c config.BridgeConfig) (*forwarder, error) {
	bus, err := lookupSPIBus(c.Bus)
	if err != nil {
		return nil, err
	}
	cs, err := config.PinNumber(c.CSPin)
	if err != nil {
		return nil, err
	}

	var mem io.ReaderAt
	switch c.Driver {
	case config.BridgeDriverFlash:
		dev := flash.NewSPI(bus.spi, bus.mosi, bus.miso, bus.sck, machinePin(cs))
		if err := dev.Configure(&flash.DeviceConfig{Identifier: flash.DefaultDeviceIdentifier}); err != nil {
			// The read buffer answers READ even if identification fails
			debugf("bridge: flash identification failed")
		}
		mem = dev

	case config.BridgeDriverBus:
		if err := configureSPIBus(bus, bridgeBusRate); err != nil {
			return nil, err
		}
		gpioDriver.ConfigureOutput(core.GPIOPin(cs))
		mem = spiconsole.NewFlashBus(bus.spi, gpioDriver, core.GPIOPin(cs))
	}

	fw := newForwarder(mem, c.BufferSize)

	if c.ReadyPin != "" {
		ready, err := config.PinNumber(c.ReadyPin)
		if err != nil {
			return nil, err
		}
		gpioDriver.ConfigureInputPullDown(core.GPIOPin(ready))
		fw.reader.SetReadyPin(gpioDriver, core.GPIOPin(ready))
	}

	return fw, nil
}

// loopback frames console output into a RAM read buffer and forwards it to
// USB before every frame. The transport and the reader share one thread,
// so the buffer is drained before the transport could wait on it.
type loopback struct {
	transport *protocol.SPITransport
	fw        *forwarder
}

func newLoopback(capacity uint32) *loopback {
	mem := spiconsole.NewMemory(capacity)
	return &loopback{
		transport: protocol.NewSPITransport(mem, capacity),
		fw:        newForwarder(mem, capacity),
	}
}

func (l *loopback) Output(p []byte) int {
	maxPayload := int(protocol.MaxPayload(l.transport.Capacity()))
	written := 0
	for written < len(p) {
		l.fw.poll()
		n := min(len(p)-written, maxPayload)
		written += l.transport.Output(p[written : written+n])
	}
	l.fw.poll()
	return written
}

var debugBuf [128]byte

func debugf(format string, vals ...uint32) {
	if !core.IsDebugEnabled() {
		return
	}
	var args [4]fmtx.Arg
	n := min(len(vals), len(args))
	for i := 0; i < n; i++ {
		args[i] = fmtx.Uint(vals[i])
	}
	l := min(fmtx.Snprintf(debugBuf[:], format, args[:n]...), len(debugBuf))
	core.DebugPrintBytes(debugBuf[:l])
}
