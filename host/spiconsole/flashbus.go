package spiconsole

import (
	"errors"
	"fmt"

	"tinygo.org/x/drivers"

	"fwconsole/core"
)

const (
	cmdRead     = 0x03 // SPI flash READ: command, 24-bit address, data
	addressSpan = 1 << 24
)

var ErrAddressRange = errors.New("address outside 24-bit flash range")

// FlashBus reads a device's SPI read buffer with flash READ transactions.
// Chip select is driven through a GPIO so any drivers.SPI bus works.
type FlashBus struct {
	bus  drivers.SPI
	gpio core.GPIODriver
	cs   core.GPIOPin
	base uint32
}

// NewFlashBus creates a FlashBus and deasserts chip select.
func NewFlashBus(bus drivers.SPI, gpio core.GPIODriver, cs core.GPIOPin) *FlashBus {
	_ = gpio.SetPin(cs, true)
	return &FlashBus{bus: bus, gpio: gpio, cs: cs}
}

// SetBase sets the flash address where the read buffer starts.
func (b *FlashBus) SetBase(addr uint32) {
	b.base = addr
}

// ReadAt reads len(p) bytes starting off bytes into the read buffer.
func (b *FlashBus) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || int64(b.base)+off+int64(len(p)) > addressSpan {
		return 0, ErrAddressRange
	}
	addr := b.base + uint32(off)
	cmd := [4]byte{cmdRead, byte(addr >> 16), byte(addr >> 8), byte(addr)}

	if err := b.gpio.SetPin(b.cs, false); err != nil {
		return 0, fmt.Errorf("chip select: %w", err)
	}
	defer b.gpio.SetPin(b.cs, true)

	if err := b.bus.Tx(cmd[:], nil); err != nil {
		return 0, fmt.Errorf("read command at %#06x: %w", addr, err)
	}
	for i := range p {
		v, err := b.bus.Transfer(0)
		if err != nil {
			return i, fmt.Errorf("read at %#06x: %w", addr+uint32(i), err)
		}
		p[i] = v
	}
	return len(p), nil
}
