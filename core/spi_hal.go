package core

// SPIDeviceDriver is the abstract interface to an SPI device peripheral
// running in flash-emulation mode. The host reads the peripheral's read
// buffer with ordinary flash READ commands; firmware fills that buffer.
type SPIDeviceDriver interface {
	// WriteFlashBuffer copies data into the read buffer at offset.
	// The write is all-or-nothing; offset+len(data) never exceeds the
	// buffer capacity.
	WriteFlashBuffer(offset uint32, data []byte) error

	// LastReadAddress returns the buffer offset of the last byte the host
	// read.
	LastReadAddress() (uint32, error)

	// ChipSelect returns the current chip-select line level.
	// true means deasserted (high).
	ChipSelect() (bool, error)
}
