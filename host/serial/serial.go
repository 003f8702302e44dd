// Package serial opens the host side of a device's console UART, or of a
// bridge forwarding SPI console frames over USB CDC.
package serial

import (
	"io"
)

// Port represents a serial port interface
type Port interface {
	io.ReadWriteCloser

	// Flush discards data received but not yet read
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyACM0", "COM3")
	Device string

	// Baud rate of the console UART. USB CDC bridges ignore it.
	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int
}

// DefaultConfig returns the configuration matching the firmware defaults
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 0, // console output arrives whenever the device prints
	}
}
