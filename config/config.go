// Package config loads the console configuration from JSON.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fwconsole/fmtx"
	"fwconsole/protocol"
)

var ErrBadPin = errors.New("bad pin name")

// Load parses a JSON configuration and fills in defaults
func Load(jsonData []byte) (*Console, error) {
	var config Console

	err := json.Unmarshal(jsonData, &config)
	if err != nil {
		return nil, err
	}

	// Apply defaults
	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// applyDefaults fills in missing configuration values
func applyDefaults(config *Console) {
	if config.Transport == "" {
		config.Transport = TransportUART
	}
	if config.CaptureSize == 0 {
		config.CaptureSize = 1024
	}

	if config.UART.Baud == 0 {
		config.UART.Baud = 115200
	}
	if config.UART.TxPin == "" {
		config.UART.TxPin = "gpio0"
	}
	if config.UART.RxPin == "" {
		config.UART.RxPin = "gpio1"
	}

	if config.SPI.BufferSize == 0 {
		config.SPI.BufferSize = protocol.DefaultBufferSize
	}

	if config.Hexdump.BytesPerWord == 0 {
		config.Hexdump.BytesPerWord = 2
	}
	if config.Hexdump.WordsPerLine == 0 {
		config.Hexdump.WordsPerLine = 8
	}

	if config.Bridge.BufferSize == 0 {
		config.Bridge.BufferSize = protocol.DefaultBufferSize
	}
	if config.Bridge.Driver == "" {
		config.Bridge.Driver = BridgeDriverFlash
	}
	if config.Bridge.Bus == "" {
		config.Bridge.Bus = "spi0c"
	}
	if config.Bridge.CSPin == "" {
		config.Bridge.CSPin = "gpio17"
	}
}

// Validate checks that the configuration can be applied
func (c *Console) Validate() error {
	switch c.Transport {
	case TransportNone, TransportUART, TransportCapture:
	case TransportSPI:
		if !protocol.ValidCapacity(c.SPI.BufferSize) {
			return fmt.Errorf("spi buffer_size %d: must be a multiple of 4 above %d", c.SPI.BufferSize, 2*protocol.HeaderSize+4)
		}
		if c.SPI.GPIOHandshake {
			if _, err := PinNumber(c.SPI.TxReadyPin); err != nil {
				return fmt.Errorf("spi tx_ready_pin: %w", err)
			}
		}
	default:
		return fmt.Errorf("unknown transport %q", c.Transport)
	}

	if c.Transport == TransportUART {
		if _, err := PinNumber(c.UART.TxPin); err != nil {
			return fmt.Errorf("uart tx_pin: %w", err)
		}
	}
	if c.CaptureSize < 0 {
		return fmt.Errorf("capture_size %d: must not be negative", c.CaptureSize)
	}

	if c.Hexdump.BytesPerWord <= 0 || c.Hexdump.WordsPerLine <= 0 {
		return fmt.Errorf("hexdump layout %dx%d: both values must be positive", c.Hexdump.BytesPerWord, c.Hexdump.WordsPerLine)
	}

	if c.Bridge.Enabled {
		if !protocol.ValidCapacity(c.Bridge.BufferSize) {
			return fmt.Errorf("bridge buffer_size %d: must be a multiple of 4 above %d", c.Bridge.BufferSize, 2*protocol.HeaderSize+4)
		}
		if c.Bridge.Driver != BridgeDriverFlash && c.Bridge.Driver != BridgeDriverBus {
			return fmt.Errorf("unknown bridge driver %q", c.Bridge.Driver)
		}
		if _, err := PinNumber(c.Bridge.CSPin); err != nil {
			return fmt.Errorf("bridge cs_pin: %w", err)
		}
		if c.Bridge.ReadyPin != "" {
			if _, err := PinNumber(c.Bridge.ReadyPin); err != nil {
				return fmt.Errorf("bridge ready_pin: %w", err)
			}
		}
	}

	return nil
}

// PinNumber parses a pin name of the form "gpioN".
func PinNumber(name string) (uint32, error) {
	digits, ok := strings.CutPrefix(name, "gpio")
	if !ok || digits == "" {
		return 0, fmt.Errorf("%q: %w", name, ErrBadPin)
	}
	n, err := strconv.ParseUint(digits, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", name, ErrBadPin)
	}
	return uint32(n), nil
}

// Default returns the configuration used when none is supplied
func Default() *Console {
	config := &Console{}
	applyDefaults(config)
	return config
}

// Format returns the dump layout with an ASCII gutter
func (h HexdumpConfig) Format() fmtx.HexdumpFormat {
	return fmtx.HexdumpFormat{
		BytesPerWord: h.BytesPerWord,
		WordsPerLine: h.WordsPerLine,
		Alphabet:     &fmtx.ASCIIAlphabet,
	}
}
