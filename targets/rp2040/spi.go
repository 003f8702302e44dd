//go:build rp2040

package main

import (
	"errors"
	"machine"
)

var errUnknownBus = errors.New("unknown SPI bus")

// RP2040 SPI Bus Configurations
// Each bus specifies which SPI controller and GPIO pins to use

type spiBusConfig struct {
	spi  *machine.SPI // SPI controller (SPI0 or SPI1)
	sck  machine.Pin  // Clock pin
	mosi machine.Pin  // Master Out Slave In
	miso machine.Pin  // Master In Slave Out
}

var rp2040SPIBuses = map[string]spiBusConfig{
	// SPI0 configurations
	"spi0a": {spi: machine.SPI0, sck: machine.GPIO2, mosi: machine.GPIO3, miso: machine.GPIO0},
	"spi0b": {spi: machine.SPI0, sck: machine.GPIO6, mosi: machine.GPIO7, miso: machine.GPIO4},
	"spi0c": {spi: machine.SPI0, sck: machine.GPIO18, mosi: machine.GPIO19, miso: machine.GPIO16},
	"spi0d": {spi: machine.SPI0, sck: machine.GPIO22, mosi: machine.GPIO23, miso: machine.GPIO20},
	"spi0e": {spi: machine.SPI0, sck: machine.GPIO2, mosi: machine.GPIO3, miso: machine.GPIO4},

	// SPI1 configurations
	"spi1a": {spi: machine.SPI1, sck: machine.GPIO10, mosi: machine.GPIO11, miso: machine.GPIO8},
	"spi1b": {spi: machine.SPI1, sck: machine.GPIO14, mosi: machine.GPIO15, miso: machine.GPIO12},
	"spi1c": {spi: machine.SPI1, sck: machine.GPIO26, mosi: machine.GPIO27, miso: machine.GPIO24},
	"spi1d": {spi: machine.SPI1, sck: machine.GPIO10, mosi: machine.GPIO11, miso: machine.GPIO12},
}

// lookupSPIBus returns the pins of a named bus
func lookupSPIBus(name string) (spiBusConfig, error) {
	bus, ok := rp2040SPIBuses[name]
	if !ok {
		return spiBusConfig{}, errUnknownBus
	}
	return bus, nil
}

// configureSPIBus sets up a hardware SPI bus as a mode 0 controller
func configureSPIBus(bus spiBusConfig, rate uint32) error {
	return bus.spi.Configure(machine.SPIConfig{
		Frequency: rate,
		SCK:       bus.sck,
		SDO:       bus.mosi, // SDO = Serial Data Out (MOSI)
		SDI:       bus.miso, // SDI = Serial Data In (MISO)
		Mode:      0,
	})
}
