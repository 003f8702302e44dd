//go:build rp2040

package main

import (
	"machine"

	"fwconsole/config"
	"fwconsole/core"
	"fwconsole/targets/pio"
)

// newUARTDriver sets up the console UART, either the hardware UART that
// owns the TX pin or a PIO transmitter on any pin.
func newUARTDriver(c config.UARTConfig) (core.UARTDriver, error) {
	tx, err := config.PinNumber(c.TxPin)
	if err != nil {
		return nil, err
	}

	if c.PIO {
		u, err := pio.NewUARTTx()
		if err != nil {
			return nil, err
		}
		if err := u.Init(machine.Pin(tx), c.Baud); err != nil {
			return nil, err
		}
		return u, nil
	}

	rx, err := config.PinNumber(c.RxPin)
	if err != nil {
		return nil, err
	}

	// UART0 TX is on GPIO0/12/16/28, UART1 TX on GPIO4/8/20/24
	uart := machine.UART0
	if ((tx+4)/8)%2 == 1 {
		uart = machine.UART1
	}

	err = uart.Configure(machine.UARTConfig{
		BaudRate: c.Baud,
		TX:       machine.Pin(tx),
		RX:       machine.Pin(rx),
	})
	if err != nil {
		return nil, err
	}

	return core.NewDriversUART(uart), nil
}
