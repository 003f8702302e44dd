package core

import "tinygo.org/x/drivers"

// UARTDriver is the abstract polled UART transmitter.
type UARTDriver interface {
	// SendByte blocks until b has been queued for transmission.
	SendByte(b byte) error
}

// DriversUART adapts a tinygo drivers.UART (machine.UART implements it)
// to UARTDriver.
type DriversUART struct {
	UART drivers.UART
	buf  [1]byte
}

// NewDriversUART wraps u.
func NewDriversUART(u drivers.UART) *DriversUART {
	return &DriversUART{UART: u}
}

func (d *DriversUART) SendByte(b byte) error {
	d.buf[0] = b
	n, err := d.UART.Write(d.buf[:])
	if err != nil {
		return err
	}
	if n != 1 {
		return ErrShortWrite
	}
	return nil
}
