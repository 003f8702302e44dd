package sink

import "fwconsole/core"

// UART sends output one byte at a time through a polled UART driver.
// On a driver failure it reports the index of the failing byte.
type UART struct {
	Driver core.UARTDriver
}

func (u UART) Output(p []byte) int {
	for i, b := range p {
		if err := u.Driver.SendByte(b); err != nil {
			return i
		}
	}
	return len(p)
}
