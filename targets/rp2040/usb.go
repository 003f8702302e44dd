//go:build rp2040

package main

import (
	"machine"
)

// InitUSB initializes USB serial communication
func InitUSB() {
	// machine.Serial is USB CDC on RP2040
	err := machine.Serial.Configure(machine.UARTConfig{})
	if err != nil {
		return
	}
}

// USBWriteBytes writes multiple bytes to USB
func USBWriteBytes(data []byte) (int, error) {
	return machine.Serial.Write(data)
}

// usbDebugWriter prints debug messages as lines on USB
func usbDebugWriter(msg string) {
	USBWriteBytes([]byte(msg))
	USBWriteBytes([]byte("\r\n"))
}
