package console

import (
	"fwconsole/core"
	"fwconsole/fmtx"
)

// FaultReportLen is the length of a fault report line.
const FaultReportLen = 4 + 8 + 2

// FaultReport writes a fixed-length fault line straight to a UART,
// bypassing the installed output:
//
//	<prefix><8 lowercase hex digits>\r\n
//
// prefix holds four characters, first character in the low byte. Every
// byte is attempted even after a driver error. It returns the number of
// bytes the driver accepted.
func FaultReport(uart core.UARTDriver, prefix uint32, value uint32) int {
	var line [FaultReportLen]byte
	for i := 0; i < 4; i++ {
		line[i] = byte(prefix >> (8 * i))
	}
	for i := 0; i < 8; i++ {
		line[4+i] = fmtx.DigitsLow[(value>>(28-4*i))&0xF]
	}
	line[12] = '\r'
	line[13] = '\n'

	sent := 0
	for _, b := range line {
		if uart.SendByte(b) == nil {
			sent++
		}
	}
	return sent
}

// Prefix packs four characters into a FaultReport prefix.
func Prefix(s string) uint32 {
	var p uint32
	for i := 0; i < 4 && i < len(s); i++ {
		p |= uint32(s[i]) << (8 * i)
	}
	return p
}
