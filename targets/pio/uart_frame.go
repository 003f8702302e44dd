package pio

// Every UART bit takes this many PIO cycles.
const cyclesPerBit = 8

// txWord packs b for the transmit program: the low byte loads the bit
// counter (8 bits, counted from 7 down), the next byte is shifted out LSB
// first.
func txWord(b byte) uint32 {
	return 7 | uint32(b)<<8
}

// clockDivider returns the state machine clock divider for baud, as the
// integer part and 1/256ths.
func clockDivider(cpuHz, baud uint32) (whole uint16, frac uint8) {
	if baud == 0 {
		return 0xFFFF, 0
	}
	// Fixed point with 8 fractional bits.
	div := (uint64(cpuHz) << 8) / (uint64(baud) * cyclesPerBit)
	if div>>8 > 0xFFFF {
		return 0xFFFF, 0
	}
	if div < 1<<8 {
		return 1, 0
	}
	return uint16(div >> 8), uint8(div)
}
