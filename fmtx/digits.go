package fmtx

import "fwconsole/sink"

// Digit glyph tables.
const (
	DigitsLow  = "0123456789abcdef"
	DigitsHigh = "0123456789ABCDEF"
)

// Padding selects the fill glyph used to reach a minimum width.
type Padding byte

const (
	PadNone  Padding = 0
	PadSpace Padding = ' '
	PadZero  Padding = '0'
)

// MaxWidth is the widest field the engine renders; it is also the length
// of a 32-bit value written in base 2.
const MaxWidth = 32

// WriteDigits renders value in base (2 to 16) using glyphs, left-padded to
// width (clamped to MaxWidth) with padding, and writes it through out in a
// single call. Zero renders as one glyph. With PadNone no padding is
// applied. It returns what out accepted.
func WriteDigits(out sink.Sink, value uint32, width int, padding Padding, base uint32, glyphs string) int {
	if base < 2 || base > 16 || len(glyphs) < int(base) {
		return 0
	}
	var buf [MaxWidth]byte

	n := 0
	if value == 0 {
		buf[MaxWidth-1] = glyphs[0]
		n++
	}
	for value > 0 {
		buf[MaxWidth-1-n] = glyphs[value%base]
		value /= base
		n++
	}

	if padding != PadNone {
		if width == 0 {
			width = 1
		}
		if width > MaxWidth {
			width = MaxWidth
		}
		for n < width {
			buf[MaxWidth-1-n] = byte(padding)
			n++
		}
	}
	return sink.OrDiscard(out).Output(buf[MaxWidth-n:])
}
