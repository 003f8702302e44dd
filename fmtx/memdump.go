package fmtx

import "fwconsole/sink"

// HexdumpFormat describes the layout of a memory dump.
type HexdumpFormat struct {
	BytesPerWord int
	WordsPerLine int
	// Alphabet maps every byte value to the glyph shown in the ASCII
	// gutter. nil selects ASCIIAlphabet.
	Alphabet *[256]byte
}

// ASCIIAlphabet passes printable ASCII through and shows '.' elsewhere.
var ASCIIAlphabet = func() (a [256]byte) {
	for i := range a {
		if i >= ' ' && i < 0x7F {
			a[i] = byte(i)
		} else {
			a[i] = '.'
		}
	}
	return a
}()

// DefaultHexdumpFormat prints 16 bytes per line in 2-byte words.
var DefaultHexdumpFormat = HexdumpFormat{
	BytesPerWord: 2,
	WordsPerLine: 8,
	Alphabet:     &ASCIIAlphabet,
}

const spaces = "                "

// Fhexdump dumps data to out in DefaultHexdumpFormat.
func Fhexdump(out sink.Sink, data []byte) int {
	return FhexdumpWith(out, DefaultHexdumpFormat, data)
}

// Snhexdump dumps data into buf. Like Snprintf it returns the untruncated
// length.
func Snhexdump(buf []byte, data []byte) int {
	return SnhexdumpWith(buf, DefaultHexdumpFormat, data)
}

// SnhexdumpWith is Snhexdump with an explicit format.
func SnhexdumpWith(buf []byte, f HexdumpFormat, data []byte) int {
	return FhexdumpWith(&truncating{buf: buf}, f, data)
}

// FhexdumpWith dumps data to out, one line per BytesPerWord*WordsPerLine
// bytes:
//
//	00000000: 4142 4344  ABCD
//
// Each line starts with its offset. Words show their bytes in memory
// order. A short last line is padded so the gutter lines up with the lines
// above it. It returns the total out accepted, or 0 for a format without
// words.
func FhexdumpWith(out sink.Sink, f HexdumpFormat, data []byte) int {
	out = sink.OrDiscard(out)
	if f.BytesPerWord <= 0 || f.WordsPerLine <= 0 {
		return 0
	}
	alphabet := f.Alphabet
	if alphabet == nil {
		alphabet = &ASCIIAlphabet
	}

	written := 0
	bytesPerLine := f.BytesPerWord * f.WordsPerLine
	charsPerLine := bytesPerLine*2 + f.WordsPerLine

	for line := 0; line < len(data); line += bytesPerLine {
		written += Fprintf(out, "%08x:", Uint(uint32(line)))

		// width counts the glyphs of the hex column regardless of how
		// many the sink accepted.
		width := 0
		for word := 0; word < bytesPerLine; word += f.BytesPerWord {
			if len(data) <= line+word {
				break
			}

			left := min(len(data)-line-word, f.BytesPerWord)
			written += Fprintf(out, " ")
			start := line + word
			written += HexDump(out, data[start:start+left], left, PadZero, false, DigitsLow)
			width += 1 + 2*left
		}
		for width < charsPerLine {
			chunk := min(charsPerLine-width, len(spaces))
			written += Fprintf(out, "%!s", Str(spaces[:chunk]))
			width += chunk
		}

		written += Fprintf(out, "  ")
		var glyphs [16]byte
		buffered := 0
		for i := 0; i < bytesPerLine; i++ {
			if buffered == len(glyphs) {
				written += out.Output(glyphs[:buffered])
				buffered = 0
			}
			if line+i >= len(data) {
				break
			}
			glyphs[buffered] = alphabet[data[line+i]]
			buffered++
		}
		if buffered > 0 {
			written += out.Output(glyphs[:buffered])
		}
		written += Fprintf(out, "\n")
	}

	return written
}
