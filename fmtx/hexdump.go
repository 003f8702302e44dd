package fmtx

import "fwconsole/sink"

const hexScratch = 32

// HexDump writes two glyphs per byte of data. With bigEndian the last byte
// comes first, as a little-endian integer would print with %x.
//
// When len(data) is less than width, width-len(data) padding bytes are
// written first. That pad counts bytes of input, not output glyphs.
// Output goes through a fixed scratch buffer regardless of len(data).
func HexDump(out sink.Sink, data []byte, width int, padding Padding, bigEndian bool, glyphs string) int {
	out = sink.OrDiscard(out)
	if len(glyphs) < 16 {
		return 0
	}
	var buf [hexScratch]byte
	written := 0

	if len(data) < width && padding != PadNone {
		pad := width - len(data)
		for i := range buf {
			buf[i] = byte(padding)
		}
		for pad > 0 {
			chunk := min(pad, len(buf))
			written += out.Output(buf[:chunk])
			pad -= chunk
		}
	}

	buffered := 0
	for i := range data {
		idx := i
		if bigEndian {
			idx = len(data) - i - 1
		}
		b := data[idx]
		buf[buffered] = glyphs[b>>4]
		buf[buffered+1] = glyphs[b&0xF]
		buffered += 2

		if buffered == len(buf) {
			written += out.Output(buf[:buffered])
			buffered = 0
		}
	}

	if buffered != 0 {
		written += out.Output(buf[:buffered])
	}
	return written
}
