// Package fmtx is a non-allocating formatted-output engine for firmware
// consoles.
//
// A format string is copied verbatim up to each '%' and each specifier
// renders the next Arg:
//
//	%[!][width]type
//
// A leading '0' in width selects zero padding, any other digit space
// padding. Widths above 32 and an explicit zero width ("%00d", "%0d") are
// rejected. A NUL byte in the format ends it, like the end of the string.
//
//	%%        literal percent
//	%c        one character
//	%s        string up to its first NUL; %!s emits the whole span
//	%d %i     signed decimal; the sign is written before, and outside, the padded field
//	%o %u     unsigned octal, decimal
//	%x %X     unsigned hex; %!x %!X hex-dump a span, last byte first
//	%h %H     unsigned hex
//	%y %Y     illegal; %!y %!Y hex-dump a span, first byte first
//	%p        0x followed by the pointer zero-padded to the native pointer width
//	%b        unsigned binary; %!b the literal true or false
//	%r        status, plain form; %!r structured form
//	%C        32-bit word as four characters, non-printable ones as \xNN
//
// Errors are written into the output instead of returned. A format that
// ends inside a specifier emits %<unexpected nul> and a bad width emits
// %<bad width>; both stop formatting. An unknown or illegal specifier
// emits %<unknown spec> and formatting continues. A missing argument
// emits %<missing arg> and an argument of the wrong kind %<bad arg>.
package fmtx

import (
	"unsafe"

	"fwconsole/sink"
)

// Diagnostic tokens written in place of a failed specifier.
const (
	ErrUnexpectedNul = "%<unexpected nul>"
	ErrUnknownSpec   = "%<unknown spec>"
	ErrBadWidth      = "%<bad width>"
	ErrMissingArg    = "%<missing arg>"
	ErrBadArg        = "%<bad arg>"
)

const ptrSize = int(unsafe.Sizeof(uintptr(0)))

// Spec is a parsed format specifier.
type Spec struct {
	Type        byte
	Width       int
	Padding     Padding
	Nonstandard bool
}

type printer struct {
	out     sink.Sink
	args    []Arg
	next    int
	written int
}

// Fprintf formats to out and returns the total out accepted. A nil out
// discards.
func Fprintf(out sink.Sink, format string, args ...Arg) int {
	p := printer{out: sink.OrDiscard(out), args: args}
	for len(format) > 0 {
		var found bool
		format, found = p.literal(format)
		if !found {
			break
		}
		var spec Spec
		var ok bool
		format, spec, ok = p.specifier(format)
		if !ok {
			break
		}
		p.process(spec)
	}
	return p.written
}

// Snprintf formats into buf, never writing past its end. It returns the
// length the complete output would have had, which exceeds len(buf) when
// the output was truncated.
func Snprintf(buf []byte, format string, args ...Arg) int {
	return Fprintf(&truncating{buf: buf}, format, args...)
}

// truncating copies what fits and claims the rest, so the engine counts
// the untruncated length.
type truncating struct {
	buf []byte
	pos int
}

func (t *truncating) Output(p []byte) int {
	t.pos += copy(t.buf[t.pos:], p)
	return len(p)
}

func (p *printer) write(b []byte) {
	p.written += p.out.Output(b)
}

func (p *printer) token(s string) {
	p.write(bytesOf(s))
}

// literal writes the run up to the next '%' or terminator and returns the
// remaining format starting at '%'.
func (p *printer) literal(format string) (string, bool) {
	i := 0
	for i < len(format) && format[i] != '%' && format[i] != 0 {
		i++
	}
	if i > 0 {
		p.token(format[:i])
	}
	if i == len(format) || format[i] == 0 {
		return "", false
	}
	return format[i:], true
}

// specifier parses the specifier at the start of format, which begins
// with '%'.
func (p *printer) specifier(format string) (string, Spec, bool) {
	var spec Spec
	i := 1

	if i < len(format) && format[i] == '!' {
		spec.Nonstandard = true
		i++
	}

	for {
		if i >= len(format) || format[i] == 0 {
			p.token(ErrUnexpectedNul)
			return "", spec, false
		}
		c := format[i]
		if c < '0' || c > '9' {
			break
		}
		if spec.Padding == PadNone {
			if c == '0' {
				spec.Padding = PadZero
				i++
				continue
			}
			spec.Padding = PadSpace
		}
		// Stop accumulating once out of range; the value stays rejected.
		if spec.Width <= MaxWidth {
			spec.Width = spec.Width*10 + int(c-'0')
		}
		i++
	}

	if (spec.Width == 0 && spec.Padding != PadNone) || spec.Width > MaxWidth {
		p.token(ErrBadWidth)
		return "", spec, false
	}

	spec.Type = format[i]
	return format[i+1:], spec, true
}

func (p *printer) arg() (Arg, bool) {
	if p.next >= len(p.args) {
		p.token(ErrMissingArg)
		return Arg{}, false
	}
	a := p.args[p.next]
	p.next++
	return a, true
}

func (p *printer) word() (uint32, bool) {
	a, ok := p.arg()
	if !ok {
		return 0, false
	}
	w, ok := a.asWord()
	if !ok {
		p.token(ErrBadArg)
	}
	return w, ok
}

func (p *printer) span() ([]byte, bool) {
	a, ok := p.arg()
	if !ok {
		return nil, false
	}
	b, ok := a.asSpan()
	if !ok {
		p.token(ErrBadArg)
	}
	return b, ok
}

func (p *printer) process(spec Spec) {
	switch spec.Type {
	case '%':
		if spec.Nonstandard {
			break
		}
		p.token("%")
		return

	case 'c':
		if spec.Nonstandard {
			break
		}
		if w, ok := p.word(); ok {
			c := [1]byte{byte(w)}
			p.write(c[:])
		}
		return

	case 'C':
		if w, ok := p.word(); ok {
			p.fourCC(w)
		}
		return

	case 's':
		b, ok := p.span()
		if !ok {
			return
		}
		if !spec.Nonstandard {
			for i, c := range b {
				if c == 0 {
					b = b[:i]
					break
				}
			}
		}
		p.write(b)
		return

	case 'd', 'i':
		if spec.Nonstandard {
			break
		}
		if w, ok := p.word(); ok {
			if int32(w) < 0 {
				p.token("-")
				w = -w
			}
			p.written += WriteDigits(p.out, w, spec.Width, spec.Padding, 10, DigitsLow)
		}
		return

	case 'o':
		if spec.Nonstandard {
			break
		}
		p.number(spec, 8, DigitsLow)
		return

	case 'u':
		if spec.Nonstandard {
			break
		}
		p.number(spec, 10, DigitsLow)
		return

	case 'p':
		if spec.Nonstandard {
			break
		}
		p.pointer()
		return

	case 'x', 'X':
		glyphs := DigitsLow
		if spec.Type == 'X' {
			glyphs = DigitsHigh
		}
		if spec.Nonstandard {
			p.dump(spec, true, glyphs)
		} else {
			p.number(spec, 16, glyphs)
		}
		return

	case 'h':
		p.number(spec, 16, DigitsLow)
		return

	case 'H':
		p.number(spec, 16, DigitsHigh)
		return

	case 'y', 'Y':
		if !spec.Nonstandard {
			break
		}
		glyphs := DigitsLow
		if spec.Type == 'Y' {
			glyphs = DigitsHigh
		}
		p.dump(spec, false, glyphs)
		return

	case 'b':
		if spec.Nonstandard {
			if w, ok := p.word(); ok {
				if w != 0 {
					p.token("true")
				} else {
					p.token("false")
				}
			}
			return
		}
		p.number(spec, 2, DigitsLow)
		return

	case 'r':
		a, ok := p.arg()
		if !ok {
			return
		}
		s, ok := a.asStatus()
		if !ok {
			p.token(ErrBadArg)
			return
		}
		p.written += WriteStatus(p.out, s, spec.Nonstandard)
		return
	}

	p.token(ErrUnknownSpec)
}

func (p *printer) number(spec Spec, base uint32, glyphs string) {
	if w, ok := p.word(); ok {
		p.written += WriteDigits(p.out, w, spec.Width, spec.Padding, base, glyphs)
	}
}

func (p *printer) dump(spec Spec, bigEndian bool, glyphs string) {
	if b, ok := p.span(); ok {
		p.written += HexDump(p.out, b, spec.Width, spec.Padding, bigEndian, glyphs)
	}
}

// pointer writes 0x and the pointer at its native width, eight nibbles
// at a time.
func (p *printer) pointer() {
	a, ok := p.arg()
	if !ok {
		return
	}
	ptr, ok := a.asPointer()
	if !ok {
		p.token(ErrBadArg)
		return
	}
	p.token("0x")
	v := uint64(ptr)
	for nibbles := 2 * ptrSize; nibbles > 0; nibbles -= 8 {
		width := min(nibbles, 8)
		chunk := uint32(v >> (4 * (nibbles - width)))
		if width < 8 {
			chunk &= 1<<(4*width) - 1
		}
		p.written += WriteDigits(p.out, chunk, width, PadZero, 16, DigitsLow)
	}
}

// fourCC writes the four bytes of w, lowest first.
func (p *printer) fourCC(w uint32) {
	for i := 0; i < 4; i, w = i+1, w>>8 {
		ch := byte(w)
		if ch >= 32 && ch < 127 {
			c := [1]byte{ch}
			p.write(c[:])
		} else {
			esc := [4]byte{'\\', 'x', DigitsLow[ch>>4], DigitsLow[ch&0xF]}
			p.write(esc[:])
		}
	}
}
