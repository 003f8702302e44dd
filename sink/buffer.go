package sink

// Buffer captures output into a caller-provided byte slice and never grows
// it. Once the slice is full, further output is refused.
type Buffer struct {
	buf []byte
	pos int
}

// NewBuffer creates a Buffer writing into buf.
func NewBuffer(buf []byte) *Buffer {
	return &Buffer{buf: buf}
}

func (b *Buffer) Output(p []byte) int {
	n := copy(b.buf[b.pos:], p)
	b.pos += n
	return n
}

// Len returns the number of bytes captured.
func (b *Buffer) Len() int {
	return b.pos
}

// Available returns the remaining capacity.
func (b *Buffer) Available() int {
	return len(b.buf) - b.pos
}

// Bytes returns the captured output.
func (b *Buffer) Bytes() []byte {
	return b.buf[:b.pos]
}

// Reset discards captured output
func (b *Buffer) Reset() {
	b.pos = 0
}
