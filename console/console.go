// Package console holds the current output: the sink that print calls
// without an explicit destination write to.
//
// A Console is owned by one execution context. Installing an output while
// another context prints through the same Console is a programming error;
// nothing here locks.
package console

import (
	"io"

	"fwconsole/core"
	"fwconsole/fmtx"
	"fwconsole/protocol"
	"fwconsole/sink"
)

// Console routes formatted output to its installed sink.
// The zero value discards everything.
type Console struct {
	out sink.Sink
}

// New returns a console writing to sink.Discard.
func New() *Console {
	return &Console{out: sink.Discard}
}

// SetOutput installs s. A nil s installs sink.Discard.
func (c *Console) SetOutput(s sink.Sink) {
	c.out = sink.OrDiscard(s)
}

// Output returns the installed sink.
func (c *Console) Output() sink.Sink {
	return sink.OrDiscard(c.out)
}

// UseUART sends output byte by byte through d.
func (c *Console) UseUART(d core.UARTDriver) {
	c.SetOutput(sink.UART{Driver: d})
}

// UseSPI frames output into the SPI device read buffer. Frame numbering
// restarts at 0 so the host can resynchronize.
func (c *Console) UseSPI(t *protocol.SPITransport) {
	t.ResetFrameNumber()
	c.SetOutput(t)
}

// UseBuffer captures output into buf and returns the capture so the
// caller can inspect it.
func (c *Console) UseBuffer(buf []byte) *sink.Buffer {
	b := sink.NewBuffer(buf)
	c.SetOutput(b)
	return b
}

// Printf formats to the installed sink and returns the bytes it accepted.
func (c *Console) Printf(format string, args ...fmtx.Arg) int {
	return fmtx.Fprintf(c.Output(), format, args...)
}

// Hexdump dumps data in fmtx.DefaultHexdumpFormat.
func (c *Console) Hexdump(data []byte) int {
	return fmtx.Fhexdump(c.Output(), data)
}

// HexdumpWith dumps data in format f.
func (c *Console) HexdumpWith(f fmtx.HexdumpFormat, data []byte) int {
	return fmtx.FhexdumpWith(c.Output(), f, data)
}

// Write implements io.Writer so the console can back a log.Logger or
// fmt.Fprintf on hosted builds.
func (c *Console) Write(p []byte) (int, error) {
	n := c.Output().Output(p)
	if n < len(p) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

var std = New()

// Default returns the process-wide console.
func Default() *Console { return std }

// SetOutput installs s on the default console.
func SetOutput(s sink.Sink) { std.SetOutput(s) }

// Printf formats to the default console.
func Printf(format string, args ...fmtx.Arg) int {
	return std.Printf(format, args...)
}

// Hexdump dumps data to the default console.
func Hexdump(data []byte) int {
	return std.Hexdump(data)
}

// HexdumpWith dumps data to the default console in format f.
func HexdumpWith(f fmtx.HexdumpFormat, data []byte) int {
	return std.HexdumpWith(f, data)
}
