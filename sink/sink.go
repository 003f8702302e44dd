// Package sink defines the byte sink every console component writes
// through, plus the trivial transports (discard, UART, capture buffer).
//
// Sinks are not safe for concurrent use. A console and everything it
// writes to is owned by a single execution context.
package sink

import "io"

// Sink consumes a byte span and reports how many bytes it accepted.
//
// Output may accept fewer bytes than offered. It must not block forever on
// its own account; any spin-wait belongs to the transport behind it.
type Sink interface {
	Output(p []byte) int
}

// Func adapts an ordinary function to Sink.
type Func func(p []byte) int

func (f Func) Output(p []byte) int {
	return f(p)
}

// Discard accepts and drops everything.
var Discard Sink = discard{}

type discard struct{}

func (discard) Output(p []byte) int { return len(p) }

// OrDiscard returns s, or Discard if s is nil.
func OrDiscard(s Sink) Sink {
	if s == nil {
		return Discard
	}
	return s
}

// Writer adapts an io.Writer. Errors collapse into a short count.
type Writer struct {
	W io.Writer
}

func (w Writer) Output(p []byte) int {
	n, _ := w.W.Write(p)
	return n
}
