package fmtx

import (
	"fwconsole/sink"
	"fwconsole/status"
)

// WriteStatus renders s.
//
// Plain form:      Ok:5   InvalidArgument:["PRT",5]
// Structured form: {"Ok":5}   {"InvalidArgument":["PRT",5]}
//
// Module identifiers appear only for failures. A backslash in the module
// is escaped.
func WriteStatus(out sink.Sink, s status.Status, structured bool) int {
	out = sink.OrDiscard(out)
	n := 0

	if structured {
		n += out.Output(bytesOf(`{"`))
	}
	n += out.Output(bytesOf(s.Name()))
	if structured {
		n += out.Output(bytesOf(`"`))
	}
	n += out.Output(bytesOf(":"))

	if !s.IsOk() {
		n += out.Output(bytesOf(`["`))
		mod := s.Module
		for i := range mod {
			if mod[i] == '\\' {
				n += out.Output(bytesOf(`\\`))
			} else {
				n += out.Output(mod[i : i+1])
			}
		}
		n += out.Output(bytesOf(`",`))
		n += writeSigned(out, s.Arg)
		n += out.Output(bytesOf("]"))
	} else {
		n += writeSigned(out, s.Arg)
	}

	if structured {
		n += out.Output(bytesOf("}"))
	}
	return n
}

func writeSigned(out sink.Sink, v int32) int {
	n := 0
	u := uint32(v)
	if v < 0 {
		n += out.Output(bytesOf("-"))
		u = -u
	}
	return n + WriteDigits(out, u, 0, PadNone, 10, DigitsLow)
}
