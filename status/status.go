// Package status describes result values: a success/failure code, a
// three-character module identifier and a numeric argument.
//
// Statuses travel as a packed 32-bit word:
//
//	bit  31     error flag (0 means Ok and the remaining bits are the argument)
//	bits 30..16 module identifier, three 5-bit characters, first in the low bits
//	bits 15..5  argument (11 bits)
//	bits 4..0   code
package status

// Code is an absl-style status code.
type Code uint8

const (
	Ok Code = iota
	Cancelled
	Unknown
	InvalidArgument
	DeadlineExceeded
	NotFound
	AlreadyExists
	PermissionDenied
	ResourceExhausted
	FailedPrecondition
	Aborted
	OutOfRange
	Unimplemented
	Internal
	Unavailable
	DataLoss
	Unauthenticated
)

var codeNames = [...]string{
	Ok:                 "Ok",
	Cancelled:          "Cancelled",
	Unknown:            "Unknown",
	InvalidArgument:    "InvalidArgument",
	DeadlineExceeded:   "DeadlineExceeded",
	NotFound:           "NotFound",
	AlreadyExists:      "AlreadyExists",
	PermissionDenied:   "PermissionDenied",
	ResourceExhausted:  "ResourceExhausted",
	FailedPrecondition: "FailedPrecondition",
	Aborted:            "Aborted",
	OutOfRange:         "OutOfRange",
	Unimplemented:      "Unimplemented",
	Internal:           "Internal",
	Unavailable:        "Unavailable",
	DataLoss:           "DataLoss",
	Unauthenticated:    "Unauthenticated",
}

// String returns the code name. Codes outside the table read as "Unknown".
func (c Code) String() string {
	if int(c) < len(codeNames) {
		return codeNames[c]
	}
	return codeNames[Unknown]
}

const (
	errorBit    = 1 << 31
	moduleShift = 16
	moduleMask  = 0x7FFF
	argShift    = 5
	argMask     = 0x7FF
	codeMask    = 0x1F
	charMask    = 0x1F
	charBase    = '@'
)

// Status is a decoded status value.
type Status struct {
	Code   Code
	Module [3]byte // only meaningful for errors
	Arg    int32
}

// OK returns a success status carrying arg.
func OK(arg int32) Status {
	return Status{Code: Ok, Arg: arg}
}

// Error returns a failure status. module is truncated or padded to three
// characters; each character keeps only its low five bits when packed.
func Error(code Code, module string, arg int32) Status {
	s := Status{Code: code, Arg: arg}
	for i := range s.Module {
		s.Module[i] = charBase
		if i < len(module) {
			s.Module[i] = module[i]
		}
	}
	return s
}

// IsOk reports whether s is a success value.
func (s Status) IsOk() bool {
	return s.Code == Ok
}

// Name returns the code name.
func (s Status) Name() string {
	return s.Code.String()
}

// Raw packs s into its 32-bit word. Ok arguments are clamped to be
// non-negative; error arguments keep their low 11 bits.
func (s Status) Raw() int32 {
	if s.IsOk() {
		if s.Arg < 0 {
			return 0
		}
		return s.Arg
	}
	var module uint32
	for i, c := range s.Module {
		module |= uint32(c&charMask) << (5 * i)
	}
	word := uint32(errorBit) |
		(module&moduleMask)<<moduleShift |
		(uint32(s.Arg)&argMask)<<argShift |
		uint32(s.Code)&codeMask
	return int32(word)
}

// FromRaw unpacks a 32-bit status word.
func FromRaw(raw int32) Status {
	if raw >= 0 {
		return OK(raw)
	}
	word := uint32(raw)
	s := Status{
		Code: Code(word & codeMask),
		Arg:  int32((word >> argShift) & argMask),
	}
	module := (word >> moduleShift) & moduleMask
	for i := range s.Module {
		s.Module[i] = charBase + byte((module>>(5*i))&charMask)
	}
	return s
}
