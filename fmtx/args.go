package fmtx

import "fwconsole/status"

// Kind identifies the payload carried by an Arg.
type Kind uint8

const (
	KindNone Kind = iota
	KindChar
	KindInt
	KindUint
	KindPtr
	KindStr
	KindBytes
	KindBool
	KindStatus
)

// Arg is one typed formatting argument. Build it with Char, Int, Uint,
// Ptr, Str, Bytes, Bool or Stat.
type Arg struct {
	kind Kind
	word uint32
	ptr  uintptr
	str  string
	buf  []byte
	stat status.Status
}

// Kind returns the payload kind.
func (a Arg) Kind() Kind { return a.kind }

func Char(c byte) Arg { return Arg{kind: KindChar, word: uint32(c)} }

func Int(v int32) Arg { return Arg{kind: KindInt, word: uint32(v)} }

func Uint(v uint32) Arg { return Arg{kind: KindUint, word: v} }

func Ptr(p uintptr) Arg { return Arg{kind: KindPtr, word: uint32(p), ptr: p} }

// Str carries a string. %s stops at its first NUL byte, %!s does not.
func Str(s string) Arg { return Arg{kind: KindStr, str: s} }

// Bytes carries a byte span for %!s, %!x, %!X, %!y and %!Y.
func Bytes(b []byte) Arg { return Arg{kind: KindBytes, buf: b} }

func Bool(b bool) Arg {
	a := Arg{kind: KindBool}
	if b {
		a.word = 1
	}
	return a
}

func Stat(s status.Status) Arg { return Arg{kind: KindStatus, stat: s} }

// asWord returns the argument as a 32-bit word. Character, integer,
// pointer and boolean arguments are interchangeable.
func (a Arg) asWord() (uint32, bool) {
	switch a.kind {
	case KindChar, KindInt, KindUint, KindPtr, KindBool:
		return a.word, true
	}
	return 0, false
}

func (a Arg) asPointer() (uintptr, bool) {
	if a.kind == KindPtr {
		return a.ptr, true
	}
	w, ok := a.asWord()
	return uintptr(w), ok
}

func (a Arg) asSpan() ([]byte, bool) {
	switch a.kind {
	case KindStr:
		return bytesOf(a.str), true
	case KindBytes:
		return a.buf, true
	}
	return nil, false
}

// asStatus accepts a Status or a packed status word.
func (a Arg) asStatus() (status.Status, bool) {
	if a.kind == KindStatus {
		return a.stat, true
	}
	if w, ok := a.asWord(); ok {
		return status.FromRaw(int32(w)), true
	}
	return status.Status{}, false
}
