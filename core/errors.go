package core

import "errors"

var (
	// ErrShortWrite is returned by adapters whose underlying writer accepted
	// fewer bytes than offered.
	ErrShortWrite = errors.New("short write")
)
