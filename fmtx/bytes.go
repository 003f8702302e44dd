package fmtx

import "unsafe"

// bytesOf views s as a byte slice without copying. Sinks only read the
// spans they are given and never retain them.
func bytesOf(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
