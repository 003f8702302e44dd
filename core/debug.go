package core

import "unsafe"

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false
)

// SetDebugWriter sets the platform-specific debug output function.
// The writer must not print through a console whose transport reports
// through DebugPrintln, or the report recurses. It must not keep the
// string after returning: DebugPrintBytes hands it a view of the caller's
// buffer.
func SetDebugWriter(writer DebugWriter) {
	if writer == nil {
		writer = func(s string) {}
	}
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// DebugPrintBytes writes msg without converting it to a new string.
func DebugPrintBytes(msg []byte) {
	if debugEnabled && debugPrintln != nil && len(msg) > 0 {
		debugPrintln(unsafe.String(&msg[0], len(msg)))
	}
}
