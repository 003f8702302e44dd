package core

import (
	"strings"
	"testing"
)

func TestDebugPrintlnGated(t *testing.T) {
	var got []string
	SetDebugWriter(func(s string) { got = append(got, s) })
	defer SetDebugWriter(nil)
	defer SetDebugEnabled(false)

	SetDebugEnabled(false)
	DebugPrintln("hidden")
	if len(got) != 0 {
		t.Errorf("Expected no output while disabled, got %v", got)
	}

	SetDebugEnabled(true)
	if !IsDebugEnabled() {
		t.Error("Expected debug to be enabled")
	}
	DebugPrintln("shown")
	if len(got) != 1 || got[0] != "shown" {
		t.Errorf("Expected [shown], got %v", got)
	}
}

func TestSetDebugWriterNil(t *testing.T) {
	SetDebugEnabled(true)
	defer SetDebugEnabled(false)
	SetDebugWriter(nil)
	// Must not panic.
	DebugPrintln("dropped")
}

type fakeDriversUART struct {
	written []byte
	limit   int
}

func (f *fakeDriversUART) Read(p []byte) (int, error) { return 0, nil }
func (f *fakeDriversUART) Buffered() int              { return 0 }
func (f *fakeDriversUART) Write(p []byte) (int, error) {
	if f.limit >= 0 && len(f.written) >= f.limit {
		return 0, nil
	}
	f.written = append(f.written, p...)
	return len(p), nil
}

func TestDriversUART(t *testing.T) {
	fake := &fakeDriversUART{limit: 2}
	u := NewDriversUART(fake)

	if err := u.SendByte('a'); err != nil {
		t.Fatalf("SendByte failed: %v", err)
	}
	if err := u.SendByte('b'); err != nil {
		t.Fatalf("SendByte failed: %v", err)
	}
	if err := u.SendByte('c'); err != ErrShortWrite {
		t.Errorf("Expected ErrShortWrite, got %v", err)
	}
	if string(fake.written) != "ab" {
		t.Errorf("Expected \"ab\", got %q", fake.written)
	}
}

func TestDebugPrintBytes(t *testing.T) {
	var got []string
	SetDebugWriter(func(s string) { got = append(got, strings.Clone(s)) })
	defer SetDebugWriter(nil)
	defer SetDebugEnabled(false)

	msg := []byte("bus fault")
	DebugPrintBytes(msg)
	if len(got) != 0 {
		t.Errorf("Expected no output while disabled, got %v", got)
	}

	SetDebugEnabled(true)
	DebugPrintBytes(nil)
	DebugPrintBytes(msg)
	if len(got) != 1 || got[0] != "bus fault" {
		t.Errorf("Expected [bus fault], got %v", got)
	}
}
