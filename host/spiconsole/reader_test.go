package spiconsole

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"runtime"
	"testing"
	"time"

	"fwconsole/console"
	"fwconsole/fmtx"
	"fwconsole/protocol"
)

// drain reads frames until the reader reports no new frame.
func drain(t *testing.T, r *Reader, buf []byte, out *bytes.Buffer) int {
	t.Helper()
	frames := 0
	for {
		_, payload, err := r.Next(buf)
		if errors.Is(err, ErrNoFrame) {
			return frames
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		out.Write(payload)
		frames++
	}
}

func TestReaderPolling(t *testing.T) {
	// Every sink call is its own frame: one line is five frames.
	const capacity = 512
	mem := NewMemory(capacity)
	tr := protocol.NewSPITransport(mem, capacity)
	c := console.New()
	c.UseSPI(tr)

	r := NewReader(mem, capacity)
	buf := make([]byte, capacity)

	var want, got bytes.Buffer
	total := 0
	for cycle := 0; cycle < 12; cycle++ {
		for i := 0; i < 3; i++ {
			line := fmt.Sprintf("c%02d m%d\r\n", cycle, i)
			want.WriteString(line)
			c.Printf("c%02u m%u\r\n", fmtx.Uint(uint32(cycle)), fmtx.Uint(uint32(i)))
		}
		total += drain(t, r, buf, &got)
	}

	if got.String() != want.String() {
		t.Errorf("Expected\n%q\ngot\n%q", want.String(), got.String())
	}
	if total != 180 {
		t.Errorf("Expected 180 frames, got %d", total)
	}
	if r.Cursor() != tr.NextWriteAddress() {
		t.Errorf("Expected reader cursor %d to match write address %d", r.Cursor(), tr.NextWriteAddress())
	}
}

func TestMemoryEdgesBoundedWhenPolling(t *testing.T) {
	const capacity = 256
	mem := NewMemory(capacity)
	tr := protocol.NewSPITransport(mem, capacity)
	r := NewReader(mem, capacity)
	buf := make([]byte, capacity)

	var got bytes.Buffer
	frames := 0
	for i := 0; i < 5000; i++ {
		tr.Output([]byte("tick\r\n"))
		frames += drain(t, r, buf, &got)
	}
	if frames != 5000 {
		t.Errorf("Expected 5000 frames, got %d", frames)
	}

	mem.mu.Lock()
	queued := len(mem.cs)
	mem.mu.Unlock()
	if queued > maxEdges {
		t.Errorf("Expected at most %d queued chip-select edges, got %d", maxEdges, queued)
	}
}

func TestMemoryReadyCycleDropsStaleEdges(t *testing.T) {
	mem := NewMemory(64)
	var b [4]byte
	for i := 0; i < 3; i++ {
		mem.ReadAt(b[:], 0)
	}
	mem.SetPin(9, true)

	if low, _ := mem.ChipSelect(); !low {
		t.Errorf("Expected idle bus after raising the ready pin")
	}
	mem.ReadAt(b[:], 0)
	if low, _ := mem.ChipSelect(); low {
		t.Errorf("Expected chip select low for the new read")
	}
	if high, _ := mem.ChipSelect(); !high {
		t.Errorf("Expected chip select high after the new read")
	}
}

func TestReaderEmptyBuffer(t *testing.T) {
	mem := NewMemory(64)
	r := NewReader(mem, 64)

	if _, _, err := r.Next(make([]byte, 64)); !errors.Is(err, ErrNoFrame) {
		t.Errorf("Expected ErrNoFrame, got %v", err)
	}
}

func TestReaderStaleFrame(t *testing.T) {
	mem := NewMemory(64)
	var frame [protocol.HeaderSize + 4]byte
	protocol.NewHeader(7, 4).MarshalTo(frame[:])
	copy(frame[protocol.HeaderSize:], "late")
	mem.WriteFlashBuffer(0, frame[:])
	mem.WriteFlashBuffer(16, frame[:])

	r := NewReader(mem, 64)
	buf := make([]byte, 64)
	if _, payload, err := r.Next(buf); err != nil || string(payload) != "late" {
		t.Fatalf("Expected first frame, got %q, %v", payload, err)
	}

	// Frame 7 again at the cursor is left over, not new.
	if _, _, err := r.Next(buf); !errors.Is(err, ErrNoFrame) {
		t.Errorf("Expected ErrNoFrame for stale frame, got %v", err)
	}

	r.Resync()
	if _, _, err := r.Next(buf); err != nil {
		t.Errorf("Expected frame after Resync, got %v", err)
	}
}

func TestReaderCorruptLength(t *testing.T) {
	mem := NewMemory(64)
	var header [protocol.HeaderSize]byte
	protocol.NewHeader(0, 60).MarshalTo(header[:])
	mem.WriteFlashBuffer(0, header[:])

	r := NewReader(mem, 64)
	if _, _, err := r.Next(make([]byte, 64)); !errors.Is(err, protocol.ErrFrameTooLarge) {
		t.Errorf("Expected ErrFrameTooLarge, got %v", err)
	}
}

func TestReaderReadyPin(t *testing.T) {
	const capacity = 64
	const readyPin = 22
	mem := NewMemory(capacity)
	tr := protocol.NewSPITransport(mem, capacity)
	tr.SetTxReadyIndicator(mem, readyPin)

	r := NewReader(mem, capacity)
	r.SetReadyPin(mem, readyPin)
	buf := make([]byte, capacity)

	if _, _, err := r.Next(buf); !errors.Is(err, ErrNoFrame) {
		t.Fatalf("Expected ErrNoFrame before any frame, got %v", err)
	}

	for _, msg := range []string{"ping", "pong!"} {
		done := make(chan int)
		go func() {
			done <- tr.SendFrame([]byte(msg))
		}()

		var payload []byte
		var err error
		deadline := time.Now().Add(5 * time.Second)
		for {
			_, payload, err = r.Next(buf)
			if !errors.Is(err, ErrNoFrame) || time.Now().After(deadline) {
				break
			}
			runtime.Gosched()
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		if string(payload) != msg {
			t.Errorf("Expected %q, got %q", msg, payload)
		}

		select {
		case n := <-done:
			if n != len(msg) {
				t.Errorf("Expected %d bytes sent, got %d", len(msg), n)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("Transport never finished the handshake")
		}

		if tr.NextWriteAddress() != 0 {
			t.Errorf("Expected write address 0 after handshake, got %d", tr.NextWriteAddress())
		}
		if high, _ := mem.GetPin(readyPin); high {
			t.Errorf("Expected ready pin low after handshake")
		}

		// Seeing the pin low arms the reader for the next pulse.
		if _, _, err := r.Next(buf); !errors.Is(err, ErrNoFrame) {
			t.Errorf("Expected ErrNoFrame between frames, got %v", err)
		}
	}

	if r.Missed() != 0 {
		t.Errorf("Expected no missed frames, got %d", r.Missed())
	}
}

func TestReaderCopy(t *testing.T) {
	mem := NewMemory(128)
	tr := protocol.NewSPITransport(mem, 128)
	tr.Output([]byte("hello "))
	tr.Output([]byte("world"))

	r := NewReader(mem, 128)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	var out bytes.Buffer
	err := r.Copy(ctx, &out, time.Millisecond)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected context.DeadlineExceeded, got %v", err)
	}
	if out.String() != "hello world" {
		t.Errorf("Expected hello world, got %q", out.String())
	}
}

func TestNewReaderInvalidCapacity(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for invalid capacity")
		}
	}()
	NewReader(NewMemory(30), 30)
}
