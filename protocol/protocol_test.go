package protocol

import (
	"bytes"
	"errors"
	"testing"
)

func TestHeaderEncoding(t *testing.T) {
	var buf [HeaderSize]byte
	NewHeader(1, 5).MarshalTo(buf[:])

	want := []byte{0xEF, 0xBE, 0xA5, 0xA5, 0x01, 0x00, 0x00, 0x00, 0x05, 0x00, 0x00, 0x00}
	if !bytes.Equal(buf[:], want) {
		t.Errorf("Expected % x, got % x", want, buf)
	}

	h, err := ParseHeader(buf[:])
	if err != nil {
		t.Fatalf("ParseHeader failed: %v", err)
	}
	if h != NewHeader(1, 5) {
		t.Errorf("Expected %+v, got %+v", NewHeader(1, 5), h)
	}
}

func TestParseHeaderErrors(t *testing.T) {
	if _, err := ParseHeader(make([]byte, 11)); !errors.Is(err, ErrShortHeader) {
		t.Errorf("Expected ErrShortHeader, got %v", err)
	}
	if _, err := ParseHeader(make([]byte, 12)); !errors.Is(err, ErrBadMagic) {
		t.Errorf("Expected ErrBadMagic for zeroed header, got %v", err)
	}
	erased := bytes.Repeat([]byte{0xFF}, HeaderSize)
	if _, err := ParseHeader(erased); !errors.Is(err, ErrBadMagic) {
		t.Errorf("Expected ErrBadMagic for erased header, got %v", err)
	}
}

func TestFrameArithmetic(t *testing.T) {
	testCases := []struct {
		length  uint32
		aligned uint32
	}{
		{0, 0}, {1, 4}, {3, 4}, {4, 4}, {5, 8}, {2020, 2020}, {2021, 2024},
	}
	for _, tc := range testCases {
		if got := AlignedLength(tc.length); got != tc.aligned {
			t.Errorf("AlignedLength(%d) = %d, expected %d", tc.length, got, tc.aligned)
		}
		if got := FrameSize(tc.length); got != HeaderSize+tc.aligned {
			t.Errorf("FrameSize(%d) = %d, expected %d", tc.length, got, HeaderSize+tc.aligned)
		}
	}

	if got := MaxPayload(DefaultBufferSize); got != 2020 {
		t.Errorf("Expected max payload 2020, got %d", got)
	}
}

func TestValidCapacity(t *testing.T) {
	testCases := []struct {
		capacity uint32
		valid    bool
	}{
		{2048, true}, {64, true}, {32, true}, {28, false}, {66, false}, {0, false},
	}
	for _, tc := range testCases {
		if got := ValidCapacity(tc.capacity); got != tc.valid {
			t.Errorf("ValidCapacity(%d) = %v, expected %v", tc.capacity, got, tc.valid)
		}
	}
}
