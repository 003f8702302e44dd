package fmtx

import (
	"strings"
	"testing"

	"fwconsole/sink"
)

func hexdump(f HexdumpFormat, data []byte) (string, int) {
	buf := sink.NewBuffer(make([]byte, 4096))
	n := FhexdumpWith(buf, f, data)
	return string(buf.Bytes()), n
}

func TestHexdumpSingleLine(t *testing.T) {
	f := HexdumpFormat{BytesPerWord: 1, WordsPerLine: 2, Alphabet: &ASCIIAlphabet}
	got, n := hexdump(f, []byte{0x41, 0x42})
	want := "00000000: 41 42  AB\n"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
	if n != len(want) {
		t.Errorf("Expected count %d, got %d", len(want), n)
	}
}

func TestHexdumpDefaultFormat(t *testing.T) {
	data := []byte("0123456789abcdefXY")
	buf := sink.NewBuffer(make([]byte, 4096))
	Fhexdump(buf, data)
	got := string(buf.Bytes())

	want := "00000000: 3031 3233 3435 3637 3839 6162 6364 6566  0123456789abcdef\n" +
		"00000010: 5859 " + strings.Repeat(" ", 34) + "  XY\n"
	if got != want {
		t.Errorf("Expected\n%q\ngot\n%q", want, got)
	}
}

func TestHexdumpGutterAligned(t *testing.T) {
	formats := []HexdumpFormat{
		{BytesPerWord: 1, WordsPerLine: 4},
		{BytesPerWord: 2, WordsPerLine: 8},
		{BytesPerWord: 4, WordsPerLine: 4},
		{BytesPerWord: 3, WordsPerLine: 5},
	}
	for _, f := range formats {
		perLine := f.BytesPerWord * f.WordsPerLine
		for extra := 1; extra < perLine; extra++ {
			data := make([]byte, perLine+extra)
			got, _ := hexdump(f, data)
			lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
			if len(lines) != 2 {
				t.Fatalf("format %+v: expected 2 lines, got %d", f, len(lines))
			}
			full := len(lines[0]) - perLine
			short := len(lines[1]) - extra
			if full != short {
				t.Errorf("format %+v extra %d: gutter at %d, expected %d", f, extra, short, full)
			}
		}
	}
}

func TestHexdumpPartialLastWord(t *testing.T) {
	tests := []struct {
		name string
		f    HexdumpFormat
		data string
		want string
	}{
		{"ends in last word slot", HexdumpFormat{BytesPerWord: 1, WordsPerLine: 2}, "ABC",
			"00000000: 41 42  AB\n00000002: 43     C\n"},
		{"ends inside a word", HexdumpFormat{BytesPerWord: 2, WordsPerLine: 2}, "ABC",
			"00000000: 4142 43    ABC\n"},
		{"ends on word boundary", HexdumpFormat{BytesPerWord: 2, WordsPerLine: 2}, "AB",
			"00000000: 4142       AB\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, n := hexdump(tt.f, []byte(tt.data))
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
			if n != len(tt.want) {
				t.Errorf("Expected count %d, got %d", len(tt.want), n)
			}
		})
	}
}

func TestHexdumpAlphabet(t *testing.T) {
	var hashes [256]byte
	for i := range hashes {
		hashes[i] = '#'
	}
	f := HexdumpFormat{BytesPerWord: 4, WordsPerLine: 1, Alphabet: &hashes}
	got, _ := hexdump(f, []byte("abcd"))
	if want := "00000000: 61626364  ####\n"; got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}

	f.Alphabet = nil
	got, _ = hexdump(f, []byte{0x00, 0x7F, 0x80, 'z'})
	if want := "00000000: 007f807a  ...z\n"; got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestHexdumpLongGutter(t *testing.T) {
	// More than 16 glyphs per line flushes the glyph buffer mid-line.
	f := HexdumpFormat{BytesPerWord: 1, WordsPerLine: 20}
	data := []byte("ABCDEFGHIJKLMNOPQRST")
	got, _ := hexdump(f, data)
	if !strings.HasSuffix(got, "  ABCDEFGHIJKLMNOPQRST\n") {
		t.Errorf("Unexpected gutter in %q", got)
	}
}

func TestHexdumpEmptyAndInvalid(t *testing.T) {
	if got, n := hexdump(DefaultHexdumpFormat, nil); got != "" || n != 0 {
		t.Errorf("Expected no output for empty input, got %q", got)
	}
	if got, n := hexdump(HexdumpFormat{}, []byte{1}); got != "" || n != 0 {
		t.Errorf("Expected no output for zero format, got %q", got)
	}
}

func TestSnhexdumpTruncates(t *testing.T) {
	full, _ := hexdump(DefaultHexdumpFormat, []byte("0123456789abcdefXY"))

	buf := make([]byte, 10)
	n := Snhexdump(buf, []byte("0123456789abcdefXY"))
	if n != len(full) {
		t.Errorf("Expected untruncated count %d, got %d", len(full), n)
	}
	if string(buf) != full[:10] {
		t.Errorf("Expected %q, got %q", full[:10], buf)
	}
}
