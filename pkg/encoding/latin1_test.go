package encoding

import "testing"

func TestDecodeTextUTF8Passthrough(t *testing.T) {
	in := "GOCAD TSurf 1\nname: Faïlle_Nord\n"
	got := DecodeText([]byte(in))
	if got != in {
		t.Errorf("valid UTF-8 should pass through unchanged, got %q", got)
	}
}

func TestDecodeTextLatin1(t *testing.T) {
	// "Faïlle" with 0xEF as raw Latin-1, invalid as UTF-8.
	in := []byte{'F', 'a', 0xEF, 'l', 'l', 'e'}
	got := DecodeText(in)
	want := "Faïlle"
	if got != want {
		t.Errorf("DecodeText() = %q, want %q", got, want)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`data\Surfaces\Fault.ts`, "data/Surfaces/Fault.ts"},
		{"data/GRID.so", "data/GRID.so"},
	}
	for _, tc := range tests {
		if got := NormalizePath(tc.in); got != tc.want {
			t.Errorf("NormalizePath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}

	if NormalizePath("data/A.ts") == NormalizePath("data/a.ts") {
		t.Error("paths differing only by case must remain distinct")
	}
}
