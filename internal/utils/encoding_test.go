package utils

import "testing"

func TestEncodeBase64(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{name: "empty", input: nil, expected: ""},
		{name: "ascii", input: []byte("hello"), expected: "aGVsbG8="},
		{name: "binary", input: []byte{0x00, 0xff, 0x10}, expected: "AP8Q"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EncodeBase64(tt.input); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}
