package shader

import "testing"

func TestTrimLog(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"nul terminated", []byte("0:12: error\n\x00"), "0:12: error"},
		{"plain", []byte("link error"), "link error"},
		{"only padding", []byte("\x00\n "), ""},
		{"empty", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := trimLog(tt.in); got != tt.want {
				t.Errorf("trimLog(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
