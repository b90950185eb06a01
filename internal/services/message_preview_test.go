package services

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncatePreview(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"short text untouched", "hello", "hello"},
		{"long ascii cut to limit", strings.Repeat("a", 300), strings.Repeat("a", previewMaxLen)},
		{"multi-byte runes not split", strings.Repeat("é", 300), strings.Repeat("é", previewMaxLen)},
		{"emoji not split", strings.Repeat("🙂", 300), strings.Repeat("🙂", previewMaxLen)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncatePreview(tt.text)
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Fatalf("preview is not valid UTF-8: %q", got)
			}
		})
	}
}
