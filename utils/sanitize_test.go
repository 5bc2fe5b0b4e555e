package utils_test

import (
	"testing"

	"github.com/leoverde/pulse/utils"
)

func TestSanitizeContent(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text untouched", "hello world", "hello world"},
		{"script stripped", `<script>alert("x")</script>hi`, "hi"},
		{"tags stripped keeps text", "<b>bold</b> move", "bold move"},
		{"img stripped", `<img src="x" onerror="evil()">text`, "text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := utils.SanitizeContent(tt.input); got != tt.want {
				t.Errorf("SanitizeContent(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
