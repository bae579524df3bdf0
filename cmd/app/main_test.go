package main

import (
	"strings"
	"testing"
)

func TestDescribeCheck(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		want   string
		wantOK bool
	}{
		{"valid", "https://www.youtube.com/watch?v=6CueZ4zujMk", "6CueZ4zujMk", true},
		{"surrounding whitespace", "  https://www.youtube.com/watch?v=6CueZ4zujMk\n", "6CueZ4zujMk", true},
		{"other host", "https://github.com", "not_expected_host: ", false},
		{"empty v", "https://www.youtube.com/watch?v=", "missing_identifier_parameter: ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := describeCheck(tt.url)
			if ok != tt.wantOK {
				t.Fatalf("describeCheck(%q) ok = %v, want %v (%q)", tt.url, ok, tt.wantOK, got)
			}
			if tt.wantOK && got != tt.want {
				t.Errorf("describeCheck(%q) = %q, want %q", tt.url, got, tt.want)
			}
			if !tt.wantOK && !strings.HasPrefix(got, tt.want) {
				t.Errorf("describeCheck(%q) = %q, want prefix %q", tt.url, got, tt.want)
			}
		})
	}
}
