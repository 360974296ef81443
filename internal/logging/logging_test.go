package logging

import (
	"log/slog"
	"testing"
)

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"text":     FormatText,
		"TEXT":     FormatText,
		"json":     FormatJSON,
		"auto":     FormatAuto,
		"":         FormatAuto,
		"nonsense": FormatAuto,
	}
	for in, want := range cases {
		if got := ParseFormat(in); got != want {
			t.Fatalf("ParseFormat(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	if got := ParseLevel("debug"); got != slog.LevelDebug {
		t.Fatalf("ParseLevel(debug) = %v", got)
	}
	if got := ParseLevel("WARN"); got != slog.LevelWarn {
		t.Fatalf("ParseLevel(WARN) = %v", got)
	}
	if got := ParseLevel(""); got != slog.LevelInfo {
		t.Fatalf("empty level should default to info, got %v", got)
	}
	if got := ParseLevel("bogus"); got != slog.LevelInfo {
		t.Fatalf("unknown level should default to info, got %v", got)
	}
}
