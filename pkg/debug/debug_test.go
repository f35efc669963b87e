package debug

import (
	"io"
	"log/slog"
	"testing"
)

func TestParseCategories(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string]bool
	}{
		{"empty", "", map[string]bool{}},
		{"single", "requests", map[string]bool{"requests": true}},
		{"multiple", "requests,streaming", map[string]bool{"requests": true, "streaming": true}},
		{"all", "all", map[string]bool{"all": true}},
		{"with spaces", " requests , streaming ", map[string]bool{"requests": true, "streaming": true}},
		{"uppercase normalized", "REQUESTS,Streaming", map[string]bool{"requests": true, "streaming": true}},
		{"empty segments", "requests,,streaming", map[string]bool{"requests": true, "streaming": true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseCategories(tt.input)
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("got[%q] = %v, want %v", k, got[k], v)
				}
			}
			if len(got) != len(tt.want) {
				t.Errorf("len(got) = %d, want %d", len(got), len(tt.want))
			}
		})
	}
}

func TestEnabled(t *testing.T) {
	// Save and restore.
	orig := categories
	defer func() { categories = orig }()

	categories = parseCategories("requests")

	if !Enabled("requests") {
		t.Error("requests should be enabled")
	}
	if Enabled("streaming") {
		t.Error("streaming should not be enabled")
	}

	categories = parseCategories("all")
	if !Enabled("streaming") {
		t.Error("all should enable every category")
	}
}

func TestTraceIsEnabled(t *testing.T) {
	origCats := categories
	origLogger := slog.Default()
	defer func() {
		categories = origCats
		slog.SetDefault(origLogger)
	}()

	categories = parseCategories("streaming")

	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: LevelTrace,
	})))
	if !TraceIsEnabled("streaming") {
		t.Error("streaming should be trace-enabled at TRACE level")
	}
	if TraceIsEnabled("requests") {
		t.Error("requests is not an enabled category")
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))
	if TraceIsEnabled("streaming") {
		t.Error("streaming should not be trace-enabled at INFO level")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"TRACE", LevelTrace},
		{"trace", LevelTrace},
		{"DEBUG", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{" info ", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello", 10); got != "hello" {
		t.Errorf("Truncate(hello, 10) = %q", got)
	}
	if got := Truncate("hello world", 5); got != "hello..." {
		t.Errorf("Truncate(hello world, 5) = %q", got)
	}
}
