package render

import (
	"strings"
	"testing"
)

func TestProgressBarPlain(t *testing.T) {
	theme := New(true)

	tests := []struct {
		name       string
		bar        ProgressBar
		wantFilled int
		wantEmpty  int
		wantSuffix string
	}{
		{"half", ProgressBar{Percent: 50, Width: 26}, 10, 10, "   50%"},
		{"empty", ProgressBar{Percent: 0, Width: 16}, 0, 10, "    0%"},
		{"full", ProgressBar{Percent: 100, Width: 16}, 10, 0, "  100%"},
		{"over", ProgressBar{Percent: 150, Width: 16}, 10, 0, "  150%"},
		{"narrow", ProgressBar{Percent: 100, Width: 1}, 4, 0, "  100%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.bar.View(theme)
			if n := strings.Count(got, "#"); n != tt.wantFilled {
				t.Errorf("filled = %d, want %d (%q)", n, tt.wantFilled, got)
			}
			if n := strings.Count(got, "."); n != tt.wantEmpty {
				t.Errorf("empty = %d, want %d (%q)", n, tt.wantEmpty, got)
			}
			if !strings.HasSuffix(got, tt.wantSuffix) {
				t.Errorf("got %q, want suffix %q", got, tt.wantSuffix)
			}
		})
	}
}

func TestProgressBarLabel(t *testing.T) {
	got := ProgressBar{Label: "math", Percent: 25, Width: 30}.View(New(true))
	if !strings.HasPrefix(got, "math  ") {
		t.Errorf("got %q, want label prefix", got)
	}
	// 30 - len("math  ") - 6 = 18 cells, a quarter filled.
	if n := strings.Count(got, "#"); n != 4 {
		t.Errorf("filled = %d, want 4", n)
	}
}

func TestForNonTerminalIsPlain(t *testing.T) {
	var sb strings.Builder
	if !For(&sb).Plain {
		t.Error("expected plain theme for a non-file writer")
	}
}
