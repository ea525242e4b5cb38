package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestNew(t *testing.T) {
	s := New()
	if s == nil {
		t.Fatal("New() returned nil")
	}
}

func TestToastStyles(t *testing.T) {
	s := New()

	tests := []struct {
		name  string
		style lipgloss.Style
		color lipgloss.Color
	}{
		{"info", s.ToastInfo, Blue},
		{"success", s.ToastSuccess, Green},
		{"warning", s.ToastWarning, Yellow},
		{"error", s.ToastError, Red},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.style.GetBorderTopForeground(); got != tt.color {
				t.Errorf("expected border color %v, got %v", tt.color, got)
			}
			if rendered := tt.style.Render("msg"); rendered == "" {
				t.Error("toast style rendered empty string")
			}
		})
	}
}

func TestThemeColors(t *testing.T) {
	colors := []struct {
		name  string
		color string
	}{
		{"Base", string(Base)},
		{"Blue", string(Blue)},
		{"Red", string(Red)},
		{"Green", string(Green)},
		{"Yellow", string(Yellow)},
	}

	for _, c := range colors {
		c := c
		t.Run(c.name, func(t *testing.T) {
			if c.color == "" {
				t.Errorf("%s color is empty", c.name)
			}
			// Catppuccin colors start with #
			if c.color[0] != '#' {
				t.Errorf("%s color doesn't start with #: %s", c.name, c.color)
			}
		})
	}
}
