package overlay

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/modalstack/internal/types"
	"github.com/riordanpawley/modalstack/internal/ui/styles"
)

// Styles holds all overlay-specific styles
type Styles struct {
	// Overlay is the dialog container style
	Overlay lipgloss.Style
	// Drawer is the docked drawer container style
	Drawer lipgloss.Style
	// Confirm is the confirm container style
	Confirm lipgloss.Style
	// Title is the overlay title style
	Title lipgloss.Style
	// Message is the body text style
	Message lipgloss.Style
	// Button is an unselected button
	Button lipgloss.Style
	// ButtonActive is the selected button
	ButtonActive lipgloss.Style
	// Busy is shown while a confirm callback runs
	Busy lipgloss.Style
	// Footer is the style for overlay footer text
	Footer lipgloss.Style

	// Classes maps the opaque class names of Options to styles. A class
	// style overrides the container, content or title style it is applied to.
	Classes map[string]lipgloss.Style
}

// DefaultStyles creates overlay styles using the Catppuccin Macchiato theme
func DefaultStyles() *Styles {
	return &Styles{
		Overlay: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(styles.Surface2).
			Background(styles.Base).
			Padding(1, 2),

		Drawer: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderTop(false).
			BorderRight(false).
			BorderBottom(false).
			BorderForeground(styles.Surface2).
			Background(styles.Mantle).
			Padding(0, 2),

		Confirm: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(styles.Peach).
			Background(styles.Base).
			Padding(1, 2),

		Title: lipgloss.NewStyle().
			Foreground(styles.Text).
			Bold(true).
			MarginBottom(1),

		Message: lipgloss.NewStyle().
			Foreground(styles.Text),

		Button: lipgloss.NewStyle().
			Foreground(styles.Subtext0).
			Padding(0, 1),

		ButtonActive: lipgloss.NewStyle().
			Foreground(styles.Base).
			Background(styles.Blue).
			Bold(true).
			Padding(0, 1),

		Busy: lipgloss.NewStyle().
			Foreground(styles.Yellow).
			Italic(true),

		Footer: lipgloss.NewStyle().
			Foreground(styles.Subtext0).
			MarginTop(1),

		Classes: map[string]lipgloss.Style{
			"danger": lipgloss.NewStyle().BorderForeground(styles.Red),
			"muted":  lipgloss.NewStyle().Foreground(styles.Overlay1),
			"wide":   lipgloss.NewStyle().Padding(1, 4),
			"accent": lipgloss.NewStyle().Foreground(styles.Mauve).Bold(true),
		},
	}
}

// class applies the named class on top of base. Unknown or empty names
// return base unchanged.
func (s *Styles) class(name string, base lipgloss.Style) lipgloss.Style {
	if name == "" {
		return base
	}
	cls, ok := s.Classes[name]
	if !ok {
		return base
	}

	// Inherit skips padding and margins, so carry them over unless the
	// class sets its own.
	out := cls.Inherit(base)
	if t, r, b, l := cls.GetPadding(); t+r+b+l == 0 {
		out = out.Padding(base.GetPadding())
	}
	if t, r, b, l := cls.GetMargin(); t+r+b+l == 0 {
		out = out.Margin(base.GetMargin())
	}
	return out
}

// container returns the container style for a kind
func (s *Styles) container(kind types.Kind) lipgloss.Style {
	switch kind {
	case types.KindDrawer:
		return s.Drawer
	case types.KindConfirm:
		return s.Confirm
	default:
		return s.Overlay
	}
}
