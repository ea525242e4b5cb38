package styles

import "github.com/charmbracelet/lipgloss"

// Styles holds the styles of the host screen. Overlay surfaces have their
// own styles in the overlay package.
type Styles struct {
	// Screen
	Header    lipgloss.Style
	Event     lipgloss.Style
	EventTime lipgloss.Style
	Muted     lipgloss.Style

	// Status bar
	StatusBar  lipgloss.Style
	StatusMode lipgloss.Style
	StatusHint lipgloss.Style
	StatusInfo lipgloss.Style

	// Toasts
	ToastInfo    lipgloss.Style
	ToastSuccess lipgloss.Style
	ToastWarning lipgloss.Style
	ToastError   lipgloss.Style
}

// New creates a new Styles instance with Catppuccin Macchiato theme
func New() *Styles {
	return &Styles{
		Header: lipgloss.NewStyle().
			Foreground(Mauve).
			Bold(true).
			Padding(0, 1).
			MarginBottom(1),

		Event: lipgloss.NewStyle().
			Foreground(Text).
			PaddingLeft(1),

		EventTime: lipgloss.NewStyle().
			Foreground(Overlay1),

		Muted: lipgloss.NewStyle().
			Foreground(Overlay0).
			PaddingLeft(1),

		StatusBar: lipgloss.NewStyle().
			Background(Surface0).
			Foreground(Subtext0).
			Padding(0, 1),

		StatusMode: lipgloss.NewStyle().
			Background(Blue).
			Foreground(Base).
			Bold(true).
			Padding(0, 1),

		StatusHint: lipgloss.NewStyle().
			Foreground(Overlay1),

		StatusInfo: lipgloss.NewStyle().
			Foreground(Subtext0),

		ToastInfo:    toast(ToastColors["info"]),
		ToastSuccess: toast(ToastColors["success"]),
		ToastWarning: toast(ToastColors["warning"]),
		ToastError:   toast(ToastColors["error"]),
	}
}

func toast(color lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Foreground(color).
		Padding(0, 1)
}
