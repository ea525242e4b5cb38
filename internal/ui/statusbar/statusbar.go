package statusbar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/modalstack/internal/types"
	"github.com/riordanpawley/modalstack/internal/ui/styles"
)

// StatusBar represents the status bar at the bottom of the TUI
type StatusBar struct {
	depth  int
	top    types.Kind
	width  int
	styles *styles.Styles
}

// New creates a StatusBar for an overlay stack of the given depth whose
// topmost overlay is of kind top. top is ignored when depth is zero.
func New(depth int, top types.Kind, width int, styles *styles.Styles) StatusBar {
	return StatusBar{
		depth:  depth,
		top:    top,
		width:  width,
		styles: styles,
	}
}

// Badge returns the unstyled text of the mode badge
func (sb StatusBar) Badge() string {
	if sb.depth == 0 {
		return "HOST"
	}
	badge := strings.ToUpper(sb.top.String())
	if sb.depth > 1 {
		badge = fmt.Sprintf("%s ×%d", badge, sb.depth)
	}
	return badge
}

// Render renders the status bar as a string
func (sb StatusBar) Render() string {
	modeBadge := sb.styles.StatusMode.Render(" " + sb.Badge() + " ")

	hints := GetHints(sb.depth, sb.top)
	hintsRendered := sb.styles.StatusHint.Render(hints)

	var content string
	if hints != "" {
		separator := sb.styles.StatusHint.Render(" │ ")
		content = lipgloss.JoinHorizontal(lipgloss.Left, modeBadge, separator, hintsRendered)
	} else {
		content = modeBadge
	}

	return sb.styles.StatusBar.Width(sb.width).Render(content)
}
