package overlay

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConfirmDialog is the content of a confirm overlay: a message with a
// confirm and a cancel button
type ConfirmDialog struct {
	id           string
	title        string
	message      string
	confirmLabel string
	cancelLabel  string
	styles       *Styles
	keys         KeyMap
	help         help.Model
	selected     bool // true = confirm, false = cancel
	busy         bool
}

// NewConfirmDialog creates the content for a confirm record
func NewConfirmDialog(rec Record, keys KeyMap, styles *Styles) *ConfirmDialog {
	h := help.New()
	h.Styles.ShortKey = styles.Footer
	h.Styles.ShortDesc = styles.Footer

	return &ConfirmDialog{
		id:           rec.ID,
		title:        rec.Options.Title,
		message:      rec.Options.Body,
		confirmLabel: rec.Options.ConfirmButtonLabel,
		cancelLabel:  rec.Options.CancelButtonLabel,
		styles:       styles,
		keys:         keys,
		help:         h,
		selected:     false, // Default to cancel
	}
}

// Init initializes the dialog
func (c *ConfirmDialog) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (c *ConfirmDialog) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || c.busy {
		return c, nil
	}

	switch {
	case key.Matches(keyMsg, c.keys.Confirm):
		return c, c.choose(true)
	case key.Matches(keyMsg, c.keys.Cancel):
		return c, c.choose(false)
	case key.Matches(keyMsg, c.keys.Accept):
		return c, c.choose(c.selected)
	case key.Matches(keyMsg, c.keys.Left):
		c.selected = false
	case key.Matches(keyMsg, c.keys.Right):
		c.selected = true
	}
	return c, nil
}

func (c *ConfirmDialog) choose(confirmed bool) tea.Cmd {
	id := c.id
	return func() tea.Msg {
		return ConfirmChoiceMsg{ID: id, Confirmed: confirmed}
	}
}

// SetBusy switches the dialog into its in-flight state, where it ignores
// input
func (c *ConfirmDialog) SetBusy(busy bool) {
	c.busy = busy
}

// Selected reports whether the confirm button is selected
func (c *ConfirmDialog) Selected() bool {
	return c.selected
}

// View renders the dialog
func (c *ConfirmDialog) View() string {
	var b strings.Builder

	if c.message != "" {
		b.WriteString(c.styles.Message.Render(c.message))
		b.WriteString("\n\n")
	}

	if c.busy {
		b.WriteString(c.styles.Busy.Render("Working…"))
		return b.String()
	}

	confirmStyle, cancelStyle := c.styles.Button, c.styles.Button
	if c.selected {
		confirmStyle = c.styles.ButtonActive
	} else {
		cancelStyle = c.styles.ButtonActive
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Top,
		cancelStyle.Render(c.cancelLabel),
		"    ",
		confirmStyle.Render(c.confirmLabel),
	)
	b.WriteString(buttons)
	b.WriteString("\n")
	b.WriteString(c.styles.Footer.Render(c.help.View(c.keys)))

	return b.String()
}

// Title returns the dialog title
func (c *ConfirmDialog) Title() string {
	return c.title
}

// Size returns the dialog dimensions
func (c *ConfirmDialog) Size() (width, height int) {
	messageLines := len(strings.Split(c.message, "\n"))
	return 60, messageLines + 6
}
