package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/modalstack/internal/ui/overlay"
	"github.com/riordanpawley/modalstack/internal/ui/styles"
)

// noteSavedMsg is emitted by the note drawer when a note is submitted
type noteSavedMsg struct {
	text string
}

var (
	saveKey  = key.NewBinding(key.WithKeys("enter"))
	clearKey = key.NewBinding(key.WithKeys("esc"))
)

// noteForm is the content of the note drawer. While the draft is not empty
// the first Escape clears it instead of closing the drawer.
type noteForm struct {
	input   textinput.Model
	dismiss overlay.DismissFunc
	hint    lipgloss.Style
}

func newNoteForm(dismiss overlay.DismissFunc) *noteForm {
	ti := textinput.New()
	ti.Placeholder = "Write a note"
	ti.CharLimit = 120
	ti.Width = 32
	ti.Focus()

	return &noteForm{
		input:   ti,
		dismiss: dismiss,
		hint:    lipgloss.NewStyle().Foreground(styles.Overlay1),
	}
}

func (f *noteForm) Init() tea.Cmd {
	return textinput.Blink
}

func (f *noteForm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, saveKey):
			text := strings.TrimSpace(f.input.Value())
			if text == "" {
				return f, nil
			}
			f.input.Reset()
			saved := func() tea.Msg { return noteSavedMsg{text: text} }
			return f, tea.Batch(saved, f.dismiss())
		case key.Matches(keyMsg, clearKey):
			f.input.Reset()
			return f, nil
		}
	}

	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return f, cmd
}

func (f *noteForm) View() string {
	return f.input.View() + "\n\n" + f.hint.Render("enter: save  esc: clear/close")
}

// EditingText keeps the dismiss key in the form while there is a draft
func (f *noteForm) EditingText() bool {
	return f.input.Focused() && f.input.Value() != ""
}

func (f *noteForm) Title() string {
	return "New note"
}

func (f *noteForm) Size() (width, height int) {
	return 40, 0
}

// pinnedNotice ignores every ambient trigger and closes itself on x
type pinnedNotice struct {
	dismiss overlay.DismissFunc
}

var closePinnedKey = key.NewBinding(key.WithKeys("x"))

func (p pinnedNotice) Init() tea.Cmd {
	return nil
}

func (p pinnedNotice) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, closePinnedKey) {
		return p, p.dismiss()
	}
	return p, nil
}

func (p pinnedNotice) View() string {
	return "Escape and outside clicks are ignored here.\nPress x to close."
}
