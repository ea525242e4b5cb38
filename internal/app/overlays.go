package app

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/riordanpawley/modalstack/internal/config"
	"github.com/riordanpawley/modalstack/internal/ui/overlay"
)

// discardDelay simulates the work done by the discard confirm callback
var discardDelay = 400 * time.Millisecond

const aboutText = `modalstack stacks dialogs, drawers and confirms on top of
this screen. The topmost overlay gets all input.

Esc closes it, and so does a click outside it, unless it opts out.`

// OverlayOptions turns the overlay section of cfg into manager options
func OverlayOptions(cfg *config.Config) []overlay.Option {
	d := overlay.DefaultDefaults()
	o := cfg.Overlay
	if o.DismissOnEsc != nil {
		d.DismissOnEsc = *o.DismissOnEsc
	}
	if o.DismissOnOutsideClick != nil {
		d.DismissOnOutsideClick = *o.DismissOnOutsideClick
	}
	if o.ConfirmDismissOnOutsideClick != nil {
		d.ConfirmDismissOnOutsideClick = *o.ConfirmDismissOnOutsideClick
	}
	if o.ConfirmButtonLabel != "" {
		d.ConfirmButtonLabel = o.ConfirmButtonLabel
	}
	if o.CancelButtonLabel != "" {
		d.CancelButtonLabel = o.CancelButtonLabel
	}

	return []overlay.Option{
		overlay.WithDefaults(d),
		overlay.WithKeyMap(overlay.DefaultKeyMap().WithDismissKeys(cfg.Keys.Dismiss...)),
		overlay.WithSkipNonDismissible(o.SkipNonDismissible),
	}
}

func (m *Model) showAbout() {
	h := m.manager.ShowDialog(overlay.Options{
		Title:     "About",
		Body:      aboutText,
		ClassName: "wide",
	})
	m.logger.Debug("dialog shown", "overlay", h.ID())
	m.addEvent("opened the about dialog")
}

func (m *Model) showHelp() {
	m.manager.ShowDialog(overlay.Options{
		Title:          "Keys",
		Body:           m.help.FullHelpView(m.keys.FullHelp()),
		TitleClassName: "accent",
	})
	m.addEvent("opened help")
}

func (m *Model) showNoteDrawer() {
	h := m.manager.ShowDrawer(overlay.Options{
		Render: func(dismiss overlay.DismissFunc) tea.Model {
			return newNoteForm(dismiss)
		},
	})
	m.logger.Debug("drawer shown", "overlay", h.ID())
	m.addEvent("opened the note drawer")
}

func (m *Model) showPinned() {
	m.manager.ShowDialog(overlay.Options{
		Title:                 "Pinned",
		DismissOnEsc:          overlay.Bool(false),
		DismissOnOutsideClick: overlay.Bool(false),
		ClassName:             "danger",
		Render: func(dismiss overlay.DismissFunc) tea.Model {
			return pinnedNotice{dismiss: dismiss}
		},
	})
	m.addEvent("opened a pinned dialog")
}

// confirmDiscard asks before clearing the notes. The notes are only cleared
// once the confirmation settles as confirmed.
func (m *Model) confirmDiscard() tea.Cmd {
	c := m.manager.ShowConfirm(overlay.Options{
		Title:              "Discard notes?",
		Body:               fmt.Sprintf("%d note(s) will be removed.", len(m.notes)),
		ConfirmButtonLabel: "Discard",
		ClassName:          "danger",
		OnConfirm: func(ctx context.Context) error {
			select {
			case <-time.After(discardDelay):
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
	m.pendingDiscard = c.ID()
	m.addEvent("asked to discard notes")
	return c.Await()
}
