package overlay

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/riordanpawley/modalstack/internal/types"
)

// TextEditor is implemented by content that can hold text focus. While it
// reports true the dismiss key is left to the content.
type TextEditor interface {
	EditingText() bool
}

type dismisser interface {
	Dismiss(id string, reason types.Reason) tea.Cmd
}

// Binder turns ambient input (the dismiss key, pointer presses) into
// dismissal requests. One binder serves every overlay of a manager; it reads
// the registry and only ever asks a controller to dismiss.
type Binder struct {
	reg     *Registry
	regions *Regions
	target  dismisser
	keys    KeyMap
	logger  *slog.Logger

	// skipNonDismissible lets a trigger pass through a topmost overlay that
	// does not accept it. Off by default: the topmost overlay shields the
	// ones below it.
	skipNonDismissible bool

	// editing reports whether text focus is in the topmost surface
	editing func() bool
}

func newBinder(reg *Registry, regions *Regions, target dismisser, keys KeyMap, skip bool, logger *slog.Logger) *Binder {
	return &Binder{
		reg:                reg,
		regions:            regions,
		target:             target,
		keys:               keys,
		skipNonDismissible: skip,
		logger:             logger.With("component", "overlay.binder"),
	}
}

// HandleKey dismisses the eligible topmost overlay on the dismiss key.
// It reports false when the key should go to the content instead.
func (b *Binder) HandleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	if !key.Matches(msg, b.keys.Dismiss) {
		return false, nil
	}
	if b.editing != nil && b.editing() {
		b.logger.Debug("dismiss key suppressed while editing text")
		return false, nil
	}
	return b.trigger(types.ReasonEscapeKey)
}

// HandleMouse resolves a mouse press against the tracked regions
func (b *Binder) HandleMouse(msg tea.MouseMsg) (bool, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || tea.MouseEvent(msg).IsWheel() {
		return false, nil
	}
	return b.HandlePointer(b.regions.Hit(msg.X, msg.Y))
}

// HandlePointer dismisses the eligible topmost overlay unless the press
// originated inside a region owned by an open overlay
func (b *Binder) HandlePointer(ev PointerEvent) (bool, tea.Cmd) {
	for _, id := range ev.Origin() {
		if owner := b.regions.OwnerOf(id); owner != "" {
			if _, live := b.reg.Get(owner); live {
				return false, nil
			}
		}
	}
	return b.trigger(types.ReasonOutsideClick)
}

func (b *Binder) trigger(reason types.Reason) (bool, tea.Cmd) {
	rec, ok := b.eligible(reason)
	if !ok {
		return false, nil
	}
	b.logger.Debug("ambient dismissal", "overlay", rec.ID, "reason", reason.String())
	return true, b.target.Dismiss(rec.ID, reason)
}

// eligible finds the record an ambient trigger applies to
func (b *Binder) eligible(reason types.Reason) (Record, bool) {
	var pred func(Record) bool
	if b.skipNonDismissible {
		pred = func(r Record) bool {
			return r.Status == types.StatusDismissing || r.Dismissible(reason)
		}
	}

	rec, ok := b.reg.Topmost(pred)
	if !ok || !rec.Dismissible(reason) {
		return Record{}, false
	}
	return rec, true
}
