package statusbar

import "github.com/riordanpawley/modalstack/internal/types"

// GetHints returns the keybinding hints for the topmost overlay, or for the
// host screen when no overlay is open
func GetHints(depth int, top types.Kind) string {
	if depth == 0 {
		return "d: dialog  w: drawer  c: confirm  p: pinned  ?: help  q: quit"
	}
	switch top {
	case types.KindConfirm:
		return "y/n: choose  ←/→: select  Enter: accept  Esc: cancel"
	case types.KindDrawer:
		return "Type a note  Enter: save  Esc: close"
	default:
		return "Esc: close  click outside: close"
	}
}
