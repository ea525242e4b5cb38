package overlay

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// composite splices fg into bg with its top-left corner at (x, y). Cells of
// bg outside fg's box are kept; escape sequences are preserved.
func composite(bg, fg string, x, y int) string {
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	bgLines := strings.Split(bg, "\n")
	fgLines := strings.Split(fg, "\n")

	for len(bgLines) < y+len(fgLines) {
		bgLines = append(bgLines, "")
	}

	for i, fgLine := range fgLines {
		row := y + i
		line := bgLines[row]

		if w := ansi.StringWidth(line); w < x {
			line += strings.Repeat(" ", x-w)
		}

		left := ansi.Truncate(line, x, "")
		right := ansi.TruncateLeft(line, x+ansi.StringWidth(fgLine), "")
		bgLines[row] = left + fgLine + "\x1b[0m" + right
	}

	return strings.Join(bgLines, "\n")
}

// measure returns the visible width and height of a rendered block
func measure(s string) (width, height int) {
	lines := strings.Split(s, "\n")
	for _, l := range lines {
		if w := ansi.StringWidth(l); w > width {
			width = w
		}
	}
	return width, len(lines)
}
