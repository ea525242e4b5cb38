package statusbar_test

import (
	"fmt"

	"github.com/riordanpawley/modalstack/internal/types"
	"github.com/riordanpawley/modalstack/internal/ui/statusbar"
	"github.com/riordanpawley/modalstack/internal/ui/styles"
)

// Example demonstrates how to use the StatusBar
func Example() {
	style := styles.New()

	// Two overlays open, a confirm on top
	sb := statusbar.New(2, types.KindConfirm, 80, style)

	fmt.Println(sb.Badge())
	// Output: CONFIRM ×2
}

// ExampleGetHints shows the hints for the host screen
func ExampleGetHints() {
	fmt.Println(statusbar.GetHints(0, types.KindDialog))
	// Output: d: dialog  w: drawer  c: confirm  p: pinned  ?: help  q: quit
}
