package overlay

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/riordanpawley/modalstack/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mountTest(t *testing.T, opts ...Option) (*Manager, *Portal) {
	t.Helper()
	m := newTestManager(t, opts...)
	p, err := m.Mount()
	require.NoError(t, err)
	p.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m, p
}

func blankScreen(w, h int) string {
	line := strings.Repeat(".", w)
	lines := make([]string, h)
	for i := range lines {
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

func TestPortal_ViewWithoutOverlays(t *testing.T) {
	_, p := mountTest(t)
	base := blankScreen(80, 24)

	assert.Equal(t, base, p.View(base))
	assert.False(t, p.Active())
}

func TestPortal_RendersDialogCentered(t *testing.T) {
	m, p := mountTest(t)
	h := m.ShowDialog(Options{Title: "Hello", Body: "world"})

	out := p.View(blankScreen(80, 24))
	plain := ansi.Strip(out)
	assert.Contains(t, plain, "Hello")
	assert.Contains(t, plain, "world")

	lines := strings.Split(plain, "\n")
	assert.Len(t, lines, 24)
	assert.Equal(t, strings.Repeat(".", 80), lines[0], "first row should stay uncovered")

	// the surface now owns its box, so a press in the middle is inside
	assert.Equal(t, h.ID(), m.Regions().OwnerOf(m.Regions().Hit(40, 12).Target))
	assert.Empty(t, m.Regions().Hit(0, 0).Target)
}

func TestPortal_DrawerDocksRight(t *testing.T) {
	m, p := mountTest(t)
	h := m.ShowDrawer(Options{Body: "side panel", Width: 30})

	plain := ansi.Strip(p.View(blankScreen(80, 24)))
	lines := strings.Split(plain, "\n")
	require.Len(t, lines, 24)

	assert.True(t, strings.HasPrefix(lines[0], strings.Repeat(".", 40)))
	assert.Equal(t, h.ID(), m.Regions().Hit(79, 0).Target)
	assert.Equal(t, h.ID(), m.Regions().Hit(79, 23).Target)
	assert.Empty(t, m.Regions().Hit(0, 0).Target)
}

func TestPortal_KeysPassThroughWithoutOverlays(t *testing.T) {
	_, p := mountTest(t)

	handled, _ := p.Update(keyMsg("esc"))
	assert.False(t, handled)

	handled, _ = p.Update(press(3, 3))
	assert.False(t, handled)
}

func TestPortal_EscapeDismissesTopmost(t *testing.T) {
	m, p := mountTest(t)
	m.ShowDialog(Options{Body: "a"})
	m.ShowDialog(Options{Body: "b"})
	p.View("")

	handled, _ := p.Update(keyMsg("esc"))
	assert.True(t, handled)
	assert.Equal(t, 1, m.Registry().Len())
	assert.Equal(t, 1, len(p.Snapshot().Records))
}

func TestPortal_ForwardsInputToTopmostContent(t *testing.T) {
	m, p := mountTest(t)
	below := &fakeContent{}
	top := &fakeContent{}
	m.ShowDialog(Options{Content: below})
	m.ShowDialog(Options{Content: top})
	p.Init()

	handled, _ := p.Update(keyMsg("x"))
	assert.True(t, handled, "input belongs to the overlay while one is shown")

	assert.Contains(t, top.msgs, tea.Msg(keyMsg("x")))
	assert.NotContains(t, below.msgs, tea.Msg(keyMsg("x")))
}

func TestPortal_OutsideClickDismisses(t *testing.T) {
	m, p := mountTest(t)
	m.ShowDialog(Options{Body: "click outside me"})
	p.View(blankScreen(80, 24))

	handled, _ := p.Update(press(40, 12))
	assert.True(t, handled)
	assert.Equal(t, 1, m.Registry().Len(), "press inside the surface must not dismiss")

	handled, _ = p.Update(press(0, 0))
	assert.True(t, handled)
	assert.Equal(t, 0, m.Registry().Len())
	assert.False(t, p.Active())
}

func TestPortal_ContentRegionsCountAsInside(t *testing.T) {
	m, p := mountTest(t)
	content := &fakeContent{regions: []Region{
		// a dropdown hanging below the surface
		{ID: "dropdown", Rect: Rect{X: 0, Y: 30, W: 10, H: 3}},
	}}
	h := m.ShowDialog(Options{Content: content, Width: 20, Height: 3})
	p.View(blankScreen(80, 24))

	region := m.Regions().Hit(40, 12)
	require.Equal(t, h.ID(), region.Target)

	assert.Equal(t, h.ID(), m.Regions().OwnerOf("dropdown"))
}

func TestPortal_EscapeGoesToEditingContent(t *testing.T) {
	m, p := mountTest(t)
	content := &fakeContent{editing: true}
	m.ShowDialog(Options{Content: content})
	p.Init()

	handled, _ := p.Update(keyMsg("esc"))
	assert.True(t, handled)
	assert.Equal(t, 1, m.Registry().Len())
	assert.Contains(t, content.msgs, tea.Msg(keyMsg("esc")))

	content.editing = false
	p.Update(keyMsg("esc"))
	assert.Equal(t, 0, m.Registry().Len())
}

func TestPortal_RenderFuncCanDismiss(t *testing.T) {
	m, p := mountTest(t)

	var dismiss DismissFunc
	m.ShowDialog(Options{Render: func(d DismissFunc) tea.Model {
		dismiss = d
		return NewText("self-closing")
	}})
	p.Init()
	require.NotNil(t, dismiss)

	for _, msg := range runCmd(dismiss()) {
		handled, _ := p.Update(msg)
		assert.True(t, handled)
	}
	assert.Equal(t, 0, m.Registry().Len())
}

func TestPortal_ConfirmKeys(t *testing.T) {
	m, p := mountTest(t)
	c := m.ShowConfirm(Options{Title: "Delete?", Body: "This cannot be undone"})
	p.Init()

	handled, cmd := p.Update(keyMsg("y"))
	require.True(t, handled)
	for _, msg := range runCmd(cmd) {
		p.Update(msg)
	}

	confirmed, err := c.Wait(testContext(t))
	require.NoError(t, err)
	assert.True(t, confirmed)
	assert.False(t, p.Active())
}

func TestPortal_ConfirmShowsBusyWhileCallbackRuns(t *testing.T) {
	m, p := mountTest(t)
	release := make(chan struct{})
	c := m.ShowConfirm(Options{
		Title:     "Deploy?",
		OnConfirm: func(context.Context) error { <-release; return nil },
	})
	p.Init()

	cmd := m.Confirm(c.ID())
	require.NotNil(t, cmd)

	assert.Contains(t, ansi.Strip(p.View(blankScreen(80, 24))), "Working")

	// input is ignored while the callback is in flight
	handled, _ := p.Update(keyMsg("n"))
	assert.True(t, handled)
	rec, _ := m.Registry().Get(c.ID())
	assert.Equal(t, types.StatusDismissing, rec.Status)

	close(release)
	for _, msg := range runCmd(cmd) {
		p.Update(msg)
	}
	confirmed, err := c.Wait(testContext(t))
	require.NoError(t, err)
	assert.True(t, confirmed)
}

func TestPortal_SendsRegistryChanges(t *testing.T) {
	m := newTestManager(t)
	msgs := make(chan tea.Msg, 8)
	p, err := m.Mount(WithSender(func(msg tea.Msg) { msgs <- msg }))
	require.NoError(t, err)

	go m.ShowDialog(Options{Body: "from a worker"})

	select {
	case msg := <-msgs:
		assert.IsType(t, RegistryChangedMsg{}, msg)
		handled, _ := p.Update(msg)
		assert.True(t, handled)
	case <-time.After(time.Second):
		t.Fatal("portal did not wake the program")
	}
}

func TestPortal_WindowSizeIsBroadcast(t *testing.T) {
	m, p := mountTest(t)
	a := &fakeContent{}
	b := &fakeContent{}
	m.ShowDialog(Options{Content: a})
	m.ShowDrawer(Options{Content: b})
	p.Init()

	size := tea.WindowSizeMsg{Width: 100, Height: 30}
	handled, _ := p.Update(size)
	assert.False(t, handled, "the host still needs the window size")
	assert.Contains(t, a.msgs, tea.Msg(size))
	assert.Contains(t, b.msgs, tea.Msg(size))
}

func TestPortal_ClassNames(t *testing.T) {
	m, p := mountTest(t)
	m.ShowDialog(Options{Body: "styled", ClassName: "danger", TitleClassName: "accent", Title: "T", ContentClassName: "missing"})

	assert.NotPanics(t, func() { p.View(blankScreen(80, 24)) })
	assert.Contains(t, ansi.Strip(p.View(blankScreen(80, 24))), "styled")
}

func TestPortal_InitOfContentMountedByView(t *testing.T) {
	type loadedMsg struct{}

	m, p := mountTest(t)
	content := &fakeContent{initMsg: loadedMsg{}}

	// shown while the host handles a message: Update has already synced
	_, cmd := p.Update(keyMsg("d"))
	assert.Empty(t, runCmd(cmd))
	m.ShowDialog(Options{Content: content})

	// the surface is first mounted while rendering
	assert.Contains(t, p.View(blankScreen(80, 24)), "content")

	_, cmd = p.Update(RegistryChangedMsg{})
	assert.Contains(t, runCmd(cmd), tea.Msg(loadedMsg{}))

	// the queue is drained once
	_, cmd = p.Update(RegistryChangedMsg{})
	assert.NotContains(t, runCmd(cmd), tea.Msg(loadedMsg{}))
}

func TestPortal_InitOfContentMountedByUpdate(t *testing.T) {
	type loadedMsg struct{}

	m, p := mountTest(t)
	m.ShowDrawer(Options{Content: &fakeContent{initMsg: loadedMsg{}}})

	_, cmd := p.Update(RegistryChangedMsg{})
	assert.Equal(t, []tea.Msg{loadedMsg{}}, runCmd(cmd))
}
