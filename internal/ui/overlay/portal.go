package overlay

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/modalstack/internal/types"
)

// RegistryChangedMsg wakes the program when overlays change outside the
// Update loop
type RegistryChangedMsg struct {
	Version uint64
}

// PortalOption configures a Portal
type PortalOption func(*Portal)

// WithSender lets the portal wake the program, typically with
// (*tea.Program).Send, when overlays are shown from another goroutine
func WithSender(send func(tea.Msg)) PortalOption {
	return func(p *Portal) {
		p.send = send
	}
}

// WithStyles sets the overlay styles
func WithStyles(s *Styles) PortalOption {
	return func(p *Portal) {
		if s != nil {
			p.styles = s
		}
	}
}

// Portal renders the overlays of a manager on top of the host view and
// routes input to them. The host model calls Update before handling a
// message itself and wraps its own view with View.
type Portal struct {
	m      *Manager
	styles *Styles
	send   func(tea.Msg)

	mu          sync.Mutex
	snap        Snapshot
	unsubscribe func()

	// touched only from the Update goroutine
	surfaces    map[string]tea.Model
	pendingInit []tea.Cmd
	width       int
	height      int
}

func newPortal(m *Manager, opts ...PortalOption) *Portal {
	p := &Portal{
		m:        m,
		styles:   DefaultStyles(),
		surfaces: make(map[string]tea.Model),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Portal) subscribe() {
	p.m.binder.editing = p.topEditing
	unsubscribe := p.m.reg.Subscribe(p.observe)
	p.mu.Lock()
	p.unsubscribe = unsubscribe
	p.mu.Unlock()
}

func (p *Portal) observe(snap Snapshot) {
	p.mu.Lock()
	if snap.Version < p.snap.Version {
		p.mu.Unlock()
		return
	}
	p.snap = snap
	send := p.send
	p.mu.Unlock()

	// Send blocks until the program reads it, and the change may have been
	// made from inside Update.
	if send != nil && snap.Change != ChangeInitial {
		go send(RegistryChangedMsg{Version: snap.Version})
	}
}

// Unmount detaches the portal. Overlays stay registered and show up again
// when a new portal mounts.
func (p *Portal) Unmount() {
	p.mu.Lock()
	unsubscribe := p.unsubscribe
	p.unsubscribe = nil
	p.mu.Unlock()

	if unsubscribe == nil {
		return
	}
	unsubscribe()
	p.m.binder.editing = nil
	p.m.unmount(p)
	p.m.logger.Debug("overlay portal unmounted")
}

// Snapshot returns the last stack the portal observed
func (p *Portal) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap
}

// Active reports whether any overlay is shown
func (p *Portal) Active() bool {
	return len(p.Snapshot().Records) > 0
}

// Init implements the first half of tea.Model for the host
func (p *Portal) Init() tea.Cmd {
	return p.sync()
}

// Update routes msg to the overlays. handled is true when the host should
// not process msg itself: input always belongs to the topmost overlay while
// one is shown.
func (p *Portal) Update(msg tea.Msg) (handled bool, cmd tea.Cmd) {
	cmds := []tea.Cmd{p.sync()}
	defer func() {
		cmd = tea.Batch(append(cmds, cmd)...)
	}()

	if ok, mcmd := p.m.Update(msg); ok {
		return true, mcmd
	}

	snap := p.Snapshot()
	top, hasTop := snap.Top()

	switch msg := msg.(type) {
	case RegistryChangedMsg:
		return true, nil

	case tea.WindowSizeMsg:
		p.width, p.height = msg.Width, msg.Height
		return false, p.broadcast(msg)

	case tea.KeyMsg:
		if !hasTop {
			return false, nil
		}
		if ok, bcmd := p.m.binder.HandleKey(msg); ok {
			return true, bcmd
		}
		return true, p.forward(top, msg)

	case tea.MouseMsg:
		if !hasTop {
			return false, nil
		}
		if ok, bcmd := p.m.binder.HandleMouse(msg); ok {
			return true, bcmd
		}
		return true, p.forward(top, msg)
	}

	return false, p.broadcast(msg)
}

// View renders every overlay over base, bottom to top, and records the
// screen area each one owns
func (p *Portal) View(base string) string {
	p.mountSurfaces()

	snap := p.Snapshot()
	if len(snap.Records) == 0 {
		return base
	}

	width, height := p.width, p.height
	if width == 0 || height == 0 {
		width, height = measure(base)
	}

	out := base
	for _, rec := range snap.Records {
		surface, ok := p.surfaces[rec.ID]
		if !ok {
			continue
		}
		box := p.render(rec, surface, height)
		boxW, boxH := measure(box)

		x, y := (width-boxW)/2, (height-boxH)/2
		if rec.Kind == types.KindDrawer {
			x, y = width-boxW, 0
		}
		if x < 0 {
			x = 0
		}
		if y < 0 {
			y = 0
		}

		out = composite(out, box, x, y)
		p.m.regions.Set(rec.ID, p.surfaceRegion(rec.ID, surface, Rect{X: x, Y: y, W: boxW, H: boxH}))
	}
	return out
}

// sync mounts surfaces for new records and returns the Init commands of
// every surface mounted since the last sync, including those mounted by View.
func (p *Portal) sync() tea.Cmd {
	p.mountSurfaces()

	cmds := p.pendingInit
	p.pendingInit = nil
	return tea.Batch(cmds...)
}

// mountSurfaces mounts surfaces for new records and drops those of removed
// ones. Init commands are queued for the next sync; View cannot return them.
func (p *Portal) mountSurfaces() {
	snap := p.Snapshot()

	live := make(map[string]bool, len(snap.Records))
	for _, rec := range snap.Records {
		live[rec.ID] = true

		surface, ok := p.surfaces[rec.ID]
		if !ok {
			surface = p.mount(rec)
			p.surfaces[rec.ID] = surface
			p.pendingInit = append(p.pendingInit, surface.Init())
		}
		if b, ok := surface.(busySetter); ok {
			b.SetBusy(rec.Status == types.StatusDismissing)
		}
	}

	for id := range p.surfaces {
		if !live[id] {
			delete(p.surfaces, id)
		}
	}
	p.m.regions.Retain(live)
}

func (p *Portal) mount(rec Record) tea.Model {
	switch {
	case rec.Kind == types.KindConfirm:
		return NewConfirmDialog(rec, p.m.keys, p.styles)
	case rec.Options.Render != nil:
		return rec.Options.Render(p.m.dismissFunc(rec.ID))
	case rec.Options.Content != nil:
		return rec.Options.Content
	default:
		return NewText(rec.Options.Body)
	}
}

// forward sends input to the topmost surface unless it is already on its
// way out
func (p *Portal) forward(top Record, msg tea.Msg) tea.Cmd {
	if top.Status != types.StatusOpen {
		return nil
	}
	surface, ok := p.surfaces[top.ID]
	if !ok {
		return nil
	}
	next, cmd := surface.Update(msg)
	p.surfaces[top.ID] = next
	return cmd
}

func (p *Portal) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for id, surface := range p.surfaces {
		next, cmd := surface.Update(msg)
		p.surfaces[id] = next
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (p *Portal) topEditing() bool {
	top, ok := p.Snapshot().Top()
	if !ok {
		return false
	}
	editor, ok := p.surfaces[top.ID].(TextEditor)
	return ok && editor.EditingText()
}

// render draws one surface with its container, title and class styles
func (p *Portal) render(rec Record, surface tea.Model, screenHeight int) string {
	opts := rec.Options

	title := opts.Title
	width, height := opts.Width, opts.Height
	if o, ok := surface.(Overlay); ok {
		if title == "" {
			title = o.Title()
		}
		if width == 0 && height == 0 {
			width, height = o.Size()
		}
	}

	content := p.styles.class(opts.ContentClassName, lipgloss.NewStyle()).Render(surface.View())
	if title != "" {
		titleView := p.styles.class(opts.TitleClassName, p.styles.Title).Render(title)
		content = lipgloss.JoinVertical(lipgloss.Left, titleView, content)
	}

	box := p.styles.class(opts.ClassName, p.styles.container(rec.Kind))
	if width > 0 {
		box = box.Width(width)
	}
	if rec.Kind == types.KindDrawer {
		box = box.Height(screenHeight)
	} else if height > 0 {
		box = box.Height(height)
	}
	return box.Render(content)
}

func (p *Portal) surfaceRegion(id string, surface tea.Model, rect Rect) Region {
	region := Region{ID: id, Rect: rect}
	if rp, ok := surface.(RegionProvider); ok {
		for _, child := range rp.Regions() {
			region.Children = append(region.Children, offsetRegion(child, rect.X, rect.Y))
		}
	}
	return region
}

func offsetRegion(r Region, dx, dy int) Region {
	r.Rect.X += dx
	r.Rect.Y += dy
	if len(r.Children) > 0 {
		children := make([]Region, len(r.Children))
		for i, c := range r.Children {
			children[i] = offsetRegion(c, dx, dy)
		}
		r.Children = children
	}
	return r
}
