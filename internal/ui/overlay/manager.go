package overlay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/riordanpawley/modalstack/internal/types"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrPortalMounted is returned by Mount when a portal is already mounted.
	// An application mounts exactly one portal per manager.
	ErrPortalMounted = errors.New("overlay portal already mounted")
	// ErrManagerClosed is returned for overlays requested after Close
	ErrManagerClosed = errors.New("overlay manager closed")
)

// DismissMsg asks the manager to dismiss an overlay. Content factories get
// commands producing it through their DismissFunc.
type DismissMsg struct {
	ID     string
	Reason types.Reason
}

// ConfirmChoiceMsg is emitted by confirm content when the user picks a button
type ConfirmChoiceMsg struct {
	ID        string
	Confirmed bool
}

// Handle lets the caller of Show dismiss the overlay later
type Handle struct {
	id string
	m  *Manager
}

// ID returns the overlay id, empty when the overlay was rejected
func (h Handle) ID() string {
	return h.id
}

// Dismiss dismisses the overlay. Calling it more than once is harmless.
func (h Handle) Dismiss() tea.Cmd {
	if h.m == nil || h.id == "" {
		return nil
	}
	return h.m.Dismiss(h.id, types.ReasonExplicit)
}

// Option configures a Manager
type Option func(*Manager)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithTracer sets the tracer used for overlay lifecycle spans
func WithTracer(tracer trace.Tracer) Option {
	return func(m *Manager) {
		if tracer != nil {
			m.tracer = tracer
		}
	}
}

// WithDefaults sets the fallback values for unset options
func WithDefaults(d Defaults) Option {
	return func(m *Manager) {
		m.defaults = d
	}
}

// WithKeyMap sets the key bindings
func WithKeyMap(k KeyMap) Option {
	return func(m *Manager) {
		m.keys = k
	}
}

// WithSkipNonDismissible picks how Escape and outside clicks treat a
// topmost overlay that refuses them. By default the trigger stops there and
// overlays below stay inert until it closes. With skip set, the trigger goes
// to the topmost overlay that accepts it, so an overlay that opts out never
// shields the ones below.
func WithSkipNonDismissible(skip bool) Option {
	return func(m *Manager) {
		m.skipNonDismissible = skip
	}
}

// WithContext sets the parent context handed to confirm callbacks
func WithContext(ctx context.Context) Option {
	return func(m *Manager) {
		if ctx != nil {
			m.parent = ctx
		}
	}
}

// Manager is the entry point application code uses to show overlays. It
// owns the registry, the dismissal binder and every controller. Create one
// per application and hand it to whoever needs to show overlays.
type Manager struct {
	reg     *Registry
	regions *Regions
	binder  *Binder

	defaults           Defaults
	keys               KeyMap
	skipNonDismissible bool
	tracer             trace.Tracer
	logger             *slog.Logger
	parent             context.Context

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	controllers map[string]*Controller
	portal      *Portal
	closed      bool
}

// NewManager creates a manager with no portal mounted. Overlays shown before
// a portal mounts are kept and appear once it does.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		defaults:    DefaultDefaults(),
		keys:        DefaultKeyMap(),
		tracer:      noop.NewTracerProvider().Tracer("modalstack"),
		logger:      slog.Default(),
		parent:      context.Background(),
		controllers: make(map[string]*Controller),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.logger = m.logger.With("component", "overlay")
	m.ctx, m.cancel = context.WithCancel(m.parent)
	m.reg = NewRegistry(m.logger)
	m.regions = NewRegions()
	m.binder = newBinder(m.reg, m.regions, m, m.keys, m.skipNonDismissible, m.logger)
	return m
}

// Registry returns the registry backing this manager
func (m *Manager) Registry() *Registry {
	return m.reg
}

// Regions returns the region tracker used for outside-click detection
func (m *Manager) Regions() *Regions {
	return m.regions
}

// Binder returns the dismissal trigger binder
func (m *Manager) Binder() *Binder {
	return m.binder
}

// Keys returns the key bindings
func (m *Manager) Keys() KeyMap {
	return m.keys
}

// Show opens a dialog or drawer. Invalid options are logged and yield a
// handle whose Dismiss does nothing.
func (m *Manager) Show(kind types.Kind, opts Options) Handle {
	if kind == types.KindConfirm {
		m.logger.Error("Show called with confirm kind, use ShowConfirm")
		return Handle{}
	}
	ctrl, err := m.open(kind, opts)
	if err != nil {
		return Handle{}
	}
	return Handle{id: ctrl.ID(), m: m}
}

// ShowDialog opens a centered dialog
func (m *Manager) ShowDialog(opts Options) Handle {
	return m.Show(types.KindDialog, opts)
}

// ShowDrawer opens a drawer docked to the right edge
func (m *Manager) ShowDrawer(opts Options) Handle {
	return m.Show(types.KindDrawer, opts)
}

// ShowConfirm opens a confirm overlay. The confirmation resolves true once
// OnConfirm has completed and false when the overlay is cancelled or
// dismissed any other way. A failing callback rejects it; the overlay is
// removed either way.
func (m *Manager) ShowConfirm(opts Options) *Confirmation {
	ctrl, err := m.open(types.KindConfirm, opts)
	if err != nil {
		return failedConfirmation(err)
	}
	return ctrl.confirmation
}

// Dismiss dismisses the overlay with the given id. Unknown ids are logged
// and ignored.
func (m *Manager) Dismiss(id string, reason types.Reason) tea.Cmd {
	ctrl := m.controller(id)
	if ctrl == nil {
		m.logger.Warn("dismiss of unknown overlay ignored", "overlay", id, "reason", reason.String())
		return nil
	}
	return ctrl.Dismiss(reason)
}

// Confirm picks the confirm button of a confirm overlay
func (m *Manager) Confirm(id string) tea.Cmd {
	return m.Dismiss(id, types.ReasonConfirmed)
}

// Cancel picks the cancel button of a confirm overlay
func (m *Manager) Cancel(id string) tea.Cmd {
	return m.Dismiss(id, types.ReasonCancelled)
}

// Update handles the manager's own messages. It reports whether msg was one
// of them.
func (m *Manager) Update(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case DismissMsg:
		return true, m.Dismiss(msg.ID, msg.Reason)

	case ConfirmChoiceMsg:
		reason := types.ReasonCancelled
		if msg.Confirmed {
			reason = types.ReasonConfirmed
		}
		return true, m.Dismiss(msg.ID, reason)

	case callbackDoneMsg:
		if ctrl := m.controller(msg.id); ctrl != nil {
			ctrl.complete(msg.err)
		}
		return true, nil
	}
	return false, nil
}

// Mount creates the portal that renders this manager's overlays. Only one
// portal may be mounted at a time; a second Mount fails with
// ErrPortalMounted.
func (m *Manager) Mount(opts ...PortalOption) (*Portal, error) {
	m.mu.Lock()
	if m.portal != nil {
		m.mu.Unlock()
		m.logger.Error("overlay portal mounted twice")
		return nil, ErrPortalMounted
	}
	if m.closed {
		m.mu.Unlock()
		return nil, ErrManagerClosed
	}
	p := newPortal(m, opts...)
	m.portal = p
	m.mu.Unlock()

	p.subscribe()
	m.logger.Debug("overlay portal mounted")
	return p, nil
}

// Close tears the manager down: every overlay still open is cancelled, its
// cancel callbacks run concurrently, and the portal is unmounted. It
// returns the first callback error.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	ctrls := make([]*Controller, 0, len(m.controllers))
	for _, c := range m.controllers {
		ctrls = append(ctrls, c)
	}
	portal := m.portal
	m.mu.Unlock()

	var g errgroup.Group
	for _, c := range ctrls {
		c := c
		cmd := c.Dismiss(types.ReasonCancelled)
		if cmd == nil {
			continue
		}
		g.Go(func() error {
			done, _ := cmd().(callbackDoneMsg)
			c.complete(done.err)
			return done.err
		})
	}
	err := g.Wait()

	m.cancel()
	if portal != nil {
		portal.Unmount()
	}
	if err != nil {
		return fmt.Errorf("closing overlays: %w", err)
	}
	return nil
}

func (m *Manager) open(kind types.Kind, opts Options) (*Controller, error) {
	rec, err := newRecord(kind, opts, m.defaults)
	if err != nil {
		m.logger.Warn("overlay rejected", "kind", kind.String(), "error", err)
		return nil, err
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		m.logger.Warn("overlay requested after close", "kind", kind.String())
		return nil, ErrManagerClosed
	}
	ctrl := newController(m.ctx, rec, m.reg, m.tracer, m.logger)
	ctrl.onDispose = m.forget
	m.controllers[rec.ID] = ctrl
	m.mu.Unlock()

	m.reg.Push(rec)
	ctrl.Open()
	return ctrl, nil
}

func (m *Manager) controller(id string) *Controller {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.controllers[id]
}

func (m *Manager) forget(id string) {
	m.mu.Lock()
	delete(m.controllers, id)
	m.mu.Unlock()
	m.regions.Clear(id)
}

func (m *Manager) unmount(p *Portal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.portal == p {
		m.portal = nil
	}
}

// dismissFunc binds a DismissFunc to one overlay
func (m *Manager) dismissFunc(id string) DismissFunc {
	return func() tea.Cmd {
		return func() tea.Msg {
			return DismissMsg{ID: id, Reason: types.ReasonExplicit}
		}
	}
}
