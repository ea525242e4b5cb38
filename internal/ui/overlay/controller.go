package overlay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/riordanpawley/modalstack/internal/types"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrCallbackPanic wraps a panic recovered from a confirm callback
var ErrCallbackPanic = errors.New("overlay callback panicked")

// callbackDoneMsg carries the result of an async confirm callback back to
// the Update loop
type callbackDoneMsg struct {
	id  string
	err error
}

// Controller owns the lifecycle of one overlay. It is the only writer of
// its record's status.
type Controller struct {
	id   string
	kind types.Kind
	opts Options

	reg          *Registry
	confirmation *Confirmation
	ctx          context.Context
	span         trace.Span
	logger       *slog.Logger
	onDispose    func(id string)

	mu       sync.Mutex
	reason   types.Reason
	started  bool
	disposed bool
}

func newController(ctx context.Context, rec *Record, reg *Registry, tracer trace.Tracer, logger *slog.Logger) *Controller {
	ctx, span := tracer.Start(ctx, "overlay."+rec.Kind.String(),
		trace.WithAttributes(
			attribute.String("overlay.id", rec.ID),
			attribute.String("overlay.kind", rec.Kind.String()),
		),
	)

	c := &Controller{
		id:     rec.ID,
		kind:   rec.Kind,
		opts:   rec.Options,
		reg:    reg,
		ctx:    ctx,
		span:   span,
		logger: logger.With("overlay", rec.ID, "kind", rec.Kind.String()),
	}
	if rec.Kind == types.KindConfirm {
		c.confirmation = newConfirmation(rec.ID)
	}
	return c
}

// ID returns the overlay id
func (c *Controller) ID() string {
	return c.id
}

// Open moves the overlay from opening to open
func (c *Controller) Open() {
	c.mu.Lock()
	disposed := c.disposed
	c.mu.Unlock()
	if disposed {
		c.logger.Error("open called on a disposed overlay")
		return
	}

	if err := c.reg.transition(c.id, types.StatusOpen); err != nil {
		c.logger.Warn("open ignored", "error", err)
		return
	}
	c.span.AddEvent("open")
}

// Dismiss starts dismissal. Only the first call has an effect; later calls,
// whatever their reason, return nil. For a confirm overlay with a callback
// to run, the returned command runs it and its message must be routed back
// through Manager.Update to finish the dismissal.
func (c *Controller) Dismiss(reason types.Reason) tea.Cmd {
	c.mu.Lock()
	if c.started || c.disposed {
		c.mu.Unlock()
		c.logger.Debug("dismiss already handled", "reason", reason.String())
		return nil
	}
	c.started = true
	c.reason = reason
	c.mu.Unlock()

	c.span.SetAttributes(attribute.String("overlay.reason", reason.String()))

	if rec, ok := c.reg.Get(c.id); ok && rec.Status == types.StatusOpening {
		if err := c.reg.transition(c.id, types.StatusOpen); err != nil {
			c.logger.Warn("open before dismiss failed", "error", err)
		}
	}
	if err := c.reg.transition(c.id, types.StatusDismissing); err != nil {
		c.logger.Warn("dismissing transition failed", "error", err)
	}

	cb := c.callbackFor(reason)
	if cb == nil {
		c.complete(nil)
		return nil
	}

	id, ctx := c.id, c.ctx
	return func() tea.Msg {
		return callbackDoneMsg{id: id, err: runCallback(ctx, cb)}
	}
}

// Status returns the overlay's current status. A controller whose record is
// gone reports dismissed.
func (c *Controller) Status() types.Status {
	if rec, ok := c.reg.Get(c.id); ok {
		return rec.Status
	}
	return types.StatusDismissed
}

func (c *Controller) callbackFor(reason types.Reason) Callback {
	if c.kind != types.KindConfirm {
		return nil
	}
	if reason == types.ReasonConfirmed {
		return c.opts.OnConfirm
	}
	return c.opts.OnCancel
}

// complete settles the confirmation, removes the record and only then makes
// the settlement observable.
func (c *Controller) complete(err error) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	reason := c.reason
	c.mu.Unlock()

	if c.confirmation != nil {
		state := types.SettlementCancelled
		if reason == types.ReasonConfirmed {
			state = types.SettlementConfirmed
		}
		if err != nil {
			state = types.SettlementFailed
		}
		c.confirmation.settle(state, err)
	}

	if rerr := c.reg.retire(c.id); rerr != nil {
		c.logger.Debug("retire skipped", "error", rerr)
	}

	if err != nil {
		c.logger.Error("overlay callback failed", "reason", reason.String(), "error", err)
		c.span.RecordError(err)
		c.span.SetStatus(codes.Error, err.Error())
	}
	c.span.End()

	if c.onDispose != nil {
		c.onDispose(c.id)
	}
	if c.confirmation != nil {
		c.confirmation.resolve()
	}
	c.logger.Debug("overlay dismissed", "reason", reason.String())
}

func runCallback(ctx context.Context, cb Callback) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrCallbackPanic, p)
		}
	}()
	return cb(ctx)
}
