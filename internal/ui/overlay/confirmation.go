package overlay

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/riordanpawley/modalstack/internal/types"
)

// ConfirmSettledMsg is delivered by Confirmation.Await once the confirm
// overlay has been dismissed and removed from the registry
type ConfirmSettledMsg struct {
	ID        string
	Confirmed bool
	Err       error
}

// Confirmation is the pending result of ShowConfirm. It settles exactly once:
// true after OnConfirm succeeds, false on any cancel path, or with the error
// returned by the callback that ran.
type Confirmation struct {
	id   string
	done chan struct{}

	mu      sync.Mutex
	state   types.SettlementState
	err     error
	publish sync.Once
}

func newConfirmation(id string) *Confirmation {
	return &Confirmation{
		id:    id,
		done:  make(chan struct{}),
		state: types.SettlementPending,
	}
}

// failedConfirmation returns a confirmation that is already rejected
func failedConfirmation(err error) *Confirmation {
	c := newConfirmation("")
	c.settle(types.SettlementFailed, err)
	c.resolve()
	return c
}

// ID returns the overlay id, empty if the overlay was never registered
func (c *Confirmation) ID() string {
	return c.id
}

// Done is closed once the result is observable
func (c *Confirmation) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until the confirmation settles or ctx ends
func (c *Confirmation) Wait(ctx context.Context) (bool, error) {
	select {
	case <-c.done:
		state, err := c.Result()
		return state == types.SettlementConfirmed, err
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Result returns the current settlement without blocking
func (c *Confirmation) Result() (types.SettlementState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.err
}

// Await returns a command that waits for settlement and reports it as a
// ConfirmSettledMsg
func (c *Confirmation) Await() tea.Cmd {
	return func() tea.Msg {
		<-c.done
		state, err := c.Result()
		return ConfirmSettledMsg{
			ID:        c.id,
			Confirmed: state == types.SettlementConfirmed,
			Err:       err,
		}
	}
}

// settle records the outcome without making it observable. Only the first
// call has any effect.
func (c *Confirmation) settle(state types.SettlementState, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != types.SettlementPending {
		return false
	}
	c.state = state
	c.err = err
	return true
}

// resolve makes the settled outcome observable to waiters
func (c *Confirmation) resolve() {
	c.publish.Do(func() {
		close(c.done)
	})
}
