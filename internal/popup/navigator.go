// Package popup implements the widget's overlay navigation: at most one of
// six named detail views is open at a time, closing goes through a short
// delayed transition, and a stopped navigator guarantees that no pending
// close timer mutates state afterwards.
package popup

import (
	"sync"
	"time"

	"meteocard/internal/types"
)

// DefaultCloseDelay is how long a close request waits before the popup
// state actually clears, leaving room for an exit transition.
const DefaultCloseDelay = 200 * time.Millisecond

// Navigator is the popup state machine. onChange fires after every state
// transition that the presentation should reflect; it is invoked without
// the navigator's lock held.
type Navigator struct {
	onChange   func()
	closeDelay time.Duration

	mu         sync.Mutex
	active     types.PopupView
	open       bool
	closing    bool
	closeTimer *time.Timer
	stopped    bool
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithCloseDelay overrides the close transition delay. Intended for tests.
func WithCloseDelay(d time.Duration) Option {
	return func(n *Navigator) {
		n.closeDelay = d
	}
}

// NewNavigator creates a closed Navigator.
func NewNavigator(onChange func(), opts ...Option) *Navigator {
	if onChange == nil {
		onChange = func() {}
	}
	n := &Navigator{
		onChange:   onChange,
		closeDelay: DefaultCloseDelay,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Open switches to the given view. Opening while another view is open (or
// mid-close) replaces it; views never stack. Unknown views are refused.
func (n *Navigator) Open(view types.PopupView) error {
	if !view.Valid() {
		return types.NewAppError(types.ErrCodeValidationInvalidView,
			"unknown popup view: "+string(view), nil)
	}

	n.mu.Lock()
	if n.stopped {
		n.mu.Unlock()
		return types.NewAppError(types.ErrCodeWidgetTornDown, "widget has been torn down", nil)
	}
	n.cancelTimerLocked()
	n.active = view
	n.open = true
	n.closing = false
	n.mu.Unlock()

	n.onChange()
	return nil
}

// RequestClose starts the closing transition. The popup stays visible in
// the closing state until the delay elapses, then clears. A no-op when
// nothing is open or a close is already pending.
func (n *Navigator) RequestClose() {
	n.mu.Lock()
	if n.stopped || !n.open || n.closing {
		n.mu.Unlock()
		return
	}
	n.closing = true
	n.closeTimer = time.AfterFunc(n.closeDelay, n.finalizeClose)
	n.mu.Unlock()

	n.onChange()
}

// finalizeClose is the delayed completion of a close request. It does
// nothing if the navigator was stopped or reopened in the meantime.
func (n *Navigator) finalizeClose() {
	n.mu.Lock()
	if n.stopped || !n.closing {
		n.mu.Unlock()
		return
	}
	n.active = ""
	n.open = false
	n.closing = false
	n.closeTimer = nil
	n.mu.Unlock()

	n.onChange()
}

// Active returns the open view, if any, and whether its close transition
// is underway.
func (n *Navigator) Active() (view types.PopupView, open, closing bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.active, n.open, n.closing
}

// Stop finalizes the navigator: the current state is frozen and any
// pending close timer is cancelled so it can never fire into a torn-down
// widget. Safe to call repeatedly.
func (n *Navigator) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stopped = true
	n.cancelTimerLocked()
}

func (n *Navigator) cancelTimerLocked() {
	if n.closeTimer != nil {
		n.closeTimer.Stop()
		n.closeTimer = nil
	}
	n.closing = false
}
