// Package schedule provides cancellable one-shot timers for a bubbletea
// program. Timers fire as messages on the update loop, where Deliver decides
// whether a fired timer is still wanted.
package schedule

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Handle identifies one scheduled timer.
type Handle uint64

// firedMsg is produced when a timer's delay elapses.
type firedMsg struct {
	handle Handle
}

// Timers tracks pending timers. It is not safe for concurrent use; call it
// from the bubbletea update loop only.
type Timers struct {
	next    Handle
	pending map[Handle]func() tea.Msg
}

func NewTimers() *Timers {
	return &Timers{pending: make(map[Handle]func() tea.Msg)}
}

// Schedule arranges for fn to run after delay. The returned command must be
// handed to bubbletea; fn runs only if the timer is still pending when its
// message is delivered.
func (t *Timers) Schedule(delay time.Duration, fn func() tea.Msg) (Handle, tea.Cmd) {
	t.next++
	h := t.next
	t.pending[h] = fn
	return h, tea.Tick(delay, func(time.Time) tea.Msg {
		return firedMsg{handle: h}
	})
}

// Cancel drops a pending timer. Cancelling a fired or unknown handle is a
// no-op.
func (t *Timers) Cancel(h Handle) {
	delete(t.pending, h)
}

// Deliver inspects msg. For a fired timer that is still pending it runs the
// callback and returns its message with ok set. For cancelled timers it
// returns nil with ok set, so the caller knows the message was consumed.
// Any other message returns ok false.
func (t *Timers) Deliver(msg tea.Msg) (out tea.Msg, ok bool) {
	fired, isTimer := msg.(firedMsg)
	if !isTimer {
		return nil, false
	}
	fn, pending := t.pending[fired.handle]
	if !pending {
		return nil, true
	}
	delete(t.pending, fired.handle)
	if fn == nil {
		return nil, true
	}
	return fn(), true
}

// Pending reports how many timers are waiting to fire.
func (t *Timers) Pending() int {
	return len(t.pending)
}

// Debouncer collapses bursts of triggers into one callback after a quiet
// period. Each Trigger cancels the timer scheduled by the previous one.
type Debouncer struct {
	timers *Timers
	delay  time.Duration
	last   Handle
	armed  bool
}

func NewDebouncer(timers *Timers, delay time.Duration) *Debouncer {
	return &Debouncer{timers: timers, delay: delay}
}

func (d *Debouncer) Trigger(fn func() tea.Msg) tea.Cmd {
	d.Stop()
	h, cmd := d.timers.Schedule(d.delay, fn)
	d.last = h
	d.armed = true
	return cmd
}

// Stop cancels the pending callback, if any.
func (d *Debouncer) Stop() {
	if d.armed {
		d.timers.Cancel(d.last)
		d.armed = false
	}
}

func (d *Debouncer) Delay() time.Duration {
	return d.delay
}
