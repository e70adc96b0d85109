package lifecycle

import "time"

// Debouncer is a poll-based deadline. Each Trigger pushes the deadline out
// by the delay; Due fires once when the deadline has passed.
type Debouncer struct {
	delay    time.Duration
	deadline time.Time
	pending  bool
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

func (d *Debouncer) Trigger(at time.Time) {
	d.deadline = at.Add(d.delay)
	d.pending = true
}

// Due reports whether a pending deadline has passed and clears it.
func (d *Debouncer) Due(at time.Time) bool {
	if !d.pending || at.Before(d.deadline) {
		return false
	}
	d.pending = false
	return true
}

func (d *Debouncer) Cancel() {
	d.pending = false
}

func (d *Debouncer) Pending() bool {
	return d.pending
}

// Deadline is meaningful only while Pending.
func (d *Debouncer) Deadline() time.Time {
	return d.deadline
}
