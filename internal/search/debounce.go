package search

import "time"

// DefaultDebounce is the quiet period before typed input becomes a query.
const DefaultDebounce = 400 * time.Millisecond

// Debouncer turns a stream of raw input into at most one committed value per
// quiet window. Callers supply the time, so it can be driven without timers.
type Debouncer struct {
	window     time.Duration
	pending    string
	hasPending bool
	deadline   time.Time
	committed  string
	everFired  bool
}

func NewDebouncer(window time.Duration) *Debouncer {
	if window <= 0 {
		window = DefaultDebounce
	}
	return &Debouncer{window: window}
}

func (d *Debouncer) Window() time.Duration { return d.window }

// Push records input at now and restarts the quiet window.
func (d *Debouncer) Push(input string, now time.Time) {
	d.pending = input
	d.hasPending = true
	d.deadline = now.Add(d.window)
}

// Due returns the pending input once its quiet window has elapsed at now.
// Input equal to the last committed value is swallowed.
func (d *Debouncer) Due(now time.Time) (string, bool) {
	if !d.hasPending || now.Before(d.deadline) {
		return "", false
	}
	d.hasPending = false
	if d.everFired && d.pending == d.committed {
		return "", false
	}
	d.committed = d.pending
	d.everFired = true
	return d.committed, true
}

// Deadline reports when the pending input becomes due.
func (d *Debouncer) Deadline() (time.Time, bool) {
	return d.deadline, d.hasPending
}

// Committed returns the last value Due released.
func (d *Debouncer) Committed() string { return d.committed }

// Reset drops pending input and forgets the last committed value.
func (d *Debouncer) Reset() {
	*d = Debouncer{window: d.window}
}
