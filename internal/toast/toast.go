// Package toast holds transient notifications shown after mutating actions.
package toast

import (
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

type Toast struct {
	ID        string
	Text      string
	Kind      Kind
	CreatedAt time.Time
}

// Source yields staged toast text once. curation.Store satisfies it.
type Source interface {
	TakeToast() (string, bool)
}

// Queue is a FIFO of toasts safe for concurrent use.
type Queue struct {
	mu    sync.Mutex
	items []Toast
	now   func() time.Time
}

func NewQueue() *Queue {
	return &Queue{now: time.Now}
}

// NewQueueWithClock is for tests that need stable timestamps.
func NewQueueWithClock(now func() time.Time) *Queue {
	return &Queue{now: now}
}

// Push appends a toast and returns it. Blank text is ignored.
func (q *Queue) Push(text string, kind Kind) (Toast, bool) {
	if text == "" {
		return Toast{}, false
	}
	t := Toast{
		ID:        ulid.Make().String(),
		Text:      text,
		Kind:      kind,
		CreatedAt: q.now().UTC(),
	}
	q.mu.Lock()
	q.items = append(q.items, t)
	q.mu.Unlock()
	return t, true
}

func (q *Queue) Peek() (Toast, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return Toast{}, false
	}
	return q.items[0], true
}

func (q *Queue) Pop() (Toast, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return Toast{}, false
	}
	t := q.items[0]
	q.items = q.items[1:]
	return t, true
}

// Dismiss removes the toast with id. It reports whether one was found.
func (q *Queue) Dismiss(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, t := range q.items {
		if t.ID == id {
			q.items = append(q.items[:i:i], q.items[i+1:]...)
			return true
		}
	}
	return false
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// All returns the queued toasts oldest first.
func (q *Queue) All() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Toast, len(q.items))
	copy(out, q.items)
	return out
}

// DrainFrom moves the source's staged text, if any, into the queue.
func (q *Queue) DrainFrom(src Source) (Toast, bool) {
	text, ok := src.TakeToast()
	if !ok {
		return Toast{}, false
	}
	return q.Push(text, KindSuccess)
}

func Added(title string) string {
	return fmt.Sprintf("\"%s\" added", title)
}

func Deleted(title string) string {
	return fmt.Sprintf("\"%s\" deleted", title)
}

func Visibility(highlightedOnly bool) string {
	if highlightedOnly {
		return "Now only highlighted content is visible for learners"
	}
	return "Now all catalog content is visible for learners"
}

func ArchivedRemoved(n int, title string) string {
	noun := "courses"
	if n == 1 {
		noun = "course"
	}
	return fmt.Sprintf("Removed %d archived %s from \"%s\"", n, noun, title)
}
