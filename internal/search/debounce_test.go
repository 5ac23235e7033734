package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var t0 = time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

func TestDebouncer_CommitsOnceAfterQuietWindow(t *testing.T) {
	d := NewDebouncer(400 * time.Millisecond)

	d.Push("p", t0)
	d.Push("py", t0.Add(100*time.Millisecond))
	d.Push("pyt", t0.Add(200*time.Millisecond))

	_, ok := d.Due(t0.Add(500 * time.Millisecond))
	assert.False(t, ok, "window restarts on every keystroke")

	got, ok := d.Due(t0.Add(600 * time.Millisecond))
	assert.True(t, ok)
	assert.Equal(t, "pyt", got)

	_, ok = d.Due(t0.Add(2 * time.Second))
	assert.False(t, ok, "nothing pending after commit")
}

func TestDebouncer_SwallowsRepeatOfCommittedValue(t *testing.T) {
	d := NewDebouncer(400 * time.Millisecond)
	d.Push("go", t0)
	_, ok := d.Due(t0.Add(400 * time.Millisecond))
	assert.True(t, ok)

	d.Push("gop", t0.Add(time.Second))
	d.Push("go", t0.Add(time.Second+50*time.Millisecond))
	_, ok = d.Due(t0.Add(2 * time.Second))
	assert.False(t, ok)
	assert.Equal(t, "go", d.Committed())
}

func TestDebouncer_EmptyInputCommitsFirstTime(t *testing.T) {
	d := NewDebouncer(0)
	assert.Equal(t, DefaultDebounce, d.Window())

	d.Push("", t0)
	got, ok := d.Due(t0.Add(DefaultDebounce))
	assert.True(t, ok)
	assert.Equal(t, "", got)
}

func TestDebouncer_DeadlineAndReset(t *testing.T) {
	d := NewDebouncer(400 * time.Millisecond)
	_, ok := d.Deadline()
	assert.False(t, ok)

	d.Push("x", t0)
	dl, ok := d.Deadline()
	assert.True(t, ok)
	assert.Equal(t, t0.Add(400*time.Millisecond), dl)

	d.Reset()
	_, ok = d.Deadline()
	assert.False(t, ok)
	assert.Equal(t, 400*time.Millisecond, d.Window())
}
