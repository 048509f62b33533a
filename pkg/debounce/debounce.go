package debounce

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Task coalesces rapid Schedule calls into a single run of fn after a quiet
// period. A Schedule during the quiet window supersedes the pending run
// rather than queueing another one. The clock is injectable so tests drive
// the quiet period without wall-clock delays.
type Task struct {
	mu    sync.Mutex
	clock clock.Clock
	delay time.Duration
	fn    func()
	timer *clock.Timer
}

func New(c clock.Clock, delay time.Duration, fn func()) *Task {
	return &Task{
		clock: c,
		delay: delay,
		fn:    fn,
	}
}

// Schedule arms the task, replacing any pending run.
func (t *Task) Schedule() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = t.clock.AfterFunc(t.delay, t.run)
}

// Cancel drops the pending run, if any.
func (t *Task) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// Flush cancels the pending run and executes fn immediately.
func (t *Task) Flush() {
	t.Cancel()
	t.fn()
}

func (t *Task) run() {
	t.mu.Lock()
	t.timer = nil
	t.mu.Unlock()

	t.fn()
}
