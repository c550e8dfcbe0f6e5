package toast

import (
	"sync"
	"time"
)

// Hooks are the callbacks of one toast lifecycle. Progress fires on every
// tick, Exiting once when the toast starts leaving and Done once after the
// exit grace period.
type Hooks struct {
	Progress func(progress float64)
	Exiting  func()
	Done     func()
}

// Task drives a single toast: a repeating progress tick followed by the exit
// grace timer. Cancel stops both; no hook fires after Cancel returns except
// one already in flight.
type Task struct {
	cfg   Config
	hooks Hooks
	start time.Time
	now   func() time.Time

	done       chan struct{}
	expire     chan struct{}
	cancelOnce sync.Once
	expireOnce sync.Once
	finished   chan struct{}
}

func newTask(cfg Config, hooks Hooks, now func() time.Time) *Task {
	if hooks.Progress == nil {
		hooks.Progress = func(float64) {}
	}
	if hooks.Exiting == nil {
		hooks.Exiting = func() {}
	}
	if hooks.Done == nil {
		hooks.Done = func() {}
	}
	t := &Task{
		cfg:      cfg,
		hooks:    hooks,
		start:    now(),
		now:      now,
		done:     make(chan struct{}),
		expire:   make(chan struct{}),
		finished: make(chan struct{}),
	}
	go t.run()
	return t
}

// Cancel stops the task. It is safe to call more than once.
func (t *Task) Cancel() {
	t.cancelOnce.Do(func() { close(t.done) })
}

// Expire skips the remaining countdown and starts the exit path.
func (t *Task) Expire() {
	t.expireOnce.Do(func() { close(t.expire) })
}

// Wait blocks until the task goroutine has returned.
func (t *Task) Wait() {
	<-t.finished
}

func (t *Task) run() {
	defer close(t.finished)
	if !t.countdown() {
		return
	}
	if !t.fire(t.hooks.Exiting) {
		return
	}

	grace := time.NewTimer(t.cfg.ExitGrace)
	defer grace.Stop()
	select {
	case <-t.done:
		return
	case <-grace.C:
	}
	t.fire(t.hooks.Done)
}

// countdown ticks until progress hits zero or Expire is called. It reports
// false when the task was cancelled.
func (t *Task) countdown() bool {
	ticker := time.NewTicker(t.cfg.Tick)
	defer ticker.Stop()
	for {
		select {
		case <-t.done:
			return false
		case <-t.expire:
			return true
		case <-ticker.C:
			p := Progress(t.now().Sub(t.start), t.cfg.Timeout)
			if !t.fire(func() { t.hooks.Progress(p) }) {
				return false
			}
			if p <= 0 {
				return true
			}
		}
	}
}

func (t *Task) fire(fn func()) bool {
	select {
	case <-t.done:
		return false
	default:
	}
	fn()
	return true
}

// Progress is the remaining share of timeout in percent, floored at zero.
func Progress(elapsed, timeout time.Duration) float64 {
	if timeout <= 0 {
		return 0
	}
	p := 100 - float64(elapsed)/float64(timeout)*100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
