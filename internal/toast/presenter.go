// Package toast turns store entries into auto-expiring toasts. Each entry gets
// its own Task; when the countdown ends or the user dismisses it, the toast is
// marked exiting and the entry is removed from the store after a short grace.
package toast

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"wallet_live/internal/config"
	"wallet_live/internal/feed"
	"wallet_live/internal/model"
)

const (
	DefaultTimeout   = 5 * time.Second
	DefaultTick      = 50 * time.Millisecond
	DefaultExitGrace = 300 * time.Millisecond
)

type Config struct {
	Timeout   time.Duration
	Tick      time.Duration
	ExitGrace time.Duration
}

func DefaultConfig() Config {
	return Config{Timeout: DefaultTimeout, Tick: DefaultTick, ExitGrace: DefaultExitGrace}
}

func ConfigFrom(cfg *config.Config) Config {
	c := DefaultConfig()
	if cfg.ToastTimeout > 0 {
		c.Timeout = cfg.ToastTimeout
	}
	if cfg.ToastTick > 0 {
		c.Tick = cfg.ToastTick
	}
	if cfg.ToastExitGrace > 0 {
		c.ExitGrace = cfg.ToastExitGrace
	}
	return c
}

// View is the render state of one toast.
type View struct {
	Seq          uint64
	Notification model.Notification
	Progress     float64
	Exiting      bool
}

type toastState struct {
	view View
	task *Task
}

type Presenter struct {
	store *feed.Store
	cfg   Config
	log   *zap.Logger
	now   func() time.Time

	mu          sync.Mutex
	running     bool
	version     uint64
	order       []uint64
	toasts      map[uint64]*toastState
	listeners   map[int]func()
	nextID      int
	unsubscribe func()
}

func NewPresenter(store *feed.Store, cfg Config, logger *zap.Logger) *Presenter {
	return &Presenter{
		store:     store,
		cfg:       cfg,
		log:       logger,
		now:       time.Now,
		toasts:    make(map[uint64]*toastState),
		listeners: make(map[int]func()),
	}
}

// Start subscribes to the store and creates toasts for entries already
// present.
func (p *Presenter) Start() {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	p.version = 0
	p.mu.Unlock()

	unsubscribe := p.store.Subscribe(p.sync)
	p.mu.Lock()
	p.unsubscribe = unsubscribe
	p.mu.Unlock()
	p.sync(p.store.Snapshot())
}

// Stop cancels every toast and detaches from the store.
func (p *Presenter) Stop() {
	p.mu.Lock()
	unsubscribe := p.unsubscribe
	p.unsubscribe = nil
	p.running = false
	tasks := make([]*Task, 0, len(p.toasts))
	for seq, st := range p.toasts {
		tasks = append(tasks, st.task)
		delete(p.toasts, seq)
	}
	p.order = nil
	p.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	for _, t := range tasks {
		t.Cancel()
	}
	p.notify()
}

// Dismiss starts the exit of the oldest active toast with the given id.
func (p *Presenter) Dismiss(id string) bool {
	p.mu.Lock()
	var target *toastState
	for _, seq := range p.order {
		st := p.toasts[seq]
		if st != nil && st.view.Notification.ID == id && !st.view.Exiting {
			target = st
			break
		}
	}
	p.mu.Unlock()
	if target == nil {
		return false
	}
	target.task.Expire()
	return true
}

// DismissEntry starts the exit of the toast for one store entry.
func (p *Presenter) DismissEntry(seq uint64) bool {
	p.mu.Lock()
	st := p.toasts[seq]
	active := st != nil && !st.view.Exiting
	p.mu.Unlock()
	if !active {
		return false
	}
	st.task.Expire()
	return true
}

// Toasts returns the current views in store order.
func (p *Presenter) Toasts() []View {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]View, 0, len(p.order))
	for _, seq := range p.order {
		if st, ok := p.toasts[seq]; ok {
			out = append(out, st.view)
		}
	}
	return out
}

// OnChange registers fn to run after any toast changes. Callbacks run on the
// presenter's goroutines and must not block.
func (p *Presenter) OnChange(fn func()) func() {
	p.mu.Lock()
	p.nextID++
	id := p.nextID
	p.listeners[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}
}

// sync reconciles toasts with a store snapshot: new entries start a task,
// entries gone from the store have theirs cancelled.
func (p *Presenter) sync(snap feed.Snapshot) {
	p.mu.Lock()
	// Start's initial snapshot can race with store callbacks.
	if !p.running || (p.version > 0 && snap.Version <= p.version) {
		p.mu.Unlock()
		return
	}
	p.version = snap.Version
	present := make(map[uint64]struct{}, len(snap.Entries))
	order := make([]uint64, 0, len(snap.Entries))
	changed := false
	for _, e := range snap.Entries {
		present[e.Seq] = struct{}{}
		order = append(order, e.Seq)
		if _, ok := p.toasts[e.Seq]; ok {
			continue
		}
		st := &toastState{view: View{Seq: e.Seq, Notification: e.Notification, Progress: 100}}
		st.task = newTask(p.cfg, p.hooks(e.Seq, st), p.now)
		p.toasts[e.Seq] = st
		changed = true
		p.log.Debug("toast shown", zap.String("id", e.Notification.ID), zap.Uint64("seq", e.Seq))
	}
	var gone []*Task
	for seq, st := range p.toasts {
		if _, ok := present[seq]; !ok {
			gone = append(gone, st.task)
			delete(p.toasts, seq)
			changed = true
		}
	}
	p.order = order
	p.mu.Unlock()

	for _, t := range gone {
		t.Cancel()
	}
	if changed {
		p.notify()
	}
}

func (p *Presenter) hooks(seq uint64, st *toastState) Hooks {
	return Hooks{
		Progress: func(progress float64) {
			if p.update(seq, st, func(v *View) { v.Progress = progress }) {
				p.notify()
			}
		},
		Exiting: func() {
			if p.update(seq, st, func(v *View) { v.Exiting = true }) {
				p.log.Debug("toast exiting", zap.Uint64("seq", seq))
				p.notify()
			}
		},
		Done: func() {
			p.store.RemoveEntry(seq)
		},
	}
}

// update applies fn if st is still the live toast for seq.
func (p *Presenter) update(seq uint64, st *toastState, fn func(*View)) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.toasts[seq] != st {
		return false
	}
	fn(&st.view)
	return true
}

func (p *Presenter) notify() {
	p.mu.Lock()
	fns := make([]func(), 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	p.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
