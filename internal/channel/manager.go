// Package channel keeps one live push subscription per session and recovers
// it with exponential backoff. Only the coarse connection status leaves the
// package; transport and payload failures are absorbed here.
package channel

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hako/durafmt"
	"go.uber.org/zap"
	"wallet_live/internal/credential"
	"wallet_live/internal/feed"
	"wallet_live/internal/metrics"
	"wallet_live/internal/sse"
)

type Dialer interface {
	Dial(ctx context.Context, token string) (sse.Stream, error)
}

type loopKind int

const (
	loopCommand loopKind = iota
	loopOpened
	loopFrame
	loopFailed
	loopRetry
)

type loopEvent struct {
	kind   loopKind
	cmd    Event
	gen    uint64
	seq    uint64
	stream sse.Stream
	frame  sse.Event
	err    error
	ack    chan struct{}
}

type Manager struct {
	policy  Policy
	dialer  Dialer
	tokens  credential.Source
	store   *feed.Store
	log     *zap.Logger
	metrics *metrics.Channel
	now     func() time.Time

	events  chan loopEvent
	stopped chan struct{}
	runOnce sync.Once

	// Owned by the run loop.
	machine      Machine
	token        string
	gen          uint64
	stream       sse.Stream
	cancelStream context.CancelFunc
	retryTimer   *time.Timer
	retrySeq     uint64
	ctx          context.Context

	snapMu sync.RWMutex
	snap   Machine
}

func NewManager(policy Policy, dialer Dialer, tokens credential.Source, store *feed.Store, logger *zap.Logger, m *metrics.Channel) *Manager {
	return &Manager{
		policy:  policy,
		dialer:  dialer,
		tokens:  tokens,
		store:   store,
		log:     logger,
		metrics: m,
		now:     time.Now,
		events:  make(chan loopEvent, 64),
		stopped: make(chan struct{}),
	}
}

// Run processes connection events until ctx is cancelled. Open channels and
// pending retries are torn down on return. Commands issued before Run starts
// are queued.
func (m *Manager) Run(ctx context.Context) {
	started := false
	m.runOnce.Do(func() { started = true })
	if !started {
		return
	}
	m.ctx = ctx
	defer close(m.stopped)
	defer m.teardown()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-m.events:
			m.handle(ev)
			if ev.ack != nil {
				close(ev.ack)
			}
		}
	}
}

// Connect starts a connection attempt with the current credential. Without
// a credential the manager stays offline.
func (m *Manager) Connect() {
	m.command(Event{Kind: EventConnect}, false)
}

// Reconnect restarts the channel from scratch with a fresh retry budget.
func (m *Manager) Reconnect() {
	m.command(Event{Kind: EventConnect, Reset: true}, false)
}

// Disconnect closes the channel and cancels any pending retry. It returns
// once the loop has applied the change.
func (m *Manager) Disconnect() {
	m.command(Event{Kind: EventDisconnect}, true)
}

// Snapshot returns the state machine as of the last processed event.
func (m *Manager) Snapshot() Machine {
	m.snapMu.RLock()
	defer m.snapMu.RUnlock()
	return m.snap
}

func (m *Manager) command(ev Event, wait bool) {
	le := loopEvent{kind: loopCommand, cmd: ev}
	if wait {
		le.ack = make(chan struct{})
	}
	if !m.post(le) {
		return
	}
	if wait {
		select {
		case <-le.ack:
		case <-m.stopped:
		}
	}
}

func (m *Manager) post(ev loopEvent) bool {
	select {
	case m.events <- ev:
		return true
	case <-m.stopped:
		return false
	}
}

func (m *Manager) handle(ev loopEvent) {
	switch ev.kind {
	case loopCommand:
		cmd := ev.cmd
		if cmd.Kind == EventConnect {
			cmd.HasToken = m.loadToken()
		}
		m.apply(cmd)

	case loopOpened:
		if ev.gen != m.gen {
			_ = ev.stream.Close()
			return
		}
		m.stream = ev.stream
		m.log.Info("push channel connected")
		m.apply(Event{Kind: EventOpened})

	case loopFrame:
		if ev.gen != m.gen || m.machine.State != StateConnected {
			return
		}
		m.deliver(ev.frame)

	case loopFailed:
		if ev.gen != m.gen {
			return
		}
		m.metrics.ObserveFailure()
		m.log.Warn("push channel error", zap.Error(ev.err), zap.String("state", m.machine.State.String()))
		m.apply(Event{Kind: EventFailed})

	case loopRetry:
		if ev.seq != m.retrySeq || m.retryTimer == nil {
			return
		}
		m.retryTimer = nil
		m.apply(Event{Kind: EventRetryFired, HasToken: m.loadToken()})
	}
}

func (m *Manager) apply(ev Event) {
	next, effects := m.policy.Transition(m.machine, ev)
	m.machine = next
	m.snapMu.Lock()
	m.snap = next
	m.snapMu.Unlock()

	for _, eff := range effects {
		switch eff.Kind {
		case EffectOpen:
			m.open()
		case EffectClose:
			m.closeStream()
		case EffectCancelRetry:
			m.cancelRetry()
		case EffectScheduleRetry:
			m.scheduleRetry(eff.Delay, eff.Attempt)
		case EffectSetStatus:
			m.store.SetConnectionStatus(eff.Status)
			if ev.Kind == EventFailed && next.State == StateOffline {
				m.log.Error("push channel retries exhausted", zap.Int("max_retries", m.policy.MaxRetries))
			}
		}
	}
}

func (m *Manager) loadToken() bool {
	token, err := m.tokens.Token()
	if err != nil {
		if !errors.Is(err, credential.ErrNotFound) {
			m.log.Error("credential lookup failed", zap.Error(err))
		} else {
			m.log.Info("no credential available, push channel stays offline")
		}
		m.token = ""
		return false
	}
	m.token = token
	return token != ""
}

func (m *Manager) open() {
	m.closeStream()
	m.gen++
	gen := m.gen
	token := m.token
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancelStream = cancel
	m.metrics.ObserveAttempt()
	m.log.Debug("push channel connecting", zap.Int("retry_count", m.machine.RetryCount))

	go func() {
		stream, err := m.dialer.Dial(ctx, token)
		if err != nil {
			m.post(loopEvent{kind: loopFailed, gen: gen, err: err})
			return
		}
		if !m.post(loopEvent{kind: loopOpened, gen: gen, stream: stream}) {
			_ = stream.Close()
			return
		}
		for {
			frame, err := stream.Next()
			if err != nil {
				if ctx.Err() == nil {
					m.post(loopEvent{kind: loopFailed, gen: gen, err: err})
				}
				return
			}
			if !m.post(loopEvent{kind: loopFrame, gen: gen, frame: frame}) {
				return
			}
		}
	}()
}

func (m *Manager) closeStream() {
	if m.cancelStream == nil && m.stream == nil {
		return
	}
	if m.cancelStream != nil {
		m.cancelStream()
		m.cancelStream = nil
	}
	if m.stream != nil {
		_ = m.stream.Close()
		m.stream = nil
	}
	// Fence late events from the closed connection.
	m.gen++
}

func (m *Manager) scheduleRetry(delay time.Duration, attempt int) {
	m.cancelRetry()
	seq := m.retrySeq
	m.log.Warn("push channel reconnect scheduled",
		zap.String("delay", durafmt.Parse(delay).String()),
		zap.Int("attempt", attempt),
		zap.Int("max_retries", m.policy.MaxRetries),
	)
	m.retryTimer = time.AfterFunc(delay, func() {
		m.post(loopEvent{kind: loopRetry, seq: seq})
	})
}

func (m *Manager) cancelRetry() {
	if m.retryTimer != nil {
		m.retryTimer.Stop()
		m.retryTimer = nil
	}
	m.retrySeq++
}

func (m *Manager) deliver(frame sse.Event) {
	n, reason, ok, err := Decode(frame, m.now())
	if err != nil {
		m.metrics.ObservePayloadError()
		m.log.Error("push payload discarded", zap.String("event", frame.Name), zap.Error(err))
		return
	}
	if !ok {
		m.metrics.ObserveDiscard(reason)
		return
	}
	m.metrics.ObserveNotification()
	m.log.Debug("notification received",
		zap.String("id", n.ID),
		zap.String("type", string(n.Type)),
		zap.String("event_type", n.EventType),
	)
	m.store.Add(n)
}

func (m *Manager) teardown() {
	m.cancelRetry()
	m.closeStream()
	m.log.Info("push channel manager stopped")
}
