package channel

import (
	"time"

	"wallet_live/internal/domain"
)

type State int

const (
	StateOffline State = iota
	StateConnecting
	StateConnected
	StateReconnecting
)

func (s State) String() string {
	switch s {
	case StateOffline:
		return "offline"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	default:
		return "unknown"
	}
}

// Machine is the reconnect state: where the channel is and how many
// automatic retries have been spent since the last successful open.
type Machine struct {
	State      State
	RetryCount int
}

type EventKind int

const (
	// EventConnect starts a connection attempt; Reset also zeroes RetryCount.
	EventConnect EventKind = iota
	EventOpened
	EventFailed
	EventRetryFired
	EventDisconnect
)

type Event struct {
	Kind EventKind
	// HasToken is set for EventConnect and EventRetryFired.
	HasToken bool
	Reset    bool
}

type EffectKind int

const (
	EffectOpen EffectKind = iota
	EffectClose
	EffectScheduleRetry
	EffectCancelRetry
	EffectSetStatus
)

type Effect struct {
	Kind    EffectKind
	Delay   time.Duration
	Attempt int
	Status  domain.ConnectionStatus
}

func setStatus(s domain.ConnectionStatus) Effect {
	return Effect{Kind: EffectSetStatus, Status: s}
}

// Transition is the pure reconnect state machine. Events that do not apply
// to the current state leave it unchanged and produce no effects.
func (p Policy) Transition(m Machine, ev Event) (Machine, []Effect) {
	switch ev.Kind {
	case EventConnect:
		// Leaving offline always starts a fresh budget, including after the
		// budget ran out.
		if ev.Reset || m.State == StateOffline {
			m.RetryCount = 0
		}
		if !ev.HasToken {
			m.State = StateOffline
			return m, []Effect{
				{Kind: EffectCancelRetry},
				{Kind: EffectClose},
				setStatus(domain.StatusOffline),
			}
		}
		m.State = StateConnecting
		return m, []Effect{
			{Kind: EffectCancelRetry},
			{Kind: EffectClose},
			{Kind: EffectOpen},
		}

	case EventOpened:
		if m.State != StateConnecting {
			return m, nil
		}
		m.State = StateConnected
		m.RetryCount = 0
		return m, []Effect{setStatus(domain.StatusConnected)}

	case EventFailed:
		if m.State != StateConnecting && m.State != StateConnected {
			return m, nil
		}
		if m.RetryCount < p.MaxRetries {
			m.State = StateReconnecting
			return m, []Effect{
				{Kind: EffectClose},
				setStatus(domain.StatusReconnecting),
				{Kind: EffectScheduleRetry, Delay: p.Delay(m.RetryCount), Attempt: m.RetryCount + 1},
			}
		}
		m.State = StateOffline
		return m, []Effect{
			{Kind: EffectClose},
			setStatus(domain.StatusOffline),
		}

	case EventRetryFired:
		if m.State != StateReconnecting {
			return m, nil
		}
		if !ev.HasToken {
			m.State = StateOffline
			return m, []Effect{setStatus(domain.StatusOffline)}
		}
		m.RetryCount++
		m.State = StateConnecting
		return m, []Effect{{Kind: EffectOpen}}

	case EventDisconnect:
		m.State = StateOffline
		m.RetryCount = 0
		return m, []Effect{
			{Kind: EffectCancelRetry},
			{Kind: EffectClose},
			setStatus(domain.StatusOffline),
		}
	}
	return m, nil
}
