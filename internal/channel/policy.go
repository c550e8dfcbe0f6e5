package channel

import (
	"time"

	"wallet_live/internal/config"
)

const (
	DefaultInitialDelay = time.Second
	DefaultMaxDelay     = 30 * time.Second
	DefaultMaxRetries   = 10
)

// Policy is the reconnect backoff ladder.
type Policy struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
	MaxRetries   int
}

func DefaultPolicy() Policy {
	return Policy{
		InitialDelay: DefaultInitialDelay,
		MaxDelay:     DefaultMaxDelay,
		MaxRetries:   DefaultMaxRetries,
	}
}

func PolicyFromConfig(cfg *config.Config) Policy {
	p := DefaultPolicy()
	if cfg.SSEInitialRetry > 0 {
		p.InitialDelay = cfg.SSEInitialRetry
	}
	if cfg.SSEMaxRetry > 0 {
		p.MaxDelay = cfg.SSEMaxRetry
	}
	if cfg.SSEMaxRetries > 0 {
		p.MaxRetries = cfg.SSEMaxRetries
	}
	return p
}

// Delay returns min(InitialDelay * 2^retryCount, MaxDelay).
func (p Policy) Delay(retryCount int) time.Duration {
	if retryCount < 0 {
		retryCount = 0
	}
	d := p.InitialDelay
	for i := 0; i < retryCount; i++ {
		if d >= p.MaxDelay {
			return p.MaxDelay
		}
		d *= 2
	}
	if d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}
