// Package client assembles the live notification pieces for one logged-in
// session.
package client

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"wallet_live/internal/channel"
	"wallet_live/internal/config"
	"wallet_live/internal/credential"
	"wallet_live/internal/feed"
	"wallet_live/internal/metrics"
	"wallet_live/internal/toast"
)

// Session owns a store, the connection manager feeding it and the toast
// presenter draining it. It is started once and closed on logout.
type Session struct {
	Store     *feed.Store
	Manager   *channel.Manager
	Presenter *toast.Presenter

	log     *zap.Logger
	mu      sync.Mutex
	started bool
	closed  bool
	cancel  context.CancelFunc
	runDone chan struct{}
}

func NewSession(cfg *config.Config, dialer channel.Dialer, tokens credential.Source, logger *zap.Logger, m *metrics.Channel) *Session {
	store := feed.New(feed.DefaultCapacity, logger.Named("feed"))
	return &Session{
		Store:     store,
		Manager:   channel.NewManager(channel.PolicyFromConfig(cfg), dialer, tokens, store, logger.Named("channel"), m),
		Presenter: toast.NewPresenter(store, toast.ConfigFrom(cfg), logger.Named("toast")),
		log:       logger,
		runDone:   make(chan struct{}),
	}
}

// Start runs the manager loop and opens the push channel if a credential is
// present.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.closed {
		return
	}
	s.started = true

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.Presenter.Start()
	go func() {
		defer close(s.runDone)
		s.Manager.Run(runCtx)
	}()
	s.Manager.Connect()
	s.log.Info("session started")
}

// Close disconnects, stops every toast and discards the store.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	started := s.started
	s.mu.Unlock()

	if started {
		s.Manager.Disconnect()
		s.cancel()
		<-s.runDone
	}
	s.Presenter.Stop()
	s.Store.Close()
	s.log.Info("session closed")
}
