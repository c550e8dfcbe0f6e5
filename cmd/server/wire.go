//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"wallet_live/internal/app"
	"wallet_live/internal/config"
	"wallet_live/internal/http"
	"wallet_live/internal/http/controller"
	"wallet_live/internal/logging"
	"wallet_live/internal/metrics"
	"wallet_live/internal/queue/rabbitmq"
	"wallet_live/internal/service/notify"
	"wallet_live/internal/sse"
	"wallet_live/internal/store"
)

func InitializeApp(cfg *config.Config) (*app.App, error) {
	wire.Build(
		logging.New,
		provideRegistry,
		wire.Bind(new(prometheus.Registerer), new(*prometheus.Registry)),
		metrics.NewServer,
		provideTokenManager,
		provideUserRegistry,
		store.NewStore,
		sse.NewHub,
		notify.NewService,
		rabbitmq.NewConsumer,
		rabbitmq.NewPublisher,
		controller.NewHandler,
		controller.NewAuthHandler,
		controller.NewWalletHandler,
		http.NewHandlers,
		http.NewRouter,
		app.NewApp,
	)
	return &app.App{}, nil
}
