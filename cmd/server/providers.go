package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"wallet_live/internal/auth"
	"wallet_live/internal/config"
)

func provideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func provideTokenManager(cfg *config.Config) *auth.TokenManager {
	return auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
}

func provideUserRegistry(cfg *config.Config, logger *zap.Logger) *auth.Registry {
	return auth.NewRegistry(cfg.MaxLoginFailures, logger)
}
