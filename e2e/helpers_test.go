package e2e

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"wallet_live/internal/api"
	"wallet_live/internal/auth"
	"wallet_live/internal/config"
	"wallet_live/internal/credential"
	httpserver "wallet_live/internal/http"
	"wallet_live/internal/http/controller"
	"wallet_live/internal/metrics"
	"wallet_live/internal/model"
	"wallet_live/internal/queue"
	"wallet_live/internal/service/notify"
	"wallet_live/internal/sse"
	"wallet_live/internal/store/memory"
)

type noopPublisher struct{}

func (n *noopPublisher) PublishWalletEvent(context.Context, model.WalletEvent) error {
	return nil
}

type emulator struct {
	server *httptest.Server
	hub    *sse.Hub
	svc    *notify.Service
	tokens *auth.TokenManager
}

func emulatorConfig() *config.Config {
	return &config.Config{
		HTTPAddr:            ":0",
		SSEPath:             "/api/notifications/stream",
		SSEHeartbeat:        5 * time.Second,
		SSEInitialRetry:     10 * time.Millisecond,
		SSEMaxRetry:         40 * time.Millisecond,
		SSEMaxRetries:       10,
		ToastTimeout:        time.Hour,
		ToastTick:           10 * time.Millisecond,
		ToastExitGrace:      time.Millisecond,
		JWTSecret:           "e2e-secret",
		JWTTTL:              time.Hour,
		MaxLoginFailures:    5,
		RabbitPublishPrefix: "wallet",
		OTELServiceName:     "wallet-live-e2e",
	}
}

// startEmulator serves the full router with an in-memory history.
func startEmulator(t *testing.T, cfg *config.Config, publisher queue.Publisher) *emulator {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	reg := prometheus.NewRegistry()
	m := metrics.NewServer(reg)
	hub := sse.NewHub(m)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	svc := notify.NewService(memory.New(logger), hub, logger, m)
	handlers := httpserver.NewHandlers(
		controller.NewHandler(cfg, svc, hub, tokens, logger, publisher),
		controller.NewAuthHandler(cfg, auth.NewRegistry(cfg.MaxLoginFailures, logger), tokens, logger, m),
		controller.NewWalletHandler(logger),
	)
	router := httpserver.NewRouter(cfg, handlers, tokens, reg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	server := httptest.NewServer(router)
	t.Cleanup(func() {
		server.CloseClientConnections()
		server.Close()
		cancel()
	})
	return &emulator{server: server, hub: hub, svc: svc, tokens: tokens}
}

// login signs up and logs in a fresh user, returning the token store the
// client uses afterwards.
func login(t *testing.T, e *emulator, username string) (*credential.Memory, int64) {
	t.Helper()
	ctx := context.Background()
	tokens := credential.NewMemory("")
	client := api.NewAuthClient(e.server.URL, tokens, zap.NewNop())

	_, err := client.Signup(ctx, api.SignupRequest{Username: username, Password: "password1"})
	require.NoError(t, err)
	resp, err := client.Login(ctx, api.LoginRequest{Username: username, Password: "password1"})
	require.NoError(t, err)
	return tokens, resp.User.ID
}

func bufioReader(resp *http.Response) *bufio.Reader {
	return bufio.NewReader(resp.Body)
}

func readSSEDataFrom(reader *bufio.Reader, timeout time.Duration) (string, error) {
	type result struct {
		data string
		err  error
	}
	ch := make(chan result, 1)

	go func() {
		var dataLines []string
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				ch <- result{"", err}
				return
			}
			line = strings.TrimRight(line, "\r\n")
			if line == "" {
				if len(dataLines) > 0 {
					ch <- result{strings.Join(dataLines, "\n"), nil}
					return
				}
				continue
			}
			if strings.HasPrefix(line, ":") {
				continue
			}
			if strings.HasPrefix(line, "data:") {
				dataLines = append(dataLines, strings.TrimSpace(strings.TrimPrefix(line, "data:")))
			}
		}
	}()

	select {
	case res := <-ch:
		return res.data, res.err
	case <-time.After(timeout):
		return "", context.DeadlineExceeded
	}
}
