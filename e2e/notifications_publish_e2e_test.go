//go:build integration

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"wallet_live/internal/domain"
	"wallet_live/internal/model"
	"wallet_live/internal/queue/rabbitmq"
)

func TestPublishFlow(t *testing.T) {
	ctx := context.Background()
	amqpURL := startBroker(t, ctx)

	cfg := emulatorConfig()
	cfg.RabbitMQURL = amqpURL
	cfg.RabbitExchange = "wallet.events"
	cfg.RabbitQueue = "wallet.events.notifications"
	cfg.RabbitRoutingKey = "wallet.*"
	cfg.RabbitConsumerTag = "notification-consumer"

	logger := zap.NewNop()
	e := startEmulator(t, cfg, rabbitmq.NewPublisher(cfg, logger))
	consumer := rabbitmq.NewConsumer(cfg, e.svc, logger)

	consumeCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	errCh := make(chan error, 1)
	go func() {
		errCh <- consumer.Start(consumeCtx)
	}()
	require.Eventually(t, func() bool { return consumerAttached(amqpURL, cfg.RabbitQueue) }, 5*time.Second, 200*time.Millisecond)

	tokens, userID := login(t, e, "frank")
	token, err := tokens.Token()
	require.NoError(t, err)

	sseResp, err := http.Get(e.server.URL + "/api/notifications/stream?limit=0&token=" + url.QueryEscape(token))
	require.NoError(t, err)
	defer sseResp.Body.Close()
	require.Equal(t, http.StatusOK, sseResp.StatusCode)
	reader := bufioReader(sseResp)
	_, err = readSSEDataFrom(reader, 2*time.Second)
	require.NoError(t, err)

	body, err := json.Marshal(map[string]any{
		"eventType":   domain.EventTypeSpendCompleted,
		"userId":      userID,
		"amount":      -4500,
		"newBalance":  55500,
		"description": "커피",
	})
	require.NoError(t, err)

	postResp, err := http.Post(e.server.URL+"/api/notifications/publish", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer postResp.Body.Close()
	require.Equal(t, http.StatusAccepted, postResp.StatusCode)

	data, err := readSSEDataFrom(reader, 5*time.Second)
	require.NoError(t, err)
	var got model.PushMessage
	require.NoError(t, json.Unmarshal([]byte(data), &got))
	require.Equal(t, "사용 완료", got.Title)
	require.Equal(t, "커피 - ₩4,500 사용 완료. 현재 잔액: ₩55,500", got.Message)

	cancel()
	select {
	case <-time.After(3 * time.Second):
		t.Fatalf("consumer did not stop")
	case <-errCh:
	}
}

// consumerAttached reports whether queue has at least one consumer.
func consumerAttached(amqpURL, queue string) bool {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return false
	}
	defer conn.Close()
	ch, err := conn.Channel()
	if err != nil {
		return false
	}
	defer ch.Close()
	q, err := ch.QueueInspect(queue)
	return err == nil && q.Consumers > 0
}

func startBroker(t *testing.T, ctx context.Context) string {
	t.Helper()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "rabbitmq:3.12-alpine",
			ExposedPorts: []string{"5672/tcp"},
			Env:          map[string]string{"RABBITMQ_DEFAULT_USER": "wallet", "RABBITMQ_DEFAULT_PASS": "wallet"},
			WaitingFor:   wait.ForLog("Server startup complete").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5672/tcp")
	require.NoError(t, err)
	return fmt.Sprintf("amqp://wallet:wallet@%s:%s/", host, port.Port())
}
