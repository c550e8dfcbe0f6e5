package rabbitmq

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"wallet_live/internal/config"
	"wallet_live/internal/model"
	"wallet_live/internal/queue"
)

type noopPublisher struct {
	logger *zap.Logger
}

func (n *noopPublisher) PublishWalletEvent(_ context.Context, ev model.WalletEvent) error {
	n.logger.Debug("rabbitmq disabled, wallet event dropped",
		zap.String("event_id", ev.EventID),
		zap.String("event_type", ev.EventType),
	)
	return nil
}

// Publisher sends wallet events to a topic exchange, one connection per
// publish.
type Publisher struct {
	url      string
	logger   *zap.Logger
	exchange string
	prefix   string
}

func NewPublisher(cfg *config.Config, logger *zap.Logger) queue.Publisher {
	if cfg.RabbitMQURL == "" {
		return &noopPublisher{logger: logger}
	}
	return &Publisher{url: cfg.RabbitMQURL, logger: logger, exchange: cfg.RabbitExchange, prefix: cfg.RabbitPublishPrefix}
}

func (p *Publisher) PublishWalletEvent(ctx context.Context, ev model.WalletEvent) error {
	routingKey := queue.RoutingKey(p.prefix, ev.EventType)
	payload, err := sonic.ConfigStd.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode wallet event: %w", err)
	}

	ctx, span := otel.Tracer("rabbitmq").Start(ctx, "rabbitmq.publish", trace.WithSpanKind(trace.SpanKindProducer))
	span.SetAttributes(
		attribute.String("messaging.system", "rabbitmq"),
		attribute.String("messaging.destination", p.exchange),
		attribute.String("messaging.rabbitmq.routing_key", routingKey),
		attribute.String("wallet.event_id", ev.EventID),
	)
	defer span.End()

	conn, err := amqp.Dial(p.url)
	if err != nil {
		span.SetStatus(codes.Error, "dial failed")
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		span.SetStatus(codes.Error, "channel failed")
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		span.SetStatus(codes.Error, "exchange declare failed")
		return fmt.Errorf("rabbitmq exchange declare: %w", err)
	}

	headers := amqp.Table{}
	otel.GetTextMapPropagator().Inject(ctx, amqpHeaderCarrier(headers))

	if err := ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.EventID,
		Timestamp:    ev.OccurredAt,
		Headers:      headers,
		Body:         payload,
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "publish failed")
		p.logger.Error("rabbitmq publish failed", zap.String("routing_key", routingKey), zap.Error(err))
		return err
	}
	return nil
}
