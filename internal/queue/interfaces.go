package queue

import (
	"context"
	"strings"

	"wallet_live/internal/model"
)

type Consumer interface {
	Start(ctx context.Context) error
}

// Publisher emits wallet ledger events onto the events exchange.
type Publisher interface {
	PublishWalletEvent(ctx context.Context, ev model.WalletEvent) error
}

// RoutingKey is "<prefix>.<event type in lower case>", e.g.
// wallet.charge_completed. An empty prefix falls back to "wallet".
func RoutingKey(prefix, eventType string) string {
	if prefix == "" {
		prefix = "wallet"
	}
	return prefix + "." + strings.ToLower(eventType)
}
