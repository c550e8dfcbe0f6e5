package queue

import (
	"testing"

	"github.com/stretchr/testify/require"
	"wallet_live/internal/domain"
)

func TestRoutingKey(t *testing.T) {
	require.Equal(t, "wallet.charge_completed", RoutingKey("wallet", domain.EventTypeChargeCompleted))
	require.Equal(t, "wallet.reversal_completed", RoutingKey("", domain.EventTypeReversalCompleted))
	require.Equal(t, "ledger.spend_completed", RoutingKey("ledger", domain.EventTypeSpendCompleted))
}
