package model

import "time"

// WalletEvent is a ledger outcome published on the wallet event exchange.
type WalletEvent struct {
	EventID     string    `json:"eventId"`
	EventType   string    `json:"eventType"`
	UserID      int64     `json:"userId"`
	Amount      int64     `json:"amount"`
	NewBalance  int64     `json:"newBalance"`
	Description string    `json:"description,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
}
