package model

import (
	"time"

	"wallet_live/internal/domain"
)

// Notification is one pushed event surfaced to the user.
type Notification struct {
	ID        string                  `json:"id"`
	Type      domain.NotificationType `json:"type"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	EventType string                  `json:"eventType"`
	// Timestamp is the client receipt time in epoch milliseconds.
	Timestamp int64 `json:"timestamp"`
}

// PushMessage is the payload of a `notification` frame on the push channel.
type PushMessage struct {
	ID               int64     `json:"-" db:"id"`
	UserID           int64     `json:"-" db:"user_id"`
	EventID          string    `json:"eventId" db:"event_id"`
	EventType        string    `json:"eventType" db:"event_type"`
	Title            string    `json:"title" db:"title"`
	Message          string    `json:"message" db:"message"`
	NotificationType string    `json:"notificationType" db:"notification_type"`
	OccurredAt       time.Time `json:"occurredAt" db:"occurred_at"`
}
