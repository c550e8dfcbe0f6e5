package dto

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type StatusResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CreateNotificationRequest pushes a notification directly, bypassing the
// wallet event pipeline. UserID 0 broadcasts to every open channel.
type CreateNotificationRequest struct {
	UserID           int64  `json:"userId"`
	EventID          string `json:"eventId"`
	EventType        string `json:"eventType"`
	NotificationType string `json:"notificationType"`
	Title            string `json:"title"`
	Message          string `json:"message"`
}

// PublishEventRequest is a simulated ledger outcome sent through RabbitMQ.
type PublishEventRequest struct {
	EventID     string     `json:"eventId"`
	EventType   string     `json:"eventType"`
	UserID      int64      `json:"userId"`
	Amount      int64      `json:"amount"`
	NewBalance  int64      `json:"newBalance"`
	Description string     `json:"description"`
	Reason      string     `json:"reason"`
	OccurredAt  *time.Time `json:"occurredAt"`
}

type ConnectedCountResponse struct {
	Count int `json:"count"`
}
