package repository

import (
	"context"

	"wallet_live/internal/model"
)

type NotificationRepository interface {
	CreateNotification(ctx context.Context, msg model.PushMessage) (model.PushMessage, error)
	// ListNotifications returns, newest first, the messages addressed to
	// userID plus broadcasts (user id 0). limit <= 0 means no limit.
	ListNotifications(ctx context.Context, userID int64, limit int) ([]model.PushMessage, error)
}
