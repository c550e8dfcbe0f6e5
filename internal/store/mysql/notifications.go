package mysql

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"
	"wallet_live/internal/db"
	"wallet_live/internal/model"
)

type Store struct {
	queries *db.Queries
	log     *zap.Logger
}

func New(queries *db.Queries, logger *zap.Logger) *Store {
	return &Store{queries: queries, log: logger}
}

func (s *Store) CreateNotification(ctx context.Context, msg model.PushMessage) (model.PushMessage, error) {
	if msg.OccurredAt.IsZero() {
		msg.OccurredAt = time.Now().UTC()
	}
	result, err := s.queries.CreateNotification(ctx, db.CreateNotificationParams{
		UserID:           msg.UserID,
		EventID:          msg.EventID,
		EventType:        msg.EventType,
		NotificationType: msg.NotificationType,
		Title:            msg.Title,
		Message:          msg.Message,
		OccurredAt:       msg.OccurredAt,
	})
	if err != nil {
		s.log.Error("sql create notification failed",
			zap.Int64("user_id", msg.UserID),
			zap.String("event_id", msg.EventID),
			zap.String("notification_type", msg.NotificationType),
			zap.Error(err),
		)
		return model.PushMessage{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		s.log.Error("sql last insert id failed", zap.Error(err))
		return model.PushMessage{}, err
	}
	msg.ID = id
	return msg, nil
}

func (s *Store) ListNotifications(ctx context.Context, userID int64, limit int) ([]model.PushMessage, error) {
	rowLimit := int32(math.MaxInt32)
	if limit > 0 && limit < math.MaxInt32 {
		rowLimit = int32(limit)
	}
	rows, err := s.queries.ListNotificationsByUser(ctx, db.ListNotificationsByUserParams{
		UserID: userID,
		Limit:  rowLimit,
	})
	if err != nil {
		s.log.Error("sql list notifications failed", zap.Int64("user_id", userID), zap.Int("limit", limit), zap.Error(err))
		return nil, err
	}

	result := make([]model.PushMessage, 0, len(rows))
	for _, row := range rows {
		result = append(result, model.PushMessage{
			ID:               row.ID,
			UserID:           row.UserID,
			EventID:          row.EventID,
			EventType:        row.EventType,
			NotificationType: row.NotificationType,
			Title:            row.Title,
			Message:          row.Message,
			OccurredAt:       row.OccurredAt,
		})
	}
	return result, nil
}
