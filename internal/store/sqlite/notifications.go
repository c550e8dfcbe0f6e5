// Package sqlite keeps notification history in a local SQLite file for
// single-node emulator runs.
package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
	"wallet_live/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS notifications (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL DEFAULT 0,
	event_id TEXT NOT NULL,
	event_type TEXT NOT NULL,
	notification_type TEXT NOT NULL,
	title TEXT NOT NULL,
	message TEXT NOT NULL,
	occurred_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_notifications_user_id ON notifications (user_id, id);
`

type row struct {
	ID               int64  `db:"id"`
	UserID           int64  `db:"user_id"`
	EventID          string `db:"event_id"`
	EventType        string `db:"event_type"`
	NotificationType string `db:"notification_type"`
	Title            string `db:"title"`
	Message          string `db:"message"`
	OccurredAt       int64  `db:"occurred_at"`
}

type Store struct {
	db  *sqlx.DB
	log *zap.Logger
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string, logger *zap.Logger) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	// A single writer keeps modernc from returning SQLITE_BUSY.
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &Store{db: conn, log: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) CreateNotification(ctx context.Context, msg model.PushMessage) (model.PushMessage, error) {
	if msg.OccurredAt.IsZero() {
		msg.OccurredAt = time.Now().UTC()
	}
	r := row{
		UserID:           msg.UserID,
		EventID:          msg.EventID,
		EventType:        msg.EventType,
		NotificationType: msg.NotificationType,
		Title:            msg.Title,
		Message:          msg.Message,
		OccurredAt:       msg.OccurredAt.UnixNano(),
	}
	result, err := s.db.NamedExecContext(ctx, `
		INSERT INTO notifications (user_id, event_id, event_type, notification_type, title, message, occurred_at)
		VALUES (:user_id, :event_id, :event_type, :notification_type, :title, :message, :occurred_at)`, r)
	if err != nil {
		s.log.Error("sqlite create notification failed",
			zap.Int64("user_id", msg.UserID),
			zap.String("event_id", msg.EventID),
			zap.Error(err),
		)
		return model.PushMessage{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		s.log.Error("sqlite last insert id failed", zap.Error(err))
		return model.PushMessage{}, err
	}
	msg.ID = id
	return msg, nil
}

func (s *Store) ListNotifications(ctx context.Context, userID int64, limit int) ([]model.PushMessage, error) {
	if limit <= 0 {
		limit = -1
	}
	var rows []row
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, event_id, event_type, notification_type, title, message, occurred_at
		FROM notifications
		WHERE user_id = ? OR user_id = 0
		ORDER BY id DESC
		LIMIT ?`, userID, limit)
	if err != nil {
		s.log.Error("sqlite list notifications failed", zap.Int64("user_id", userID), zap.Int("limit", limit), zap.Error(err))
		return nil, err
	}

	result := make([]model.PushMessage, 0, len(rows))
	for _, r := range rows {
		result = append(result, model.PushMessage{
			ID:               r.ID,
			UserID:           r.UserID,
			EventID:          r.EventID,
			EventType:        r.EventType,
			NotificationType: r.NotificationType,
			Title:            r.Title,
			Message:          r.Message,
			OccurredAt:       time.Unix(0, r.OccurredAt).UTC(),
		})
	}
	return result, nil
}
