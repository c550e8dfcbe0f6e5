package memory

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"wallet_live/internal/model"
)

type Store struct {
	mu      sync.Mutex
	nextID  int64
	records []model.PushMessage
	log     *zap.Logger
}

func New(logger *zap.Logger) *Store {
	return &Store{nextID: 1, log: logger}
}

func (s *Store) CreateNotification(_ context.Context, msg model.PushMessage) (model.PushMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg.ID = s.nextID
	s.nextID++
	if msg.OccurredAt.IsZero() {
		msg.OccurredAt = time.Now().UTC()
	}
	s.records = append(s.records, msg)
	return msg, nil
}

func (s *Store) ListNotifications(_ context.Context, userID int64, limit int) ([]model.PushMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []model.PushMessage
	for i := len(s.records) - 1; i >= 0; i-- {
		record := s.records[i]
		if record.UserID != userID && record.UserID != 0 {
			continue
		}
		result = append(result, record)
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}
