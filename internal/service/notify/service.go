package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"wallet_live/internal/domain"
	"wallet_live/internal/metrics"
	"wallet_live/internal/model"
	"wallet_live/internal/repository"
	"wallet_live/internal/sse"
)

type Service struct {
	store   repository.NotificationRepository
	hub     *sse.Hub
	log     *zap.Logger
	metrics *metrics.Server
	now     func() time.Time
}

func NewService(store repository.NotificationRepository, hub *sse.Hub, logger *zap.Logger, m *metrics.Server) *Service {
	return &Service{store: store, hub: hub, log: logger, metrics: m, now: time.Now}
}

// Create stores msg and pushes it to its user. Missing event ids, titles and
// timestamps are filled in.
func (s *Service) Create(ctx context.Context, msg model.PushMessage) (model.PushMessage, error) {
	if !domain.IsValidNotificationType(msg.NotificationType) {
		return model.PushMessage{}, domain.ErrInvalidNotificationType
	}
	if msg.EventID == "" {
		msg.EventID = uuid.NewString()
	}
	if msg.Title == "" {
		msg.Title = domain.DefaultNotificationTitle
	}
	if msg.EventType == "" {
		msg.EventType = domain.EventTypeUnknown
	}
	if msg.OccurredAt.IsZero() {
		msg.OccurredAt = s.now().UTC()
	}

	created, err := s.store.CreateNotification(ctx, msg)
	if err != nil {
		s.log.Error("store create notification failed",
			zap.Int64("user_id", msg.UserID),
			zap.String("event_id", msg.EventID),
			zap.String("notification_type", msg.NotificationType),
			zap.Error(err),
		)
		return model.PushMessage{}, err
	}
	s.hub.Broadcast(created)
	if s.metrics != nil {
		s.metrics.Published.WithLabelValues(created.NotificationType).Inc()
	}
	return created, nil
}

// HandleWalletEvent turns a ledger outcome into a user notification.
func (s *Service) HandleWalletEvent(ctx context.Context, ev model.WalletEvent) (model.PushMessage, error) {
	msg, err := FromWalletEvent(ev)
	if err != nil {
		return model.PushMessage{}, err
	}
	return s.Create(ctx, msg)
}

func (s *Service) ListHistory(ctx context.Context, userID int64, limit int) ([]model.PushMessage, error) {
	history, err := s.store.ListNotifications(ctx, userID, limit)
	if err != nil {
		s.log.Error("store list notifications failed", zap.Int64("user_id", userID), zap.Int("limit", limit), zap.Error(err))
		return nil, err
	}
	return history, nil
}

func (s *Service) ConnectedCount() int {
	return s.hub.ConnectedCount()
}

// FromWalletEvent renders the notification text of a wallet event.
func FromWalletEvent(ev model.WalletEvent) (model.PushMessage, error) {
	msg := model.PushMessage{
		UserID:     ev.UserID,
		EventID:    ev.EventID,
		EventType:  ev.EventType,
		OccurredAt: ev.OccurredAt,
	}
	balance := won(ev.NewBalance)

	switch ev.EventType {
	case domain.EventTypeChargeCompleted:
		msg.Title = "충전 완료"
		msg.NotificationType = string(domain.NotificationTypeSuccess)
		msg.Message = fmt.Sprintf("%s가 충전되었습니다. 현재 잔액: %s", won(ev.Amount), balance)
	case domain.EventTypeSpendCompleted:
		msg.Title = "사용 완료"
		msg.NotificationType = string(domain.NotificationTypeInfo)
		amount := won(abs(ev.Amount))
		if ev.Description != "" {
			msg.Message = fmt.Sprintf("%s - %s 사용 완료. 현재 잔액: %s", ev.Description, amount, balance)
		} else {
			msg.Message = fmt.Sprintf("%s 사용 완료. 현재 잔액: %s", amount, balance)
		}
	case domain.EventTypeReversalCompleted:
		msg.Title = "취소 완료"
		msg.NotificationType = string(domain.NotificationTypeInfo)
		amount := won(ev.Amount)
		if ev.Reason != "" {
			msg.Message = fmt.Sprintf("취소 완료 (%s): %s 반환. 현재 잔액: %s", ev.Reason, amount, balance)
		} else {
			msg.Message = fmt.Sprintf("취소 완료: %s 반환. 현재 잔액: %s", amount, balance)
		}
	default:
		return model.PushMessage{}, fmt.Errorf("%w: %q", domain.ErrInvalidEventType, ev.EventType)
	}
	return msg, nil
}

func won(amount int64) string {
	return "₩" + humanize.Comma(amount)
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
