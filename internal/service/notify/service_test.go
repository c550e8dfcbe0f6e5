package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"wallet_live/internal/domain"
	"wallet_live/internal/metrics"
	"wallet_live/internal/model"
	"wallet_live/internal/sse"
)

type repoMock struct {
	mock.Mock
}

func (m *repoMock) CreateNotification(ctx context.Context, msg model.PushMessage) (model.PushMessage, error) {
	args := m.Called(ctx, msg)
	return args.Get(0).(model.PushMessage), args.Error(1)
}

func (m *repoMock) ListNotifications(ctx context.Context, userID int64, limit int) ([]model.PushMessage, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]model.PushMessage), args.Error(1)
}

func TestServiceCreate(t *testing.T) {
	t.Run("invalid type", func(t *testing.T) {
		repo := &repoMock{}
		svc := NewService(repo, sse.NewHub(nil), zap.NewNop(), nil)

		_, err := svc.Create(context.Background(), model.PushMessage{
			UserID:           1,
			NotificationType: "warning",
			Message:          "body",
		})
		require.ErrorIs(t, err, domain.ErrInvalidNotificationType)
		repo.AssertNotCalled(t, "CreateNotification", mock.Anything, mock.Anything)
	})

	t.Run("store error", func(t *testing.T) {
		storeErr := errors.New("store failed")
		repo := &repoMock{}
		repo.On("CreateNotification", mock.Anything, mock.Anything).Return(model.PushMessage{}, storeErr).Once()
		svc := NewService(repo, sse.NewHub(nil), zap.NewNop(), nil)

		_, err := svc.Create(context.Background(), model.PushMessage{
			UserID:           1,
			NotificationType: string(domain.NotificationTypeInfo),
			Message:          "body",
		})
		require.ErrorIs(t, err, storeErr)
		repo.AssertExpectations(t)
	})

	t.Run("fills defaults", func(t *testing.T) {
		repo := &repoMock{}
		repo.On("CreateNotification", mock.Anything, mock.MatchedBy(func(msg model.PushMessage) bool {
			return msg.EventID != "" &&
				msg.Title == domain.DefaultNotificationTitle &&
				msg.EventType == domain.EventTypeUnknown &&
				!msg.OccurredAt.IsZero()
		})).Return(model.PushMessage{ID: 1}, nil).Once()
		svc := NewService(repo, sse.NewHub(nil), zap.NewNop(), nil)

		_, err := svc.Create(context.Background(), model.PushMessage{
			NotificationType: string(domain.NotificationTypeInfo),
			Message:          "body",
		})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("broadcasts", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		m := metrics.NewServer(prometheus.NewRegistry())
		hub := sse.NewHub(m)
		go hub.Run(ctx)

		sub := sse.NewSubscriber(7)
		hub.Register(sub)
		defer hub.Unregister(sub)

		repo := &repoMock{}
		repo.On("CreateNotification", mock.Anything, mock.Anything).Return(model.PushMessage{
			ID:               42,
			UserID:           7,
			EventID:          "e1",
			NotificationType: string(domain.NotificationTypeSuccess),
			Title:            "충전 완료",
			Message:          "50000P",
		}, nil).Once()
		svc := NewService(repo, hub, zap.NewNop(), m)

		created, err := svc.Create(context.Background(), model.PushMessage{
			UserID:           7,
			EventID:          "e1",
			NotificationType: string(domain.NotificationTypeSuccess),
			Title:            "충전 완료",
			Message:          "50000P",
		})
		require.NoError(t, err)
		require.Equal(t, int64(42), created.ID)
		repo.AssertExpectations(t)

		select {
		case got := <-sub.Ch:
			require.Equal(t, "e1", got.EventID)
			require.Equal(t, "충전 완료", got.Title)
		case <-time.After(200 * time.Millisecond):
			t.Fatalf("expected broadcast to subscriber")
		}
		require.Equal(t, 1.0, testutil.ToFloat64(m.Published.WithLabelValues("success")))
	})
}

func TestServiceHandleWalletEvent(t *testing.T) {
	t.Run("unknown event type", func(t *testing.T) {
		repo := &repoMock{}
		svc := NewService(repo, sse.NewHub(nil), zap.NewNop(), nil)

		_, err := svc.HandleWalletEvent(context.Background(), model.WalletEvent{EventID: "e1", EventType: "PAYOUT"})
		require.ErrorIs(t, err, domain.ErrInvalidEventType)
		repo.AssertNotCalled(t, "CreateNotification", mock.Anything, mock.Anything)
	})

	t.Run("stores converted message", func(t *testing.T) {
		repo := &repoMock{}
		repo.On("CreateNotification", mock.Anything, mock.MatchedBy(func(msg model.PushMessage) bool {
			return msg.EventID == "e1" && msg.UserID == 3 && msg.Title == "충전 완료"
		})).Return(model.PushMessage{ID: 5, EventID: "e1"}, nil).Once()
		svc := NewService(repo, sse.NewHub(nil), zap.NewNop(), nil)

		_, err := svc.HandleWalletEvent(context.Background(), model.WalletEvent{
			EventID:    "e1",
			EventType:  domain.EventTypeChargeCompleted,
			UserID:     3,
			Amount:     10000,
			NewBalance: 60000,
		})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestFromWalletEvent(t *testing.T) {
	at := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	cases := []struct {
		name    string
		ev      model.WalletEvent
		title   string
		kind    domain.NotificationType
		message string
	}{
		{
			name:    "charge",
			ev:      model.WalletEvent{EventType: domain.EventTypeChargeCompleted, Amount: 10000, NewBalance: 60000},
			title:   "충전 완료",
			kind:    domain.NotificationTypeSuccess,
			message: "₩10,000가 충전되었습니다. 현재 잔액: ₩60,000",
		},
		{
			name:    "spend with description",
			ev:      model.WalletEvent{EventType: domain.EventTypeSpendCompleted, Amount: -4500, NewBalance: 55500, Description: "커피"},
			title:   "사용 완료",
			kind:    domain.NotificationTypeInfo,
			message: "커피 - ₩4,500 사용 완료. 현재 잔액: ₩55,500",
		},
		{
			name:    "spend",
			ev:      model.WalletEvent{EventType: domain.EventTypeSpendCompleted, Amount: 4500, NewBalance: 55500},
			title:   "사용 완료",
			kind:    domain.NotificationTypeInfo,
			message: "₩4,500 사용 완료. 현재 잔액: ₩55,500",
		},
		{
			name:    "reversal with reason",
			ev:      model.WalletEvent{EventType: domain.EventTypeReversalCompleted, Amount: 4500, NewBalance: 60000, Reason: "주문 취소"},
			title:   "취소 완료",
			kind:    domain.NotificationTypeInfo,
			message: "취소 완료 (주문 취소): ₩4,500 반환. 현재 잔액: ₩60,000",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.ev.EventID = "e1"
			tc.ev.UserID = 9
			tc.ev.OccurredAt = at
			msg, err := FromWalletEvent(tc.ev)
			require.NoError(t, err)
			require.Equal(t, tc.title, msg.Title)
			require.Equal(t, string(tc.kind), msg.NotificationType)
			require.Equal(t, tc.message, msg.Message)
			require.Equal(t, "e1", msg.EventID)
			require.Equal(t, int64(9), msg.UserID)
			require.Equal(t, at, msg.OccurredAt)
		})
	}
}
