package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"wallet_live/internal/domain"
	"wallet_live/internal/model"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path, zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	first, err := store.CreateNotification(ctx, model.PushMessage{
		UserID:           1,
		EventID:          "e1",
		EventType:        domain.EventTypeChargeCompleted,
		NotificationType: string(domain.NotificationTypeSuccess),
		Title:            "충전 완료",
		Message:          "₩10,000가 충전되었습니다.",
		OccurredAt:       at,
	})
	require.NoError(t, err)
	require.NotZero(t, first.ID)

	for _, msg := range []model.PushMessage{
		{UserID: 2, EventID: "e2", NotificationType: "info", Title: "t", Message: "m", OccurredAt: at},
		{UserID: 0, EventID: "e3", NotificationType: "info", Title: "t", Message: "m", OccurredAt: at},
		{UserID: 1, EventID: "e4", NotificationType: "info", Title: "t", Message: "m", OccurredAt: at},
	} {
		_, err := store.CreateNotification(ctx, msg)
		require.NoError(t, err)
	}

	t.Run("newest first with broadcasts", func(t *testing.T) {
		history, err := store.ListNotifications(ctx, 1, 0)
		require.NoError(t, err)
		require.Len(t, history, 3)
		require.Equal(t, "e4", history[0].EventID)
		require.Equal(t, "e3", history[1].EventID)
		require.Equal(t, "e1", history[2].EventID)
		require.Equal(t, "충전 완료", history[2].Title)
		require.True(t, at.Equal(history[2].OccurredAt))
	})

	t.Run("limit", func(t *testing.T) {
		history, err := store.ListNotifications(ctx, 1, 1)
		require.NoError(t, err)
		require.Len(t, history, 1)
		require.Equal(t, "e4", history[0].EventID)
	})

	t.Run("survives reopen", func(t *testing.T) {
		require.NoError(t, store.Close())
		reopened, err := Open(path, zap.NewNop())
		require.NoError(t, err)
		store = reopened

		history, err := reopened.ListNotifications(ctx, 2, 0)
		require.NoError(t, err)
		require.Len(t, history, 2)
	})
}
