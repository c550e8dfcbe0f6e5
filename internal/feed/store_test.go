package feed

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"wallet_live/internal/domain"
	"wallet_live/internal/model"
)

func notification(id string) model.Notification {
	return model.Notification{ID: id, Type: domain.NotificationTypeInfo, Title: "t", Message: "m"}
}

func ids(ns []model.Notification) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = n.ID
	}
	return out
}

func TestStoreAdd(t *testing.T) {
	t.Run("keeps the five most recent in insertion order", func(t *testing.T) {
		store := New(DefaultCapacity, zap.NewNop())
		for i := 1; i <= 12; i++ {
			store.Add(notification(fmt.Sprintf("n%d", i)))
			require.LessOrEqual(t, len(store.Notifications()), 5)
		}
		require.Equal(t, []string{"n8", "n9", "n10", "n11", "n12"}, ids(store.Notifications()))
	})

	t.Run("below capacity keeps everything", func(t *testing.T) {
		store := New(DefaultCapacity, zap.NewNop())
		store.Add(notification("a"))
		store.Add(notification("b"))
		require.Equal(t, []string{"a", "b"}, ids(store.Notifications()))
	})

	t.Run("duplicate ids are appended separately", func(t *testing.T) {
		store := New(DefaultCapacity, zap.NewNop())
		store.Add(notification("dup"))
		store.Add(notification("dup"))
		entries := store.Entries()
		require.Len(t, entries, 2)
		require.NotEqual(t, entries[0].Seq, entries[1].Seq)
	})

	t.Run("non-positive capacity falls back to default", func(t *testing.T) {
		store := New(0, zap.NewNop())
		for i := 0; i < 7; i++ {
			store.Add(notification(fmt.Sprintf("n%d", i)))
		}
		require.Len(t, store.Notifications(), DefaultCapacity)
	})
}

func TestStoreRemove(t *testing.T) {
	t.Run("unknown id is a no-op", func(t *testing.T) {
		store := New(DefaultCapacity, zap.NewNop())
		store.Add(notification("a"))
		calls := 0
		cancel := store.Subscribe(func(Snapshot) { calls++ })
		defer cancel()

		store.RemoveNotification("missing")
		require.Equal(t, []string{"a"}, ids(store.Notifications()))
		require.Zero(t, calls)
	})

	t.Run("removes only the first matching id", func(t *testing.T) {
		store := New(DefaultCapacity, zap.NewNop())
		store.Add(notification("x"))
		store.Add(notification("y"))
		store.Add(notification("x"))

		store.RemoveNotification("x")
		require.Equal(t, []string{"y", "x"}, ids(store.Notifications()))

		store.RemoveNotification("x")
		store.RemoveNotification("x")
		require.Equal(t, []string{"y"}, ids(store.Notifications()))
	})

	t.Run("remove entry by sequence", func(t *testing.T) {
		store := New(DefaultCapacity, zap.NewNop())
		store.Add(notification("dup"))
		store.Add(notification("dup"))
		second := store.Entries()[1].Seq

		require.True(t, store.RemoveEntry(second))
		require.False(t, store.RemoveEntry(second))
		entries := store.Entries()
		require.Len(t, entries, 1)
		require.NotEqual(t, second, entries[0].Seq)
	})
}

func TestStoreConnectionStatus(t *testing.T) {
	store := New(DefaultCapacity, zap.NewNop())
	require.Equal(t, domain.StatusOffline, store.ConnectionStatus())

	var statuses []domain.ConnectionStatus
	cancel := store.SubscribeStatus(func(s domain.ConnectionStatus) {
		statuses = append(statuses, s)
	})
	defer cancel()

	store.SetConnectionStatus(domain.StatusReconnecting)
	store.SetConnectionStatus(domain.StatusReconnecting)
	store.Add(notification("a"))
	store.SetConnectionStatus(domain.StatusConnected)

	require.Equal(t, domain.StatusConnected, store.ConnectionStatus())
	require.Equal(t, []domain.ConnectionStatus{domain.StatusReconnecting, domain.StatusConnected}, statuses)
}

func TestStoreSubscribe(t *testing.T) {
	store := New(DefaultCapacity, zap.NewNop())

	var snaps []Snapshot
	cancel := store.Subscribe(func(s Snapshot) { snaps = append(snaps, s) })

	store.Add(notification("a"))
	store.Add(notification("b"))
	store.RemoveNotification("a")
	require.Len(t, snaps, 3)
	require.Equal(t, []string{"a"}, ids(snaps[0].Notifications()))
	require.Equal(t, []string{"a", "b"}, ids(snaps[1].Notifications()))
	require.Equal(t, []string{"b"}, ids(snaps[2].Notifications()))

	cancel()
	cancel()
	store.Add(notification("c"))
	require.Len(t, snaps, 3)
}

func TestStoreClose(t *testing.T) {
	store := New(DefaultCapacity, zap.NewNop())
	calls := 0
	store.Subscribe(func(Snapshot) { calls++ })
	store.Add(notification("a"))

	store.Close()
	store.Add(notification("b"))
	store.SetConnectionStatus(domain.StatusConnected)

	require.Empty(t, store.Notifications())
	require.Equal(t, 1, calls)
}
