package toast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"wallet_live/internal/config"
	"wallet_live/internal/domain"
	"wallet_live/internal/feed"
	"wallet_live/internal/model"
)

func newPresenter(t *testing.T, cfg Config) (*Presenter, *feed.Store) {
	t.Helper()
	store := feed.New(feed.DefaultCapacity, zap.NewNop())
	p := NewPresenter(store, cfg, zap.NewNop())
	p.Start()
	t.Cleanup(p.Stop)
	return p, store
}

func hasID(store *feed.Store, id string) bool {
	for _, n := range store.Notifications() {
		if n.ID == id {
			return true
		}
	}
	return false
}

func TestPresenterExpiresToast(t *testing.T) {
	// Scaled down from 5s / 50ms / 300ms.
	cfg := Config{Timeout: 100 * time.Millisecond, Tick: time.Millisecond, ExitGrace: 30 * time.Millisecond}
	p, store := newPresenter(t, cfg)

	store.Add(model.Notification{ID: "e1", Type: domain.NotificationTypeSuccess, Title: "충전 완료", Message: "50000P"})

	views := p.Toasts()
	require.Len(t, views, 1)
	require.Equal(t, "e1", views[0].Notification.ID)
	require.False(t, views[0].Exiting)

	require.Eventually(t, func() bool {
		v := p.Toasts()
		return len(v) == 1 && v[0].Exiting
	}, time.Second, time.Millisecond)
	require.True(t, hasID(store, "e1"))

	require.Eventually(t, func() bool {
		return !hasID(store, "e1") && len(p.Toasts()) == 0
	}, time.Second, time.Millisecond)
}

func TestPresenterDismiss(t *testing.T) {
	cfg := Config{Timeout: time.Hour, Tick: 10 * time.Millisecond, ExitGrace: 20 * time.Millisecond}
	p, store := newPresenter(t, cfg)

	store.Add(model.Notification{ID: "a"})
	store.Add(model.Notification{ID: "b"})

	require.False(t, p.Dismiss("missing"))
	require.True(t, p.Dismiss("a"))

	require.Eventually(t, func() bool {
		return !hasID(store, "a")
	}, time.Second, time.Millisecond)
	require.True(t, hasID(store, "b"))
	require.Len(t, p.Toasts(), 1)
}

func TestPresenterDuplicateIDs(t *testing.T) {
	cfg := Config{Timeout: time.Hour, Tick: 10 * time.Millisecond, ExitGrace: time.Millisecond}
	p, store := newPresenter(t, cfg)

	store.Add(model.Notification{ID: "dup", Message: "first"})
	store.Add(model.Notification{ID: "dup", Message: "second"})
	views := p.Toasts()
	require.Len(t, views, 2)

	require.True(t, p.DismissEntry(views[1].Seq))
	require.Eventually(t, func() bool {
		return len(store.Entries()) == 1
	}, time.Second, time.Millisecond)
	require.Equal(t, "first", store.Notifications()[0].Message)
}

func TestPresenterExternalRemovalCancelsTask(t *testing.T) {
	cfg := Config{Timeout: time.Hour, Tick: time.Millisecond, ExitGrace: time.Millisecond}
	p, store := newPresenter(t, cfg)

	store.Add(model.Notification{ID: "x"})
	p.mu.Lock()
	task := p.toasts[store.Entries()[0].Seq].task
	p.mu.Unlock()

	store.RemoveNotification("x")
	task.Wait()
	require.Empty(t, p.Toasts())

	store.Add(model.Notification{ID: "y"})
	require.Equal(t, []string{"y"}, []string{p.Toasts()[0].Notification.ID})
}

func TestPresenterEvictionCancelsTask(t *testing.T) {
	cfg := Config{Timeout: time.Hour, Tick: 10 * time.Millisecond, ExitGrace: time.Millisecond}
	p, store := newPresenter(t, cfg)

	for _, id := range []string{"1", "2", "3", "4", "5", "6"} {
		store.Add(model.Notification{ID: id})
	}
	views := p.Toasts()
	require.Len(t, views, 5)
	require.Equal(t, "2", views[0].Notification.ID)
}

func TestPresenterStop(t *testing.T) {
	cfg := Config{Timeout: time.Millisecond, Tick: time.Hour, ExitGrace: time.Millisecond}
	store := feed.New(feed.DefaultCapacity, zap.NewNop())
	p := NewPresenter(store, cfg, zap.NewNop())
	store.Add(model.Notification{ID: "pre"})
	p.Start()
	require.Len(t, p.Toasts(), 1)

	changes := 0
	cancel := p.OnChange(func() { changes++ })
	p.Stop()
	cancel()

	time.Sleep(40 * time.Millisecond)
	require.True(t, hasID(store, "pre"))
	require.Empty(t, p.Toasts())
	require.Equal(t, 1, changes)
}

func TestConfigFrom(t *testing.T) {
	c := ConfigFrom(&config.Config{ToastTimeout: time.Second})
	require.Equal(t, time.Second, c.Timeout)
	require.Equal(t, DefaultTick, c.Tick)
	require.Equal(t, DefaultExitGrace, c.ExitGrace)
}

func TestStyleFor(t *testing.T) {
	require.Equal(t, StyleFor(domain.NotificationTypeInfo), StyleFor(""))
	require.Equal(t, StyleFor(domain.NotificationTypeInfo), StyleFor("warning"))
	require.NotEqual(t, StyleFor(domain.NotificationTypeSuccess).Accent, StyleFor(domain.NotificationTypeError).Accent)
}
