package ui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"wallet_live/internal/client"
	"wallet_live/internal/config"
	"wallet_live/internal/credential"
	"wallet_live/internal/domain"
	"wallet_live/internal/feed"
	"wallet_live/internal/model"
	"wallet_live/internal/sse"
)

type noDialer struct{}

func (noDialer) Dial(ctx context.Context, token string) (sse.Stream, error) {
	return nil, context.Canceled
}

type walletStub struct{}

func (walletStub) Balance(ctx context.Context) (model.WalletStats, error) {
	return model.WalletStats{TotalBalance: 125000, MonthlyCharged: 50000, MonthlySpending: 32000}, nil
}

func (walletStub) Transactions(ctx context.Context) ([]model.Transaction, error) {
	return []model.Transaction{{ID: "t1", Type: model.TransactionUse, Amount: 4500, Description: "커피", Date: "2024-01-15", Status: model.TransactionCompleted}}, nil
}

func newSession(t *testing.T) *client.Session {
	t.Helper()
	cfg := &config.Config{ToastTimeout: time.Hour, ToastTick: time.Hour, ToastExitGrace: time.Millisecond}
	s := client.NewSession(cfg, noDialer{}, credential.NewMemory(""), zap.NewNop(), nil)
	s.Start(context.Background())
	t.Cleanup(s.Close)
	return s
}

func TestIndicator(t *testing.T) {
	store := feed.New(feed.DefaultCapacity, zap.NewNop())
	var seen []domain.ConnectionStatus
	ind := NewIndicator(store, func(s domain.ConnectionStatus) { seen = append(seen, s) })
	defer ind.Close()

	require.Equal(t, domain.StatusOffline, ind.Status())
	require.Contains(t, ind.View(0), "오프라인")

	store.Add(model.Notification{ID: "a"})
	store.SetConnectionStatus(domain.StatusReconnecting)
	require.Contains(t, ind.View(1), "재연결 중...")

	store.SetConnectionStatus(domain.StatusConnected)
	require.Contains(t, ind.View(0), "연결됨")
	require.Equal(t, []domain.ConnectionStatus{domain.StatusReconnecting, domain.StatusConnected}, seen)
}

func TestBridgeCoalesces(t *testing.T) {
	b := NewBridge()
	b.Signal()
	b.Signal()
	require.Equal(t, changeMsg{}, b.Wait()())

	b.Close()
	b.Close()
	require.Nil(t, b.Wait()())
}

func TestModelView(t *testing.T) {
	s := newSession(t)
	bridge := NewBridge()
	defer bridge.Close()

	m := NewModel(s, walletStub{}, bridge, zap.NewNop())
	next, _ := m.Update(walletMsg{stats: model.WalletStats{TotalBalance: 125000}, txs: []model.Transaction{{Type: model.TransactionCharge, Amount: 50000, Description: "충전", Date: "2024-01-15", Status: model.TransactionPending}}})
	m = next.(Model)

	s.Store.Add(model.Notification{ID: "e1", Type: domain.NotificationTypeSuccess, Title: "충전 완료", Message: "50000P"})
	view := m.View()
	require.Contains(t, view, "125,000P")
	require.Contains(t, view, "+50,000P")
	require.Contains(t, view, "충전 완료")
	require.Contains(t, view, "오프라인")
}

func TestModelDismissKey(t *testing.T) {
	s := newSession(t)
	bridge := NewBridge()
	defer bridge.Close()
	m := NewModel(s, nil, bridge, zap.NewNop())

	s.Store.Add(model.Notification{ID: "old"})
	s.Store.Add(model.Notification{ID: "new"})

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	require.Eventually(t, func() bool {
		ns := s.Store.Notifications()
		return len(ns) == 1 && ns[0].ID == "old"
	}, time.Second, time.Millisecond)
}

func TestModelQuit(t *testing.T) {
	s := newSession(t)
	bridge := NewBridge()
	m := NewModel(s, nil, bridge, zap.NewNop())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	require.Equal(t, tea.Quit(), cmd())
}
