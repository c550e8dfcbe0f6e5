// Package ui is the terminal front end of a wallet session: connection
// indicator, wallet summary and the live toast stack.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
	"wallet_live/internal/client"
	"wallet_live/internal/domain"
	"wallet_live/internal/model"
	"wallet_live/internal/toast"
)

const (
	pulseInterval   = 500 * time.Millisecond
	walletTimeout   = 10 * time.Second
	maxTransactions = 5
)

// WalletSource supplies the wallet summary panel.
type WalletSource interface {
	Balance(ctx context.Context) (model.WalletStats, error)
	Transactions(ctx context.Context) ([]model.Transaction, error)
}

type pulseMsg struct{}

type walletMsg struct {
	stats model.WalletStats
	txs   []model.Transaction
	err   error
}

type Model struct {
	session   *client.Session
	wallet    WalletSource
	indicator *Indicator
	bridge    *Bridge
	log       *zap.Logger

	keys  keyMap
	help  help.Model
	bar   progress.Model
	width int
	frame int

	stats     model.WalletStats
	txs       []model.Transaction
	walletErr error
	loaded    bool
}

func NewModel(session *client.Session, wallet WalletSource, bridge *Bridge, logger *zap.Logger) Model {
	bar := progress.New(progress.WithSolidFill("#5B9BD5"), progress.WithoutPercentage(), progress.WithWidth(30))
	return Model{
		session:   session,
		wallet:    wallet,
		indicator: NewIndicator(session.Store, func(domain.ConnectionStatus) { bridge.Signal() }),
		bridge:    bridge,
		log:       logger,
		keys:      defaultKeys(),
		help:      help.New(),
		bar:       bar,
		width:     80,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.bridge.Wait(), pulse(), m.fetchWallet())
}

func pulse() tea.Cmd {
	return tea.Tick(pulseInterval, func(time.Time) tea.Msg { return pulseMsg{} })
}

func (m Model) fetchWallet() tea.Cmd {
	if m.wallet == nil {
		return nil
	}
	wallet := m.wallet
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), walletTimeout)
		defer cancel()
		stats, err := wallet.Balance(ctx)
		if err != nil {
			return walletMsg{err: err}
		}
		txs, err := wallet.Transactions(ctx)
		return walletMsg{stats: stats, txs: txs, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case changeMsg:
		return m, m.bridge.Wait()

	case pulseMsg:
		m.frame++
		return m, pulse()

	case walletMsg:
		m.loaded = true
		m.walletErr = msg.err
		if msg.err != nil {
			m.log.Warn("wallet fetch failed", zap.Error(msg.err))
			return m, nil
		}
		m.stats = msg.stats
		m.txs = msg.txs
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.bar.Width = min(40, max(10, msg.Width/3))
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.indicator.Close()
			m.bridge.Close()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Dismiss):
			m.dismissNewest()
		case key.Matches(msg, m.keys.Reconnect):
			m.session.Manager.Reconnect()
		case key.Matches(msg, m.keys.Disconnect):
			m.session.Manager.Disconnect()
		case key.Matches(msg, m.keys.Refresh):
			return m, m.fetchWallet()
		}
	}
	return m, nil
}

func (m Model) dismissNewest() {
	views := m.session.Presenter.Toasts()
	for i := len(views) - 1; i >= 0; i-- {
		if !views[i].Exiting {
			m.session.Presenter.DismissEntry(views[i].Seq)
			return
		}
	}
}

func (m Model) View() string {
	header := lipgloss.JoinHorizontal(lipgloss.Center,
		headerStyle.Render("wallet live"),
		"  ",
		m.indicator.View(m.frame),
	)
	sections := []string{header, m.walletView(), m.toastsView(), helpStyle.Render(m.help.View(m.keys))}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) walletView() string {
	switch {
	case !m.loaded && m.wallet != nil:
		return panelStyle.Render(mutedStyle.Render("불러오는 중..."))
	case m.walletErr != nil:
		return panelStyle.Render(lipgloss.NewStyle().Foreground(colorRed).Render(m.walletErr.Error()))
	case m.wallet == nil:
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "잔액 %sP\n", humanize.Comma(m.stats.TotalBalance))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("이번 달 충전 %sP · 사용 %sP",
		humanize.Comma(m.stats.MonthlyCharged), humanize.Comma(m.stats.MonthlySpending))))
	for i, tx := range m.txs {
		if i == maxTransactions {
			break
		}
		b.WriteString("\n")
		b.WriteString(transactionLine(tx))
	}
	return panelStyle.Render(b.String())
}

func transactionLine(tx model.Transaction) string {
	sign := "+"
	color := colorGreen
	if tx.Type == model.TransactionUse {
		sign = "-"
		color = colorRed
	}
	amount := lipgloss.NewStyle().Foreground(color).Render(sign + humanize.Comma(tx.Amount) + "P")
	line := fmt.Sprintf("%s  %-16s %s", tx.Date, tx.Description, amount)
	if tx.Status != model.TransactionCompleted {
		line += mutedStyle.Render(" (" + string(tx.Status) + ")")
	}
	return line
}

func (m Model) toastsView() string {
	views := m.session.Presenter.Toasts()
	if len(views) == 0 {
		return mutedStyle.Render("새 알림 없음")
	}
	rendered := make([]string, 0, len(views))
	for _, v := range views {
		rendered = append(rendered, m.toastView(v))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rendered...)
}

func (m Model) toastView(v toast.View) string {
	style := toast.StyleFor(v.Notification.Type)
	title := lipgloss.NewStyle().Bold(true).Foreground(style.Accent).
		Render(style.Icon + " " + v.Notification.Title)
	body := v.Notification.Message
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.Accent).
		Padding(0, 1)
	if v.Exiting {
		box = box.Faint(true)
	}
	return box.Render(lipgloss.JoinVertical(lipgloss.Left, title, body, m.bar.ViewAs(v.Progress/100)))
}

// Run drives the terminal UI until the user quits or ctx ends. The session
// must already be started.
func Run(ctx context.Context, session *client.Session, wallet WalletSource, logger *zap.Logger) error {
	bridge := NewBridge()
	defer bridge.Close()
	cancel := session.Presenter.OnChange(bridge.Signal)
	defer cancel()

	m := NewModel(session, wallet, bridge, logger)
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}
