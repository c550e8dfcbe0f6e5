package ui

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
	"wallet_live/internal/domain"
	"wallet_live/internal/feed"
)

// Indicator is the connection status dot. It listens to status changes only,
// so notification traffic does not redraw it.
type Indicator struct {
	mu          sync.Mutex
	status      domain.ConnectionStatus
	unsubscribe func()
}

func NewIndicator(store *feed.Store, onChange func(domain.ConnectionStatus)) *Indicator {
	ind := &Indicator{status: store.ConnectionStatus()}
	ind.unsubscribe = store.SubscribeStatus(func(s domain.ConnectionStatus) {
		ind.mu.Lock()
		ind.status = s
		ind.mu.Unlock()
		if onChange != nil {
			onChange(s)
		}
	})
	return ind
}

func (i *Indicator) Status() domain.ConnectionStatus {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.status
}

func (i *Indicator) Close() {
	i.unsubscribe()
}

// StatusLabel is the user-facing text of a connection status.
func StatusLabel(s domain.ConnectionStatus) string {
	switch s {
	case domain.StatusConnected:
		return "연결됨"
	case domain.StatusReconnecting:
		return "재연결 중..."
	default:
		return "오프라인"
	}
}

// View renders the dot and label. Reconnecting pulses between two shades on
// alternate frames.
func (i *Indicator) View(frame int) string {
	s := i.Status()
	var color lipgloss.TerminalColor
	switch s {
	case domain.StatusConnected:
		color = colorGreen
	case domain.StatusReconnecting:
		color = colorYellow
		if frame%2 == 1 {
			color = colorDim
		}
	default:
		color = colorRed
	}
	dot := lipgloss.NewStyle().Foreground(color).Render("●")
	return dot + " " + mutedStyle.Render(StatusLabel(s))
}
