package toast

import (
	"github.com/charmbracelet/lipgloss"
	"wallet_live/internal/domain"
)

// Style is the visual mapping of a notification type.
type Style struct {
	Icon   string
	Label  string
	Accent lipgloss.Color
}

var styles = map[domain.NotificationType]Style{
	domain.NotificationTypeSuccess: {Icon: "✓", Label: "성공", Accent: lipgloss.Color("#22c55e")},
	domain.NotificationTypeError:   {Icon: "✕", Label: "오류", Accent: lipgloss.Color("#ef4444")},
	domain.NotificationTypeInfo:    {Icon: "ℹ", Label: "정보", Accent: lipgloss.Color("#3b82f6")},
}

// StyleFor returns the style of t; unknown or empty types use info.
func StyleFor(t domain.NotificationType) Style {
	if s, ok := styles[t]; ok {
		return s
	}
	return styles[domain.NotificationTypeInfo]
}
