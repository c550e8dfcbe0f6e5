package channel

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"wallet_live/internal/domain"
	"wallet_live/internal/model"
	"wallet_live/internal/sse"
)

var fastJSON = sonic.ConfigDefault

const (
	eventHeartbeat = "heartbeat"
	eventConnected = "connected"
	ackConnected   = "connected"
)

// Discard reasons reported by Decode.
const (
	ReasonHeartbeat = "heartbeat"
	ReasonHandshake = "handshake"
)

type payload struct {
	Type             string `json:"type"`
	Message          string `json:"message"`
	EventID          string `json:"eventId"`
	NotificationType string `json:"notificationType"`
	Title            string `json:"title"`
	EventType        string `json:"eventType"`
}

// Decode maps a push frame to a Notification received at now. Heartbeats and
// the connection handshake return ok=false with the discard reason.
func Decode(ev sse.Event, now time.Time) (n model.Notification, reason string, ok bool, err error) {
	switch ev.Name {
	case eventHeartbeat:
		return model.Notification{}, ReasonHeartbeat, false, nil
	case eventConnected:
		return model.Notification{}, ReasonHandshake, false, nil
	}

	var p payload
	if err := fastJSON.UnmarshalFromString(ev.Data, &p); err != nil {
		return model.Notification{}, "", false, fmt.Errorf("decode push payload: %w", err)
	}
	if p.Type == eventHeartbeat {
		return model.Notification{}, ReasonHeartbeat, false, nil
	}
	if p.Message == ackConnected {
		return model.Notification{}, ReasonHandshake, false, nil
	}

	ms := now.UnixMilli()
	n = model.Notification{
		ID:        p.EventID,
		Type:      domain.ParseNotificationType(p.NotificationType),
		Title:     p.Title,
		Message:   p.Message,
		EventType: p.EventType,
		Timestamp: ms,
	}
	if n.ID == "" {
		n.ID = fmt.Sprintf("notif-%d", ms)
	}
	if n.Title == "" {
		n.Title = domain.DefaultNotificationTitle
	}
	if n.EventType == "" {
		n.EventType = domain.EventTypeUnknown
	}
	return n, "", true, nil
}
