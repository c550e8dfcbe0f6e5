package channel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"wallet_live/internal/domain"
	"wallet_live/internal/sse"
)

func TestDecode(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	t.Run("full payload", func(t *testing.T) {
		n, _, ok, err := Decode(sse.Event{Name: "notification", Data: `{"eventId":"e1","eventType":"CHARGE_COMPLETED","notificationType":"success","title":"충전 완료","message":"10,000원이 충전되었습니다."}`}, now)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "e1", n.ID)
		require.Equal(t, domain.NotificationTypeSuccess, n.Type)
		require.Equal(t, "충전 완료", n.Title)
		require.Equal(t, "10,000원이 충전되었습니다.", n.Message)
		require.Equal(t, domain.EventTypeChargeCompleted, n.EventType)
		require.Equal(t, int64(1700000000123), n.Timestamp)
	})

	t.Run("defaults", func(t *testing.T) {
		n, _, ok, err := Decode(sse.Event{Data: `{"message":"hi","notificationType":"warning"}`}, now)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "notif-1700000000123", n.ID)
		require.Equal(t, domain.DefaultNotificationTitle, n.Title)
		require.Equal(t, domain.EventTypeUnknown, n.EventType)
		require.Equal(t, domain.NotificationTypeInfo, n.Type)
	})

	t.Run("heartbeat and handshake are discarded", func(t *testing.T) {
		cases := []struct {
			ev     sse.Event
			reason string
		}{
			{sse.Event{Name: "heartbeat", Data: "ping"}, ReasonHeartbeat},
			{sse.Event{Name: "connected", Data: "ok"}, ReasonHandshake},
			{sse.Event{Data: `{"type":"heartbeat"}`}, ReasonHeartbeat},
			{sse.Event{Data: `{"message":"connected"}`}, ReasonHandshake},
		}
		for _, tc := range cases {
			_, reason, ok, err := Decode(tc.ev, now)
			require.NoError(t, err)
			require.False(t, ok)
			require.Equal(t, tc.reason, reason)
		}
	})

	t.Run("malformed payload", func(t *testing.T) {
		_, _, ok, err := Decode(sse.Event{Data: "{not json"}, now)
		require.Error(t, err)
		require.False(t, ok)
	})
}
