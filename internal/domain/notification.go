package domain

import "errors"

type NotificationType string

const (
	NotificationTypeSuccess NotificationType = "success"
	NotificationTypeError   NotificationType = "error"
	NotificationTypeInfo    NotificationType = "info"
)

// Wallet event categories emitted by the platform.
const (
	EventTypeChargeCompleted   = "CHARGE_COMPLETED"
	EventTypeSpendCompleted    = "SPEND_COMPLETED"
	EventTypeReversalCompleted = "REVERSAL_COMPLETED"
	EventTypeUnknown           = "unknown"
)

const DefaultNotificationTitle = "알림"

var (
	ErrInvalidNotificationType = errors.New("invalid notification type")
	ErrInvalidEventType        = errors.New("invalid wallet event type")
)

func IsValidNotificationType(value string) bool {
	switch NotificationType(value) {
	case NotificationTypeSuccess, NotificationTypeError, NotificationTypeInfo:
		return true
	default:
		return false
	}
}

// ParseNotificationType maps a wire value to a NotificationType, falling back to info.
func ParseNotificationType(value string) NotificationType {
	if IsValidNotificationType(value) {
		return NotificationType(value)
	}
	return NotificationTypeInfo
}

func IsValidEventType(value string) bool {
	switch value {
	case EventTypeChargeCompleted, EventTypeSpendCompleted, EventTypeReversalCompleted:
		return true
	default:
		return false
	}
}
