package domain

type ConnectionStatus string

const (
	StatusConnected    ConnectionStatus = "connected"
	StatusReconnecting ConnectionStatus = "reconnecting"
	StatusOffline      ConnectionStatus = "offline"
)

func IsValidConnectionStatus(value string) bool {
	switch ConnectionStatus(value) {
	case StatusConnected, StatusReconnecting, StatusOffline:
		return true
	default:
		return false
	}
}
