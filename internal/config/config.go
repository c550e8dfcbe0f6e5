package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Client side.
	APIBaseURL      string
	SSEPath         string
	SSEInitialRetry time.Duration
	SSEMaxRetry     time.Duration
	SSEMaxRetries   int
	ToastTimeout    time.Duration
	ToastTick       time.Duration
	ToastExitGrace  time.Duration
	KeyringService  string
	KeyringDir      string

	// Platform emulator.
	HTTPAddr            string
	JWTSecret           string
	JWTTTL              time.Duration
	MaxLoginFailures    int
	MySQLDSN            string
	SQLitePath          string
	RabbitMQURL         string
	RabbitExchange      string
	RabbitQueue         string
	RabbitRoutingKey    string
	RabbitConsumerTag   string
	RabbitPublishPrefix string
	SSEHeartbeat        time.Duration
	HistoryLimit        int
	CORSOrigins         []string
	OTELServiceName     string
	OTLPEndpoint        string
	OTLPInsecure        bool
}

func New() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL:      "http://localhost:8080",
		SSEPath:         "/api/notifications/stream",
		SSEInitialRetry: time.Second,
		SSEMaxRetry:     30 * time.Second,
		SSEMaxRetries:   10,
		ToastTimeout:    5 * time.Second,
		ToastTick:       50 * time.Millisecond,
		ToastExitGrace:  300 * time.Millisecond,
		KeyringService:  "wallet-live",
		KeyringDir:      "~/.config/wallet-live/credentials",

		HTTPAddr:            ":8080",
		JWTSecret:           "local-development-secret",
		JWTTTL:              time.Hour,
		MaxLoginFailures:    5,
		RabbitExchange:      "wallet.events",
		RabbitQueue:         "wallet.events.notifications",
		RabbitRoutingKey:    "wallet.*",
		RabbitConsumerTag:   "notification-consumer",
		RabbitPublishPrefix: "wallet",
		SSEHeartbeat:        15 * time.Second,
		HistoryLimit:        0,
		CORSOrigins:         []string{"http://localhost:3000"},
		OTELServiceName:     "wallet-live",
		OTLPInsecure:        true,
	}

	if v := os.Getenv("API_BASE_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("SSE_PATH"); v != "" {
		cfg.SSEPath = v
	}
	if d, ok := millisEnv("SSE_INITIAL_RETRY_MS"); ok {
		cfg.SSEInitialRetry = d
	}
	if d, ok := millisEnv("SSE_MAX_RETRY_MS"); ok {
		cfg.SSEMaxRetry = d
	}
	if n, ok := positiveIntEnv("SSE_MAX_RETRIES"); ok {
		cfg.SSEMaxRetries = n
	}
	if d, ok := millisEnv("TOAST_TIMEOUT_MS"); ok {
		cfg.ToastTimeout = d
	}
	if d, ok := millisEnv("TOAST_TICK_MS"); ok {
		cfg.ToastTick = d
	}
	if d, ok := millisEnv("TOAST_EXIT_MS"); ok {
		cfg.ToastExitGrace = d
	}
	if v := os.Getenv("KEYRING_SERVICE"); v != "" {
		cfg.KeyringService = v
	}
	if v := os.Getenv("KEYRING_DIR"); v != "" {
		cfg.KeyringDir = v
	}

	if addr := os.Getenv("HTTP_ADDR"); addr != "" {
		cfg.HTTPAddr = addr
	} else if port := os.Getenv("PORT"); port != "" {
		cfg.HTTPAddr = ":" + port
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if n, ok := positiveIntEnv("JWT_TTL_MINUTES"); ok {
		cfg.JWTTTL = time.Duration(n) * time.Minute
	}
	if n, ok := positiveIntEnv("MAX_LOGIN_FAILURES"); ok {
		cfg.MaxLoginFailures = n
	}

	cfg.MySQLDSN = os.Getenv("MYSQL_DSN")
	cfg.SQLitePath = os.Getenv("SQLITE_PATH")
	cfg.RabbitMQURL = os.Getenv("RABBITMQ_URL")

	if v := os.Getenv("RABBITMQ_EXCHANGE"); v != "" {
		cfg.RabbitExchange = v
	}
	if v := os.Getenv("RABBITMQ_QUEUE"); v != "" {
		cfg.RabbitQueue = v
	}
	if v := os.Getenv("RABBITMQ_ROUTING_KEY"); v != "" {
		cfg.RabbitRoutingKey = v
	}
	if v := os.Getenv("RABBITMQ_CONSUMER_TAG"); v != "" {
		cfg.RabbitConsumerTag = v
	}
	if v := os.Getenv("RABBITMQ_PUBLISH_PREFIX"); v != "" {
		cfg.RabbitPublishPrefix = v
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}

	if v := os.Getenv("OTEL_SERVICE_NAME"); v != "" {
		cfg.OTELServiceName = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTLPEndpoint = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_INSECURE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.OTLPInsecure = b
		}
	}

	if n, ok := positiveIntEnv("SSE_HEARTBEAT_SECONDS"); ok {
		cfg.SSEHeartbeat = time.Duration(n) * time.Second
	}

	if v := os.Getenv("HISTORY_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.HistoryLimit = n
		}
	}

	return cfg
}

// StreamURL is the push channel endpoint without the token query.
func (c *Config) StreamURL() string {
	return c.APIBaseURL + c.SSEPath
}

func positiveIntEnv(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func millisEnv(key string) (time.Duration, bool) {
	n, ok := positiveIntEnv(key)
	if !ok {
		return 0, false
	}
	return time.Duration(n) * time.Millisecond, true
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
