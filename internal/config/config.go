package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dumwala/tournament-bot/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the bot.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string

	MongoURI      string
	MongoDatabase string

	TelegramToken             string
	TelegramBaseURL           string
	TelegramTimeout           time.Duration
	TelegramMaxRetries        int
	TelegramParseMode         string
	TelegramCircuitEnabled    bool
	TelegramCircuitFailures   int
	TelegramCircuitOpenFor    time.Duration
	TelegramCircuitProbeCount int

	AdminIDs  []string
	ChannelID string

	UPIID             string
	AvgKillsEstimate  int
	ReconcileInterval time.Duration
	BroadcastWorkers  int

	LogLevel logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	telegramToken := strings.TrimSpace(getEnv("TELEGRAM_BOT_TOKEN", ""))
	if telegramToken == "" {
		return Config{}, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	telegramTimeout, err := time.ParseDuration(getEnv("TELEGRAM_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse TELEGRAM_TIMEOUT: %w", err)
	}
	if telegramTimeout <= 0 {
		return Config{}, fmt.Errorf("TELEGRAM_TIMEOUT must be > 0")
	}

	telegramMaxRetries, err := getEnvAsInt("TELEGRAM_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse TELEGRAM_MAX_RETRIES: %w", err)
	}
	if telegramMaxRetries < 0 {
		return Config{}, fmt.Errorf("TELEGRAM_MAX_RETRIES must be >= 0")
	}

	telegramCircuitEnabled, err := strconv.ParseBool(getEnv("TELEGRAM_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse TELEGRAM_CIRCUIT_ENABLED: %w", err)
	}
	telegramCircuitFailures, err := getEnvAsInt("TELEGRAM_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse TELEGRAM_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if telegramCircuitFailures < 1 {
		return Config{}, fmt.Errorf("TELEGRAM_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	telegramCircuitOpenFor, err := time.ParseDuration(getEnv("TELEGRAM_CIRCUIT_OPEN_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse TELEGRAM_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if telegramCircuitOpenFor <= 0 {
		return Config{}, fmt.Errorf("TELEGRAM_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	telegramCircuitProbeCount, err := getEnvAsInt("TELEGRAM_CIRCUIT_HALF_OPEN_PROBES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse TELEGRAM_CIRCUIT_HALF_OPEN_PROBES: %w", err)
	}
	if telegramCircuitProbeCount < 1 {
		return Config{}, fmt.Errorf("TELEGRAM_CIRCUIT_HALF_OPEN_PROBES must be >= 1")
	}

	adminIDs := splitCSV(getEnv("ADMIN_IDS", ""))
	if len(adminIDs) == 0 {
		return Config{}, fmt.Errorf("ADMIN_IDS is required")
	}

	avgKillsEstimate, err := getEnvAsInt("AVG_KILLS_ESTIMATE", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse AVG_KILLS_ESTIMATE: %w", err)
	}
	if avgKillsEstimate < 0 {
		return Config{}, fmt.Errorf("AVG_KILLS_ESTIMATE must be >= 0")
	}

	reconcileInterval, err := time.ParseDuration(getEnv("RECONCILE_INTERVAL", "1m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse RECONCILE_INTERVAL: %w", err)
	}
	if reconcileInterval <= 0 {
		return Config{}, fmt.Errorf("RECONCILE_INTERVAL must be > 0")
	}

	broadcastWorkers, err := getEnvAsInt("BROADCAST_WORKERS", 8)
	if err != nil {
		return Config{}, fmt.Errorf("parse BROADCAST_WORKERS: %w", err)
	}
	if broadcastWorkers < 1 {
		return Config{}, fmt.Errorf("BROADCAST_WORKERS must be >= 1")
	}

	return Config{
		AppEnv:         appEnv,
		ServiceName:    getEnv("APP_SERVICE_NAME", "tournament-bot"),
		ServiceVersion: getEnv("APP_SERVICE_VERSION", "dev"),

		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "tournament_bot"),

		TelegramToken:             telegramToken,
		TelegramBaseURL:           strings.TrimSpace(getEnv("TELEGRAM_BASE_URL", "https://api.telegram.org")),
		TelegramTimeout:           telegramTimeout,
		TelegramMaxRetries:        telegramMaxRetries,
		TelegramParseMode:         strings.TrimSpace(getEnv("TELEGRAM_PARSE_MODE", "HTML")),
		TelegramCircuitEnabled:    telegramCircuitEnabled,
		TelegramCircuitFailures:   telegramCircuitFailures,
		TelegramCircuitOpenFor:    telegramCircuitOpenFor,
		TelegramCircuitProbeCount: telegramCircuitProbeCount,

		AdminIDs:  adminIDs,
		ChannelID: strings.TrimSpace(getEnv("CHANNEL_ID", "")),

		UPIID:             strings.TrimSpace(getEnv("UPI_ID", "")),
		AvgKillsEstimate:  avgKillsEstimate,
		ReconcileInterval: reconcileInterval,
		BroadcastWorkers:  broadcastWorkers,

		LogLevel: parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}, nil
}

// IsAdmin reports whether userID is one of the configured operators.
func (c Config) IsAdmin(userID string) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}
