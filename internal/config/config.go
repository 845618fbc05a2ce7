package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Notification backends.
const (
	NotifyNone    = "none"
	NotifyStream  = "stream"
	NotifyWebhook = "webhook"
)

// DatabaseConfig PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// GetDSN returns a lib/pq keyword/value connection string.
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// RedisConfig Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// MQTTConfig MQTT broker settings.
type MQTTConfig struct {
	Enabled  bool
	Broker   string
	ClientID string
	Username string
	Password string
	QoS      byte
}

// Config inmo-backoffice configuration.
type Config struct {
	Store struct {
		Backend   string // memory | redis | postgres | sqlite
		Namespace string // key prefix shared by every persisted collection
		// SQLitePath is the database file used by the sqlite backend.
		SQLitePath string
	}

	Database DatabaseConfig
	Redis    RedisConfig
	MQTT     MQTTConfig

	Appearance struct {
		// Topic carrying the host color-scheme signal ("dark" / "light").
		Topic string
	}

	Notify struct {
		Backend    string // none | stream | webhook
		Stream     string
		WebhookURL string
	}

	Agency struct {
		// ReviewerName is recorded on receipts reviewed from the ops CLI.
		ReviewerName string
	}

	Log struct {
		Level  string
		Format string
	}
}

// Load reads configuration from the environment, after an optional .env file.
func Load() (*Config, error) {
	// .env is optional; real environment variables always win
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.Store.Backend = strings.ToLower(getEnv("STORE_BACKEND", BackendMemory))
	cfg.Store.Namespace = getEnv("STORE_NAMESPACE", "inmo_v2_data_")
	cfg.Store.SQLitePath = getEnv("SQLITE_PATH", "inmo.db")

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getInt("DB_PORT", 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "inmo")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = getInt("DB_MAX_CONNS", 5)
	cfg.Database.MaxIdle = getInt("DB_MAX_IDLE", 2)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getInt("REDIS_DB", 0)

	cfg.MQTT.Enabled = getEnv("MQTT_ENABLED", "false") == "true"
	cfg.MQTT.Broker = getEnv("MQTT_BROKER", "tcp://localhost:1883")
	cfg.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", "inmo-backoffice")
	cfg.MQTT.Username = getEnv("MQTT_USERNAME", "")
	cfg.MQTT.Password = getEnv("MQTT_PASSWORD", "")
	cfg.MQTT.QoS = byte(getInt("MQTT_QOS", 1))
	cfg.Appearance.Topic = getEnv("APPEARANCE_TOPIC", "inmo/host/color-scheme")

	cfg.Notify.Backend = strings.ToLower(getEnv("NOTIFY_BACKEND", NotifyNone))
	cfg.Notify.Stream = getEnv("NOTIFY_STREAM", "inmo:notices")
	cfg.Notify.WebhookURL = getEnv("NOTIFY_WEBHOOK_URL", "")

	cfg.Agency.ReviewerName = getEnv("REVIEWER_NAME", "admin")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendRedis, BackendPostgres, BackendSQLite:
	default:
		return fmt.Errorf("unsupported STORE_BACKEND %q", c.Store.Backend)
	}
	switch c.Notify.Backend {
	case NotifyNone, NotifyStream:
	case NotifyWebhook:
		if c.Notify.WebhookURL == "" {
			return fmt.Errorf("NOTIFY_WEBHOOK_URL is required for the webhook backend")
		}
	default:
		return fmt.Errorf("unsupported NOTIFY_BACKEND %q", c.Notify.Backend)
	}
	if c.Store.Namespace == "" {
		return fmt.Errorf("STORE_NAMESPACE must not be empty")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}
