package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAdminEmail is the address that receives the admin role at registration.
const DefaultAdminEmail = "admin@support.com"

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Store        StoreConfig
	Postgres     PostgresConfig
	MySQL        MySQLConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// StoreConfig selects and locates the relational store.
type StoreConfig struct {
	Driver        string
	DataDir       string
	FileName      string
	SeedFile      string
	AdminEmail    string
	AdminName     string
	AdminPassword string
	AdminDept     string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// MySQLConfig holds the MySQL DSN.
type MySQLConfig struct {
	DSN string
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level   string
	Format  string
	Service string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	HashPasswords         bool
	BcryptCost            int
}

// NotificationConfig holds the outbound notification settings. Email is
// enabled only when EmailFrom, EmailPassword and EmailTo are all set.
type NotificationConfig struct {
	EmailFrom     string
	EmailPassword string
	EmailTo       string
	SMTPHost      string
	SMTPPort      int
	WebhookURL    string
	Queue         string
	QueueSize     int
	RedisQueueKey string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "support-desk"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "127.0.0.1"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Store: StoreConfig{
			Driver:        strings.ToLower(getEnv("STORE_DRIVER", "sqlite")),
			DataDir:       getEnv("STORE_DATA_DIR", "data"),
			FileName:      getEnv("STORE_FILE_NAME", "tickets.db"),
			SeedFile:      os.Getenv("STORE_SEED_FILE"),
			AdminEmail:    getEnv("ADMIN_EMAIL", DefaultAdminEmail),
			AdminName:     getEnv("ADMIN_NAME", "Administrator"),
			AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
			AdminDept:     getEnv("ADMIN_DEPARTMENT", "IT"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		MySQL: MySQLConfig{
			DSN: os.Getenv("MYSQL_DSN"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60*12),
			HashPasswords:         getEnvAsBool("AUTH_HASH_PASSWORDS", false),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Notification: NotificationConfig{
			EmailFrom:     os.Getenv("FROM_EMAIL"),
			EmailPassword: os.Getenv("FROM_PASS"),
			EmailTo:       os.Getenv("IT_EMAIL"),
			SMTPHost:      getEnv("SMTP_HOST", "smtp.gmail.com"),
			SMTPPort:      getEnvAsInt("SMTP_PORT", 587),
			WebhookURL:    os.Getenv("NOTIFY_WEBHOOK_URL"),
			Queue:         strings.ToLower(getEnv("NOTIFY_QUEUE", "memory")),
			QueueSize:     getEnvAsInt("NOTIFY_QUEUE_SIZE", 64),
			RedisQueueKey: getEnv("NOTIFY_REDIS_KEY", "support-desk:notifications"),
		},
	}

	cfg.Logger.Service = cfg.App.Name

	switch cfg.Store.Driver {
	case "sqlite", "postgres", "mysql":
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER %q", cfg.Store.Driver)
	}
	switch cfg.Notification.Queue {
	case "memory", "redis":
	default:
		return nil, fmt.Errorf("invalid NOTIFY_QUEUE %q", cfg.Notification.Queue)
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// EmailEnabled reports whether every email setting is present.
func (n NotificationConfig) EmailEnabled() bool {
	return strings.TrimSpace(n.EmailFrom) != "" &&
		strings.TrimSpace(n.EmailPassword) != "" &&
		strings.TrimSpace(n.EmailTo) != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
