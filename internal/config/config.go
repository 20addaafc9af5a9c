package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Kafka       KafkaConfig
	Auth        AuthConfig
	Log         LogConfig
	RateLimit   RateLimitConfig
	Location    *time.Location
	RosterTTL   time.Duration
	Idempotency time.Duration
}

type ServerConfig struct {
	Port         string
	AllowOrigins []string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SSLMode    string
	MaxRetries int
}

// DSN builds the postgres connection string; the session runs in UTC.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode,
	)
}

// URL is the form golang-migrate expects.
func (c DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type RedisConfig struct {
	Addr string
}

// KafkaConfig: an empty Broker disables event publishing.
type KafkaConfig struct {
	Broker  string
	GroupID string
}

type AuthConfig struct {
	JWTSecret string
}

type LogConfig struct {
	Level  string
	Format string
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

var ErrMissingJWTSecret = errors.New("JWT_SECRET is required")

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "3000")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "school")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_RETRIES", 5)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("KAFKA_BROKER", "")
	v.SetDefault("KAFKA_GROUP_ID", "go-school-attendance-audit")
	v.SetDefault("APP_TIMEZONE", "UTC")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 5)
	v.SetDefault("RATE_LIMIT_BURST", 10)
	v.SetDefault("ROSTER_CACHE_TTL", "5m")
	v.SetDefault("IDEMPOTENCY_TTL", "24h")
	v.SetDefault("HTTP_READ_TIMEOUT", "5s")
	v.SetDefault("HTTP_WRITE_TIMEOUT", "10s")
	v.SetDefault("HTTP_IDLE_TIMEOUT", "60s")
}

// Load reads .env when present, then the environment. Environment values win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	secret := strings.TrimSpace(v.GetString("JWT_SECRET"))
	if secret == "" {
		return nil, ErrMissingJWTSecret
	}

	loc, err := time.LoadLocation(v.GetString("APP_TIMEZONE"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", v.GetString("APP_TIMEZONE"), err)
	}

	return &Config{
		Server: ServerConfig{
			Port:         v.GetString("PORT"),
			AllowOrigins: splitList(v.GetString("CORS_ALLOW_ORIGINS")),
			ReadTimeout:  v.GetDuration("HTTP_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("HTTP_WRITE_TIMEOUT"),
			IdleTimeout:  v.GetDuration("HTTP_IDLE_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Host:       v.GetString("DB_HOST"),
			Port:       v.GetString("DB_PORT"),
			User:       v.GetString("DB_USER"),
			Password:   v.GetString("DB_PASSWORD"),
			Name:       v.GetString("DB_NAME"),
			SSLMode:    v.GetString("DB_SSLMODE"),
			MaxRetries: v.GetInt("DB_MAX_RETRIES"),
		},
		Redis: RedisConfig{Addr: v.GetString("REDIS_ADDR")},
		Kafka: KafkaConfig{
			Broker:  strings.TrimSpace(v.GetString("KAFKA_BROKER")),
			GroupID: v.GetString("KAFKA_GROUP_ID"),
		},
		Auth: AuthConfig{JWTSecret: secret},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("RATE_LIMIT_RPS"),
			Burst: v.GetInt("RATE_LIMIT_BURST"),
		},
		Location:    loc,
		RosterTTL:   v.GetDuration("ROSTER_CACHE_TTL"),
		Idempotency: v.GetDuration("IDEMPOTENCY_TTL"),
	}, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
