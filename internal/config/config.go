package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config runtime settings, read from the environment (optionally via .env or config.yaml).
type Config struct {
	AppPort string
	LogMode string // development | production

	DBDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	UserCacheTTL  time.Duration

	JWTSecret string

	KafkaBrokers      []string
	KafkaTopic        string
	KafkaWriteTimeout time.Duration

	OutboxBatchSize    int
	OutboxPollInterval time.Duration

	SeedDemo bool // load demo users and posts on startup
}

// Init loads .env if present, then reads the settings.
func Init() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger().Info("No .env file found, using system environment variables")
	}
	return Load(viper.New())
}

// Load builds a Config from v and checks the required keys.
func Load(v *viper.Viper) (*Config, error) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("LOG_MODE", "development")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("USER_CACHE_TTL", "5m")
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_TOPIC", "timelium.post-events")
	v.SetDefault("KAFKA_WRITE_TIMEOUT", "10s")
	v.SetDefault("OUTBOX_BATCH_SIZE", 100)
	v.SetDefault("OUTBOX_POLL_INTERVAL", "1s")
	v.SetDefault("SEED_DEMO", false)

	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // optional

	cfg := &Config{
		AppPort:            v.GetString("APP_PORT"),
		LogMode:            v.GetString("LOG_MODE"),
		DBDSN:              v.GetString("DB_DSN"),
		RedisAddr:          v.GetString("REDIS_ADDR"),
		RedisPassword:      v.GetString("REDIS_PASSWORD"),
		RedisDB:            v.GetInt("REDIS_DB"),
		UserCacheTTL:       parseDuration(v.GetString("USER_CACHE_TTL"), 5*time.Minute),
		JWTSecret:          v.GetString("JWT_SECRET"),
		KafkaBrokers:       splitList(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:         v.GetString("KAFKA_TOPIC"),
		KafkaWriteTimeout:  parseDuration(v.GetString("KAFKA_WRITE_TIMEOUT"), 10*time.Second),
		OutboxBatchSize:    v.GetInt("OUTBOX_BATCH_SIZE"),
		OutboxPollInterval: parseDuration(v.GetString("OUTBOX_POLL_INTERVAL"), time.Second),
		SeedDemo:           v.GetBool("SEED_DEMO"),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	if c.DBDSN == "" {
		missing = append(missing, "DB_DSN")
	}
	if c.RedisAddr == "" {
		missing = append(missing, "REDIS_ADDR")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingSetting, strings.Join(missing, ", "))
	}
	return nil
}

// ErrMissingSetting a required key is not set.
var ErrMissingSetting = errors.New("required setting is not set")

func parseDuration(s string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
