// README: Config loader: optional .env file, then TAXI_* environment variables with defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "TAXI"

type Config struct {
	HTTP struct {
		Addr            string
		CORSOrigins     []string
		ShutdownTimeout time.Duration
	}
	DB struct {
		DSN string
	}
	Redis struct {
		Addr string
	}
	Kafka struct {
		Brokers []string
		Topic   string
	}
	Maps struct {
		APIKey string
	}
}

// PersistenceEnabled reports whether a Postgres DSN was configured.
func (c Config) PersistenceEnabled() bool { return c.DB.DSN != "" }

// EventsEnabled reports whether quote events go to Kafka.
func (c Config) EventsEnabled() bool { return len(c.Kafka.Brokers) > 0 }

// Load reads .env when present and then the environment. Variables already
// set in the environment win over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: reading .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("db_dsn", "")
	v.SetDefault("redis_addr", "")
	v.SetDefault("kafka_brokers", "")
	v.SetDefault("kafka_topic", "fare-quotes")
	v.SetDefault("maps_api_key", "")
	v.SetDefault("cors_origins", "*")
	v.SetDefault("shutdown_timeout", "10s")

	var cfg Config
	cfg.HTTP.Addr = v.GetString("http_addr")
	cfg.HTTP.CORSOrigins = splitList(v.GetString("cors_origins"))
	timeout, err := time.ParseDuration(v.GetString("shutdown_timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("config: %s_SHUTDOWN_TIMEOUT: %w", envPrefix, err)
	}
	if timeout <= 0 {
		return Config{}, fmt.Errorf("config: %s_SHUTDOWN_TIMEOUT must be positive", envPrefix)
	}
	cfg.HTTP.ShutdownTimeout = timeout
	cfg.DB.DSN = v.GetString("db_dsn")
	cfg.Redis.Addr = v.GetString("redis_addr")
	cfg.Kafka.Brokers = splitList(v.GetString("kafka_brokers"))
	cfg.Kafka.Topic = v.GetString("kafka_topic")
	cfg.Maps.APIKey = v.GetString("maps_api_key")

	if cfg.HTTP.Addr == "" {
		return Config{}, fmt.Errorf("config: %s_HTTP_ADDR is empty", envPrefix)
	}
	if cfg.EventsEnabled() && cfg.Kafka.Topic == "" {
		return Config{}, fmt.Errorf("config: %s_KAFKA_TOPIC is required when brokers are set", envPrefix)
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
