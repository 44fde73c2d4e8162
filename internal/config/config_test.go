package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{
		"TAXI_HTTP_ADDR", "TAXI_DB_DSN", "TAXI_REDIS_ADDR", "TAXI_KAFKA_BROKERS",
		"TAXI_KAFKA_TOPIC", "TAXI_MAPS_API_KEY", "TAXI_CORS_ORIGINS", "TAXI_SHUTDOWN_TIMEOUT",
	} {
		t.Setenv(k, "")
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("addr = %q", cfg.HTTP.Addr)
	}
	if cfg.HTTP.ShutdownTimeout != 10*time.Second {
		t.Errorf("shutdown timeout = %v", cfg.HTTP.ShutdownTimeout)
	}
	if len(cfg.HTTP.CORSOrigins) != 1 || cfg.HTTP.CORSOrigins[0] != "*" {
		t.Errorf("cors origins = %v", cfg.HTTP.CORSOrigins)
	}
	if cfg.Kafka.Topic != "fare-quotes" {
		t.Errorf("topic = %q", cfg.Kafka.Topic)
	}
	if cfg.PersistenceEnabled() || cfg.EventsEnabled() {
		t.Errorf("optional backends should be off by default: %+v", cfg)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TAXI_HTTP_ADDR", ":9090")
	t.Setenv("TAXI_DB_DSN", "postgres://u:p@db:5432/taxi")
	t.Setenv("TAXI_KAFKA_BROKERS", "k1:9092, k2:9092,,")
	t.Setenv("TAXI_KAFKA_TOPIC", "quotes")
	t.Setenv("TAXI_CORS_ORIGINS", "https://a.aw,https://b.aw")
	t.Setenv("TAXI_SHUTDOWN_TIMEOUT", "3s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Addr != ":9090" || cfg.HTTP.ShutdownTimeout != 3*time.Second {
		t.Errorf("http = %+v", cfg.HTTP)
	}
	if !cfg.PersistenceEnabled() {
		t.Errorf("expected persistence enabled")
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "k2:9092" {
		t.Errorf("brokers = %v", cfg.Kafka.Brokers)
	}
	if len(cfg.HTTP.CORSOrigins) != 2 {
		t.Errorf("cors origins = %v", cfg.HTTP.CORSOrigins)
	}
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	for _, v := range []string{"soon", "-1s"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("TAXI_SHUTDOWN_TIMEOUT", v)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %q", v)
			}
		})
	}
}
