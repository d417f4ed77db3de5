package config

import (
	"reflect"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "STORAGE_BACKEND", "DATA_FILE", "KAFKA_BROKERS", "KAFKA_TOPIC", "AMQP_URL", "AMQP_EXCHANGE", "CORS_ALLOWED_ORIGIN"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Port)
	}
	if cfg.StorageBackend != BackendFile {
		t.Errorf("expected file backend, got %s", cfg.StorageBackend)
	}
	if cfg.DataFile != "expenses.json" {
		t.Errorf("expected expenses.json, got %s", cfg.DataFile)
	}
	if cfg.KafkaBrokers != nil {
		t.Errorf("expected no kafka brokers, got %v", cfg.KafkaBrokers)
	}
	if cfg.AMQPURL != "" || cfg.AMQPExchange != "expenses" {
		t.Errorf("unexpected AMQP defaults %q %q", cfg.AMQPURL, cfg.AMQPExchange)
	}
	if cfg.CORSAllowedOrigin != "*" {
		t.Errorf("expected wildcard origin, got %s", cfg.CORSAllowedOrigin)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_BACKEND", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/x.db")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092,,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.StorageBackend != BackendSQLite {
		t.Errorf("expected sqlite backend, got %s", cfg.StorageBackend)
	}
	if cfg.SQLitePath != "/tmp/x.db" {
		t.Errorf("expected /tmp/x.db, got %s", cfg.SQLitePath)
	}
	if want := []string{"a:9092", "b:9092"}; !reflect.DeepEqual(cfg.KafkaBrokers, want) {
		t.Errorf("expected brokers %v, got %v", want, cfg.KafkaBrokers)
	}
}

func TestLoad_UnknownBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "redis")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unsupported backend")
	}
}
