package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Address != ":8083" {
		t.Errorf("server.address = %q", cfg.Server.Address)
	}
	if cfg.Postgres.ConnectionString == "" {
		t.Error("postgres.connection_string is empty")
	}
	if cfg.RabbitMQ.Enabled {
		t.Error("rabbitmq must be disabled by default")
	}
	if cfg.RabbitMQ.PublishTimeout != 5*time.Second {
		t.Errorf("rabbitmq.publish_timeout = %v", cfg.RabbitMQ.PublishTimeout)
	}
	if cfg.Server.RequestTimeout != 0 || cfg.Server.WriteTimeout != 0 {
		t.Errorf("analysis must not be cut by a server deadline: request=%v write=%v",
			cfg.Server.RequestTimeout, cfg.Server.WriteTimeout)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("POSTGRES_CONNECTION_STRING", "host=localhost dbname=test")
	t.Setenv("RABBITMQ_ENABLED", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Postgres.ConnectionString != "host=localhost dbname=test" {
		t.Errorf("connection string = %q", cfg.Postgres.ConnectionString)
	}
	if !cfg.RabbitMQ.Enabled {
		t.Error("RABBITMQ_ENABLED was not applied")
	}
}
