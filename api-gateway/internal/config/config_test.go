package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.FileStorage.BaseURL != "http://filestorage" || cfg.Analysis.BaseURL != "http://analysis" {
		t.Errorf("unexpected peer defaults: %+v %+v", cfg.FileStorage, cfg.Analysis)
	}
	if cfg.FileStorage.Timeout != 0 || cfg.Analysis.Timeout != 0 || cfg.Server.RequestTimeout != 0 {
		t.Error("peer calls must have no deadline by default")
	}
	if cfg.Postgres.MigrationsPath != "file://migrations" {
		t.Errorf("migrations_path = %q", cfg.Postgres.MigrationsPath)
	}
	if cfg.WordCloud.BaseURL != "https://quickchart.io/wordcloud" {
		t.Errorf("wordcloud.base_url = %q", cfg.WordCloud.BaseURL)
	}
	if cfg.RateLimit.RPS != 0 {
		t.Errorf("rate limit must be off by default, rps = %v", cfg.RateLimit.RPS)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FILE_STORAGE_BASE_URL", "http://localhost:8082")
	t.Setenv("ANALYSIS_BASE_URL", "http://localhost:8083")
	t.Setenv("POSTGRES_CONNECTION_STRING", "host=localhost dbname=test")
	t.Setenv("ANALYSIS_TIMEOUT", "3s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.FileStorage.BaseURL != "http://localhost:8082" || cfg.Analysis.BaseURL != "http://localhost:8083" {
		t.Errorf("env not applied: %+v %+v", cfg.FileStorage, cfg.Analysis)
	}
	if cfg.Postgres.ConnectionString != "host=localhost dbname=test" {
		t.Errorf("connection string = %q", cfg.Postgres.ConnectionString)
	}
	if cfg.Analysis.Timeout != 3*time.Second {
		t.Errorf("analysis.timeout = %v", cfg.Analysis.Timeout)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.Mkdir(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}

	yaml := "rate_limit:\n  rps: 5\n  burst: 2\nwordcloud:\n  base_url: http://cloud.local/render\n"
	if err := os.WriteFile(filepath.Join(dir, "config", "config.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RateLimit.RPS != 5 || cfg.RateLimit.Burst != 2 || cfg.WordCloud.BaseURL != "http://cloud.local/render" {
		t.Errorf("yaml not applied: %+v %+v", cfg.RateLimit, cfg.WordCloud)
	}
}

func TestLoadBrokenYAML(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Error("expected error for malformed config")
	}
}
