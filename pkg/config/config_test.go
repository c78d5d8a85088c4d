package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Searcher.SlowTableSize != 10 {
		t.Errorf("slow table size = %d, want 10", cfg.Searcher.SlowTableSize)
	}
	if cfg.Searcher.ReportTitles != 50 {
		t.Errorf("report titles = %d, want 50", cfg.Searcher.ReportTitles)
	}
	if cfg.Searcher.Workers != 1 {
		t.Errorf("workers = %d, want 1", cfg.Searcher.Workers)
	}
	if cfg.Indexer.MetadataSource != "blob" {
		t.Errorf("metadata source = %q, want blob", cfg.Indexer.MetadataSource)
	}
	if cfg.Metrics.Enabled {
		t.Error("metrics should be disabled by default")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
searcher:
  resultLimit: 25
  workers: 8
  cacheEnabled: true
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Searcher.ResultLimit != 25 {
		t.Errorf("result limit = %d, want 25", cfg.Searcher.ResultLimit)
	}
	if cfg.Searcher.Workers != 8 {
		t.Errorf("workers = %d, want 8", cfg.Searcher.Workers)
	}
	if !cfg.Searcher.CacheEnabled {
		t.Error("cache should be enabled")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Logging.Level)
	}
	// Unset fields keep their defaults.
	if cfg.Searcher.SlowTableSize != 10 {
		t.Errorf("slow table size = %d, want default 10", cfg.Searcher.SlowTableSize)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("IR_REDIS_ADDR", "redis.internal:6380")
	t.Setenv("IR_LOGGING_LEVEL", "warn")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Redis.Addr != "redis.internal:6380" {
		t.Errorf("redis addr = %q, want override", cfg.Redis.Addr)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("log level = %q, want warn", cfg.Logging.Level)
	}
}
