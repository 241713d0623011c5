package config

import (
	"path/filepath"
	"testing"
	"time"

	"crm-metrics/internal/crmapi"
	"crm-metrics/internal/snapshot"
)

func TestFromEnv_Defaults(t *testing.T) {
	dataPath := t.TempDir()
	t.Setenv("DATA_PATH", dataPath)
	for _, key := range []string{
		"LOGS_FOLDER", "CRM_API_URL", "CRM_REQUEST_DELAY_MS", "CRM_CACHE_TTL",
		"SNAPSHOT_ID", "SNAPSHOT_MAX_AGE", "REDIS_ADDR", "REDIS_DB", "REDIS_SNAPSHOT_TTL", "REPORT_TIMEZONE", "ENABLE_MERMAID_CHARTS",
		"CRM_ACTIVITIES_PATH", "CRM_COMPANIES_PATH", "CRM_AGENTS_PATH",
	} {
		t.Setenv(key, "")
	}

	cfg := fromEnv("")

	if cfg.CacheDir != filepath.Join(dataPath, "cache") {
		t.Errorf("Expected cache dir under DATA_PATH, got %s", cfg.CacheDir)
	}
	if cfg.ExportDir != filepath.Join(dataPath, "exports") {
		t.Errorf("Expected export dir under DATA_PATH, got %s", cfg.ExportDir)
	}
	if cfg.HasCRM() {
		t.Error("Expected no CRM without CRM_API_URL")
	}
	if cfg.UseRedis() {
		t.Error("Expected file store without REDIS_ADDR")
	}
	if cfg.CRM.RequestDelay != 250*time.Millisecond {
		t.Errorf("Expected 250ms delay, got %v", cfg.CRM.RequestDelay)
	}
	if cfg.SnapshotID != snapshot.DefaultID {
		t.Errorf("Expected default snapshot id, got %q", cfg.SnapshotID)
	}
	if cfg.SnapshotMaxAge != time.Hour {
		t.Errorf("Expected 1h max age, got %v", cfg.SnapshotMaxAge)
	}
	if cfg.Location != time.UTC {
		t.Errorf("Expected UTC, got %v", cfg.Location)
	}
	if cfg.Redis.TTL != 24*time.Hour {
		t.Errorf("Expected 24h snapshot TTL, got %v", cfg.Redis.TTL)
	}
	if cfg.EnableMermaidCharts {
		t.Error("Expected mermaid charts off by default")
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("DATA_PATH", t.TempDir())
	t.Setenv("LOGS_FOLDER", t.TempDir())
	t.Setenv("CRM_API_URL", "https://crm.example.com")
	t.Setenv("CRM_API_TOKEN", "tok")
	t.Setenv("CRM_ACTIVITIES_PATH", "/rest/v1/activity")
	t.Setenv("CRM_REQUEST_DELAY_MS", "1000")
	t.Setenv("CRM_CACHE_TTL", "30s")
	t.Setenv("SNAPSHOT_ID", "team-a")
	t.Setenv("SNAPSHOT_MAX_AGE", "15m")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("REPORT_TIMEZONE", "Etc/GMT-8")
	t.Setenv("ENABLE_MERMAID_CHARTS", "true")

	cfg := fromEnv("")

	if !cfg.HasCRM() || cfg.CRM.Token != "tok" {
		t.Errorf("Unexpected CRM config: %+v", cfg.CRM)
	}
	if cfg.CRM.ActivitiesPath != "/rest/v1/activity" {
		t.Errorf("Expected custom activities path, got %s", cfg.CRM.ActivitiesPath)
	}
	if cfg.CRM.CompaniesPath != crmapi.DefaultCompaniesPath {
		t.Errorf("Expected default companies path, got %s", cfg.CRM.CompaniesPath)
	}
	if cfg.CRM.RequestDelay != time.Second {
		t.Errorf("Expected 1s delay, got %v", cfg.CRM.RequestDelay)
	}
	if cfg.CRM.CacheTTL != 30*time.Second {
		t.Errorf("Expected 30s cache TTL, got %v", cfg.CRM.CacheTTL)
	}
	if cfg.SnapshotID != "team-a" || cfg.SnapshotMaxAge != 15*time.Minute {
		t.Errorf("Unexpected snapshot config: %s / %v", cfg.SnapshotID, cfg.SnapshotMaxAge)
	}
	if !cfg.UseRedis() || cfg.Redis.DB != 2 {
		t.Errorf("Unexpected redis config: %+v", cfg.Redis)
	}
	if cfg.Location.String() != "Etc/GMT-8" {
		t.Errorf("Expected Etc/GMT-8, got %s", cfg.Location)
	}
	if !cfg.EnableMermaidCharts {
		t.Error("Expected mermaid charts on")
	}
}

func TestFromEnv_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("DATA_PATH", t.TempDir())
	t.Setenv("LOGS_FOLDER", "")
	t.Setenv("CRM_REQUEST_DELAY_MS", "soon")
	t.Setenv("CRM_CACHE_TTL", "forever")
	t.Setenv("REDIS_DB", "x")
	t.Setenv("REPORT_TIMEZONE", "Mars/Olympus")
	t.Setenv("ENABLE_MERMAID_CHARTS", "maybe")

	cfg := fromEnv("")

	if cfg.CRM.RequestDelay != 250*time.Millisecond {
		t.Errorf("Expected fallback delay, got %v", cfg.CRM.RequestDelay)
	}
	if cfg.CRM.CacheTTL != crmapi.DefaultCacheTTL {
		t.Errorf("Expected fallback cache TTL, got %v", cfg.CRM.CacheTTL)
	}
	if cfg.Redis.DB != 0 {
		t.Errorf("Expected fallback redis db, got %d", cfg.Redis.DB)
	}
	if cfg.Location != time.UTC {
		t.Errorf("Expected UTC fallback, got %v", cfg.Location)
	}
	if cfg.EnableMermaidCharts {
		t.Error("Expected invalid bool to fall back to false")
	}
}
