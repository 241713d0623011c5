package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
	_ "time/tzdata" // REPORT_TIMEZONE must resolve on hosts without zoneinfo

	"crm-metrics/internal/crmapi"
	"crm-metrics/internal/snapshot"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// RedisConfig selects the Redis snapshot store. Empty Addr means the file store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// TTL expires stored snapshots; 0 keeps them.
	TTL time.Duration
}

// AppConfig holds the complete application configuration.
type AppConfig struct {
	CRM crmapi.Config

	DataPath  string
	LogDir    string
	CacheDir  string
	ExportDir string

	SnapshotID     string
	SnapshotMaxAge time.Duration
	Redis          RedisConfig

	// Location is the zone date filters and naive timestamps are read in.
	Location *time.Location

	EnableMermaidCharts bool
}

// HasCRM reports whether a CRM API endpoint is configured.
func (c *AppConfig) HasCRM() bool {
	return c.CRM.BaseURL != ""
}

// UseRedis reports whether snapshots go to Redis instead of the cache directory.
func (c *AppConfig) UseRedis() bool {
	return c.Redis.Addr != ""
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory (highest priority for MCP servers)
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	return fromEnv(exeDir), nil
}

// fromEnv builds the configuration from the process environment.
func fromEnv(exeDir string) *AppConfig {
	// Resolve Data Paths
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	logDir := getEnv("LOGS_FOLDER", filepath.Join(dataPath, "logs"))
	cacheDir := filepath.Join(dataPath, "cache")
	exportDir := filepath.Join(dataPath, "exports")

	for _, dir := range []string{logDir, cacheDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Warn().Err(err).Str("path", dir).Msg("Failed to create directory")
		}
	}

	delayMs, err := strconv.Atoi(getEnv("CRM_REQUEST_DELAY_MS", "250"))
	if err != nil || delayMs < 0 {
		log.Warn().Str("value", os.Getenv("CRM_REQUEST_DELAY_MS")).Msg("Invalid CRM_REQUEST_DELAY_MS, using 250")
		delayMs = 250
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		log.Warn().Str("value", os.Getenv("REDIS_DB")).Msg("Invalid REDIS_DB, using 0")
		redisDB = 0
	}

	return &AppConfig{
		CRM: crmapi.Config{
			BaseURL:        getEnv("CRM_API_URL", ""),
			Token:          getEnv("CRM_API_TOKEN", ""),
			APIKey:         getEnv("CRM_API_KEY", ""),
			ActivitiesPath: getEnv("CRM_ACTIVITIES_PATH", crmapi.DefaultActivitiesPath),
			CompaniesPath:  getEnv("CRM_COMPANIES_PATH", crmapi.DefaultCompaniesPath),
			AgentsPath:     getEnv("CRM_AGENTS_PATH", crmapi.DefaultAgentsPath),
			RequestDelay:   time.Duration(delayMs) * time.Millisecond,
			CacheTTL:       getEnvDuration("CRM_CACHE_TTL", crmapi.DefaultCacheTTL),
		},
		DataPath:       dataPath,
		LogDir:         logDir,
		CacheDir:       cacheDir,
		ExportDir:      exportDir,
		SnapshotID:     getEnv("SNAPSHOT_ID", snapshot.DefaultID),
		SnapshotMaxAge: getEnvDuration("SNAPSHOT_MAX_AGE", time.Hour),
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
			TTL:      getEnvDuration("REDIS_SNAPSHOT_TTL", 24*time.Hour),
		},
		Location:            getEnvLocation("REPORT_TIMEZONE", time.UTC),
		EnableMermaidCharts: getEnvBool("ENABLE_MERMAID_CHARTS", false),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Invalid duration, using default")
	}
	return fallback
}

func getEnvLocation(key string, fallback *time.Location) *time.Location {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if loc, err := time.LoadLocation(value); err == nil {
			return loc
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Unknown time zone, using default")
	}
	return fallback
}
