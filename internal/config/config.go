package config

import (
	"os"
	"strconv"
)

type Config struct {
	APIPort  string
	LogLevel string

	EngineURL            string
	EngineTimeoutSeconds int

	PostgresDSN  string
	SnapshotPath string

	NATSURL           string
	NATSSubjectPrefix string

	ArchivePath string
	ReportsPath string
	CatalogPath string

	MaxUploadBytes int64

	APIRateLimitRPS     float64
	APIRateLimitBurst   int
	APIMaxConcurrent    int
	APIAcquireTimeoutMS int

	WorkerMetricsPort string
}

func Load() Config {
	return Config{
		APIPort:  mustEnv("API_PORT", "8080"),
		LogLevel: mustEnv("LOG_LEVEL", "info"),

		EngineURL:            mustEnv("ENGINE_URL", "http://localhost:8000"),
		EngineTimeoutSeconds: mustEnvInt("ENGINE_TIMEOUT_SECONDS", 120),

		// Postgres is optional; when the DSN is empty the snapshot lives in
		// a local JSON file instead.
		PostgresDSN:  mustEnv("POSTGRES_DSN", ""),
		SnapshotPath: mustEnv("SNAPSHOT_PATH", "./data/snapshot.json"),

		NATSURL:           mustEnv("NATS_URL", "nats://localhost:4222"),
		NATSSubjectPrefix: mustEnv("NATS_SUBJECT_PREFIX", "openrecord"),

		ArchivePath: mustEnv("ARCHIVE_PATH", "./data/archive"),
		ReportsPath: mustEnv("REPORTS_PATH", "./data/reports"),
		CatalogPath: mustEnv("CATALOG_PATH", ""),

		MaxUploadBytes: int64(mustEnvInt("MAX_UPLOAD_BYTES", 50<<20)),

		APIRateLimitRPS:     mustEnvFloat("API_RATE_LIMIT_RPS", 20),
		APIRateLimitBurst:   mustEnvInt("API_RATE_LIMIT_BURST", 40),
		APIMaxConcurrent:    mustEnvInt("API_MAX_CONCURRENT", 64),
		APIAcquireTimeoutMS: mustEnvInt("API_ACQUIRE_TIMEOUT_MS", 100),

		WorkerMetricsPort: mustEnv("WORKER_METRICS_PORT", "9090"),
	}
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
