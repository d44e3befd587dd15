// Package config loads the service configuration from FANGBOARD_* env vars,
// with an optional TOML file supplying values the environment leaves unset.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	HTTPAddr    string // FANGBOARD_HTTP_ADDR (default ":8080")
	CounterPath string // FANGBOARD_COUNTER_PATH (default "fangboard-counter.json")
	DatabaseURL string // FANGBOARD_DATABASE_URL (optional; selects the postgres counter store)
	NATSURL     string // FANGBOARD_NATS_URL (optional, empty = no events)
	DataPath    string // FANGBOARD_DATA_PATH (optional JSON dataset; empty = built-in sample)

	// Gate settings
	UnlockSecret   string        // FANGBOARD_UNLOCK_SECRET (empty = built-in default)
	FreePeriod     time.Duration // FANGBOARD_FREE_PERIOD (default 60s)
	UnlockDuration time.Duration // FANGBOARD_UNLOCK_DURATION (default 24h)
	SessionTTL     time.Duration // FANGBOARD_SESSION_TTL (default 30m)

	// Snapshot settings
	SnapshotInterval   time.Duration // FANGBOARD_SNAPSHOT_INTERVAL (default 0 = disabled)
	SnapshotS3Bucket   string        // FANGBOARD_SNAPSHOT_S3_BUCKET (enables S3 when set)
	SnapshotS3Key      string        // FANGBOARD_SNAPSHOT_S3_KEY (default "fangboard/counter.json")
	SnapshotS3Region   string        // FANGBOARD_SNAPSHOT_S3_REGION (default "us-east-1")
	SnapshotS3Endpoint string        // FANGBOARD_SNAPSHOT_S3_ENDPOINT (custom endpoint for MinIO)
}

// fileConfig is the TOML shape; durations are strings like "90s" or "24h".
type fileConfig struct {
	HTTPAddr    string `toml:"http_addr"`
	CounterPath string `toml:"counter_path"`
	DatabaseURL string `toml:"database_url"`
	NATSURL     string `toml:"nats_url"`
	DataPath    string `toml:"data_path"`

	UnlockSecret   string `toml:"unlock_secret"`
	FreePeriod     string `toml:"free_period"`
	UnlockDuration string `toml:"unlock_duration"`
	SessionTTL     string `toml:"session_ttl"`

	SnapshotInterval   string `toml:"snapshot_interval"`
	SnapshotS3Bucket   string `toml:"snapshot_s3_bucket"`
	SnapshotS3Key      string `toml:"snapshot_s3_key"`
	SnapshotS3Region   string `toml:"snapshot_s3_region"`
	SnapshotS3Endpoint string `toml:"snapshot_s3_endpoint"`
}

// Load builds the config: env vars first, then the TOML file named by
// FANGBOARD_CONFIG (if any), then built-in defaults.
func Load() (*Config, error) {
	var file fileConfig
	if path := os.Getenv("FANGBOARD_CONFIG"); path != "" {
		if _, err := toml.DecodeFile(path, &file); err != nil {
			return nil, fmt.Errorf("FANGBOARD_CONFIG %s: %w", path, err)
		}
	}

	c := &Config{
		HTTPAddr:           firstOf(os.Getenv("FANGBOARD_HTTP_ADDR"), file.HTTPAddr, ":8080"),
		CounterPath:        firstOf(os.Getenv("FANGBOARD_COUNTER_PATH"), file.CounterPath, "fangboard-counter.json"),
		DatabaseURL:        firstOf(os.Getenv("FANGBOARD_DATABASE_URL"), file.DatabaseURL, ""),
		NATSURL:            firstOf(os.Getenv("FANGBOARD_NATS_URL"), file.NATSURL, ""),
		DataPath:           firstOf(os.Getenv("FANGBOARD_DATA_PATH"), file.DataPath, ""),
		UnlockSecret:       firstOf(os.Getenv("FANGBOARD_UNLOCK_SECRET"), file.UnlockSecret, ""),
		SnapshotS3Bucket:   firstOf(os.Getenv("FANGBOARD_SNAPSHOT_S3_BUCKET"), file.SnapshotS3Bucket, ""),
		SnapshotS3Key:      firstOf(os.Getenv("FANGBOARD_SNAPSHOT_S3_KEY"), file.SnapshotS3Key, "fangboard/counter.json"),
		SnapshotS3Region:   firstOf(os.Getenv("FANGBOARD_SNAPSHOT_S3_REGION"), file.SnapshotS3Region, "us-east-1"),
		SnapshotS3Endpoint: firstOf(os.Getenv("FANGBOARD_SNAPSHOT_S3_ENDPOINT"), file.SnapshotS3Endpoint, ""),
	}

	var err error
	if c.FreePeriod, err = durationOf("FANGBOARD_FREE_PERIOD", file.FreePeriod, 60*time.Second); err != nil {
		return nil, err
	}
	if c.UnlockDuration, err = durationOf("FANGBOARD_UNLOCK_DURATION", file.UnlockDuration, 24*time.Hour); err != nil {
		return nil, err
	}
	if c.SessionTTL, err = durationOf("FANGBOARD_SESSION_TTL", file.SessionTTL, 30*time.Minute); err != nil {
		return nil, err
	}
	if c.SnapshotInterval, err = durationOf("FANGBOARD_SNAPSHOT_INTERVAL", file.SnapshotInterval, 0); err != nil {
		return nil, err
	}

	return c, nil
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func durationOf(envKey, fileValue string, fallback time.Duration) (time.Duration, error) {
	raw := firstOf(os.Getenv(envKey), fileValue)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", envKey, err)
	}
	return d, nil
}
