package config

import (
	"os"
	"strconv"
)

const (
	defaultBetaTable = "beta_results"
	defaultProdTable = "prod_results"
	defaultRegion    = "us-east-1"
	// defaultTTLHours keeps results for 7 days before the table's TTL
	// sweep removes them.
	defaultTTLHours = 168
)

// Config holds all settings for the pipeline, resolved from the
// environment once at process start.
type Config struct {
	BetaTable string
	ProdTable string
	Region    string
	TTLHours  int
	// Bucket is the upload destination for CLI directory mode. Unused
	// in Lambda mode, where the bucket comes from the event.
	Bucket string
	// Endpoint overrides the AWS endpoint, e.g. for localstack.
	Endpoint string
}

// Load reads configuration from environment variables, falling back to
// defaults for anything unset or invalid.
func Load() Config {
	return Config{
		BetaTable: getEnv("DDB_TABLE_BETA", defaultBetaTable),
		ProdTable: getEnv("DDB_TABLE_PROD", defaultProdTable),
		Region:    getEnv("AWS_REGION", defaultRegion),
		TTLHours:  getEnvPositiveInt("TTL_HOURS", defaultTTLHours),
		Bucket:    os.Getenv("S3_BUCKET"),
		Endpoint:  os.Getenv("AWS_ENDPOINT"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvPositiveInt falls back to def for unset, unparseable, zero, or
// negative values. A bad TTL must never fail an invocation.
func getEnvPositiveInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil || i <= 0 {
		return def
	}
	return i
}
