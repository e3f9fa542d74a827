package config

import (
	"os"
	"strconv"
	"strings"
)

// FromEnv applies environment overrides on top of cfg.
// Falls back to the given values if variables are not set.
func FromEnv(cfg Config) Config {
	if v := os.Getenv("AGENDA_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := getEnvInt("AGENDA_TIMEOUT_SECONDS"); v > 0 {
		cfg.API.TimeoutSeconds = v
	}
	if v := os.Getenv("AGENDA_TOKEN_FILE"); v != "" {
		cfg.Auth.TokenFile = v
	}
	if v := os.Getenv("AGENDA_SNAPSHOT_FILE"); v != "" {
		cfg.Sync.SnapshotFile = v
	}
	if v, ok := getEnvBool("AGENDA_BATCH_RECORRENTE"); ok {
		cfg.Sync.BatchRecorrente = v
	}
	if v := os.Getenv("AGENDA_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	return cfg
}

func getEnvInt(key string) int {
	val := os.Getenv(key)
	if val == "" {
		return 0
	}
	num, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return num
}

func getEnvBool(key string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes":
		return true, true
	case "0", "false", "no":
		return false, true
	}
	return false, false
}
