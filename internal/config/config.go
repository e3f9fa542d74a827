package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	API  API  `yaml:"api" json:"api"`
	Auth Auth `yaml:"auth" json:"auth"`
	Sync Sync `yaml:"sync" json:"sync"`
	Log  Log  `yaml:"log" json:"log"`
}

type API struct {
	BaseURL        string `yaml:"base_url" json:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds" json:"timeout_seconds"`
}

type Auth struct {
	TokenFile string `yaml:"token_file" json:"token_file"`
}

type Sync struct {
	// BatchRecorrente ships the normalized recurrence template to the
	// authority's batch endpoint instead of one create per weekday.
	BatchRecorrente bool   `yaml:"batch_recorrente" json:"batch_recorrente"`
	SnapshotFile    string `yaml:"snapshot_file" json:"snapshot_file"`
}

type Log struct {
	Level string `yaml:"level" json:"level"`
}

func Default() Config {
	home, _ := os.UserHomeDir()
	dir := filepath.Join(home, ".agendafacil")
	return Config{
		API: API{
			BaseURL:        "http://localhost:8080",
			TimeoutSeconds: 15,
		},
		Auth: Auth{TokenFile: filepath.Join(dir, "token")},
		Sync: Sync{SnapshotFile: filepath.Join(dir, "tarefas.json")},
		Log:  Log{Level: "info"},
	}
}

// Load reads a yaml config file over the defaults. A missing file yields
// the defaults, so a fresh install works without any setup.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FromEnv(cfg), nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return FromEnv(cfg), nil
}

// DefaultPath is where Load looks when the user doesn't pass --config.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".agendafacil", "config.yaml")
}
