// Package cache persists the last successfully loaded collection so the CLI
// can still list tarefas while the authority is unreachable. It is a
// read-only fallback, never a source for mutation.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"agendafacil/internal/model"
)

type Snapshot struct {
	SavedAt time.Time      `json:"savedAt"`
	Tarefas []model.Tarefa `json:"tarefas"`
}

// Write stores the collection atomically (tmp + rename), so a crash never
// leaves a half-written snapshot behind.
func Write(path string, tarefas []model.Tarefa, now time.Time) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	data, err := json.MarshalIndent(Snapshot{SavedAt: now, Tarefas: tarefas}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename snapshot: %w", err)
	}
	return nil
}

// Read loads a previously written snapshot. A missing file is reported as
// os.ErrNotExist for the caller to translate.
func Read(path string) (Snapshot, error) {
	var snap Snapshot
	data, err := os.ReadFile(path)
	if err != nil {
		return snap, err
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("parse snapshot: %w", err)
	}
	return snap, nil
}
