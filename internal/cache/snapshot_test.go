package cache

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agendafacil/internal/model"
)

func TestWriteReadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tarefas.json")
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	tarefas := []model.Tarefa{
		{ID: 1, Nome: "Dentista", Status: model.StatusPendente,
			ChecklistItems: []model.ChecklistItem{{ID: 1, Texto: "levar carteirinha"}}},
		{ID: 2, Nome: "Mercado", Status: model.StatusConcluida},
	}

	require.NoError(t, Write(path, tarefas, now))

	snap, err := Read(path)
	require.NoError(t, err)
	assert.True(t, snap.SavedAt.Equal(now))
	require.Len(t, snap.Tarefas, 2)
	assert.Equal(t, "Dentista", snap.Tarefas[0].Nome)
	assert.Equal(t, "levar carteirinha", snap.Tarefas[0].ChecklistItems[0].Texto)
}

func TestWrite_EmptyPathIsNoop(t *testing.T) {
	assert.NoError(t, Write("", []model.Tarefa{{ID: 1, Nome: "a"}}, time.Now()))
}

func TestWrite_LeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tarefas.json")
	require.NoError(t, Write(path, nil, time.Now()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "tarefas.json", entries[0].Name())
}

func TestRead_MissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "gone.json"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestRead_CorruptSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tarefas.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := Read(path)
	assert.Error(t, err)
}
