package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agendafacil/internal/cache"
	"agendafacil/internal/clock"
	"agendafacil/internal/model"
	"agendafacil/internal/tarefa"
)

// testEnv writes a config file pointing at baseURL plus a stored token, so
// commands run against a controlled authority with an authenticated session.
type testEnv struct {
	cfgPath  string
	snapshot string
}

func newTestEnv(t *testing.T, baseURL string) testEnv {
	t.Helper()
	// Config comes from the file alone.
	for _, key := range []string{
		"AGENDA_API_URL", "AGENDA_TIMEOUT_SECONDS", "AGENDA_TOKEN_FILE",
		"AGENDA_SNAPSHOT_FILE", "AGENDA_BATCH_RECORRENTE", "AGENDA_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}

	dir := t.TempDir()
	tokenFile := filepath.Join(dir, "token")
	snapshot := filepath.Join(dir, "tarefas.json")
	cfgPath := filepath.Join(dir, "config.yaml")

	raw := fmt.Sprintf(
		"api:\n  base_url: %s\nauth:\n  token_file: %s\nsync:\n  snapshot_file: %s\nlog:\n  level: error\n",
		baseURL, tokenFile, snapshot)
	require.NoError(t, os.WriteFile(cfgPath, []byte(raw), 0o600))
	require.NoError(t, os.WriteFile(tokenFile, []byte("tok-test\n"), 0o600))

	return testEnv{cfgPath: cfgPath, snapshot: snapshot}
}

// deadServerURL is a base URL nothing listens on.
func deadServerURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}

func runCmd(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	err := cmd.Execute()
	return buf.String(), err
}

func TestList_OfflineFallsBackToSnapshot(t *testing.T) {
	env := newTestEnv(t, deadServerURL(t))
	require.NoError(t, cache.Write(env.snapshot, []model.Tarefa{
		{ID: 1, Nome: "Dentista", Status: model.StatusPendente},
	}, time.Now()))

	out, err := runCmd(t, listCmd(&env.cfgPath), "--offline")
	require.NoError(t, err)
	assert.Contains(t, out, "Dentista")
}

func TestList_WithoutOfflineFailsOnDeadServer(t *testing.T) {
	env := newTestEnv(t, deadServerURL(t))
	require.NoError(t, cache.Write(env.snapshot, []model.Tarefa{
		{ID: 1, Nome: "Dentista", Status: model.StatusPendente},
	}, time.Now()))

	out, err := runCmd(t, listCmd(&env.cfgPath))
	require.Error(t, err)
	assert.NotContains(t, out, "Dentista")
}

func TestList_OfflineRefusedOnAuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	env := newTestEnv(t, srv.URL)
	require.NoError(t, cache.Write(env.snapshot, []model.Tarefa{
		{ID: 1, Nome: "Dentista", Status: model.StatusPendente},
	}, time.Now()))

	// A dead credential must surface, never be papered over by stale data.
	out, err := runCmd(t, listCmd(&env.cfgPath), "--offline")
	require.Error(t, err)
	assert.ErrorIs(t, err, tarefa.ErrUnauthorized)
	assert.NotContains(t, out, "Dentista")
}

func TestList_OfflineMissingSnapshotReportsLoadError(t *testing.T) {
	env := newTestEnv(t, deadServerURL(t))

	_, err := runCmd(t, listCmd(&env.cfgPath), "--offline")
	require.Error(t, err)
	// The load failure comes through, not the missing-file error.
	assert.Contains(t, err.Error(), "load tarefas")
	assert.NotContains(t, err.Error(), "no such file")
}

func TestList_CalendarMarksTaskDays(t *testing.T) {
	inicio := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	fim := inicio.Add(time.Hour)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]model.Tarefa{
			{ID: 1, Nome: "Dentista", Status: model.StatusPendente,
				HorarioInicio: &inicio, HorarioFim: &fim},
		})
	}))
	t.Cleanup(srv.Close)

	defaultClock = clock.NewFakeClock(time.Date(2025, 3, 15, 12, 0, 0, 0, time.Local))
	t.Cleanup(func() { defaultClock = clock.RealClock{} })

	env := newTestEnv(t, srv.URL)
	out, err := runCmd(t, listCmd(&env.cfgPath), "--calendar")
	require.NoError(t, err)

	assert.Contains(t, out, "March 2025")
	assert.Contains(t, out, "Su Mo Tu We Th Fr Sa")
	assert.Contains(t, out, "10*")
	assert.NotContains(t, out, "15*")
	assert.Contains(t, out, "Dentista")
}

func TestPrintMonth_Layout(t *testing.T) {
	inicio := time.Date(2025, 3, 1, 9, 0, 0, 0, time.Local)
	tarefas := []model.Tarefa{
		{ID: 1, Nome: "a", Status: model.StatusPendente, HorarioInicio: &inicio},
	}

	var buf bytes.Buffer
	printMonth(&buf, tarefas, time.Date(2025, 3, 20, 0, 0, 0, 0, time.Local))
	out := buf.String()

	assert.Contains(t, out, "March 2025")
	// March 2025 starts on a Saturday: the first row indents six cells.
	assert.Contains(t, out, "Su Mo Tu We Th Fr Sa\n                   1*")
	assert.Contains(t, out, "31")
	assert.NotContains(t, out, "2*")
}
