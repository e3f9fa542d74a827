package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agendafacil/internal/model"
)

func at(day, hhmm string) *time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", day+" "+hhmm, time.Local)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestProject_OpenBeforeConcluded(t *testing.T) {
	tarefas := []model.Tarefa{
		{ID: 1, Nome: "done early", Status: model.StatusConcluida, HorarioInicio: at("2025-03-10", "06:00")},
		{ID: 2, Nome: "open late", Status: model.StatusPendente, HorarioInicio: at("2025-03-10", "22:00")},
		{ID: 3, Nome: "in progress", Status: model.StatusEmAndamento},
	}

	got := Project(tarefas, nil)
	require.Len(t, got, 3)
	// An open tarefa sorts before a concluded one regardless of times.
	assert.Equal(t, model.TaskID(2), got[0].ID)
	assert.Equal(t, model.TaskID(3), got[1].ID)
	assert.Equal(t, model.TaskID(1), got[2].ID)
}

func TestProject_TimeOrderWithinPartition(t *testing.T) {
	tarefas := []model.Tarefa{
		{ID: 1, Nome: "noon", Status: model.StatusPendente, HorarioInicio: at("2025-03-10", "12:00")},
		{ID: 2, Nome: "morning", Status: model.StatusPendente, HorarioInicio: at("2025-03-10", "08:00")},
		{ID: 3, Nome: "no time a", Status: model.StatusPendente},
		{ID: 4, Nome: "no time b", Status: model.StatusPendente},
	}

	got := Project(tarefas, nil)
	require.Len(t, got, 4)
	assert.Equal(t, model.TaskID(2), got[0].ID)
	assert.Equal(t, model.TaskID(1), got[1].ID)
	// Tarefas without a start keep their relative order.
	assert.Equal(t, model.TaskID(3), got[2].ID)
	assert.Equal(t, model.TaskID(4), got[3].ID)
}

func TestProject_DateFilter(t *testing.T) {
	selected := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	tarefas := []model.Tarefa{
		{ID: 1, Nome: "kept", Status: model.StatusPendente, HorarioInicio: at("2025-03-10", "14:00")},
		{ID: 2, Nome: "next day", Status: model.StatusPendente, HorarioInicio: at("2025-03-11", "09:00")},
		{ID: 3, Nome: "no start", Status: model.StatusPendente},
	}

	got := Project(tarefas, &selected)
	require.Len(t, got, 1)
	assert.Equal(t, model.TaskID(1), got[0].ID)
}

func TestProject_DoesNotMutateInput(t *testing.T) {
	tarefas := []model.Tarefa{
		{ID: 1, Status: model.StatusConcluida},
		{ID: 2, Status: model.StatusPendente},
	}
	_ = Project(tarefas, nil)
	assert.Equal(t, model.TaskID(1), tarefas[0].ID)
}

func TestMarksDay(t *testing.T) {
	tarefas := []model.Tarefa{
		{ID: 1, Nome: "a", HorarioInicio: at("2025-03-10", "14:00")},
		{ID: 2, Nome: "b"},
	}

	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	other := time.Date(2025, 3, 12, 0, 0, 0, 0, time.Local)

	assert.True(t, MarksDay(tarefas, day, ViewMonth))
	assert.False(t, MarksDay(tarefas, other, ViewMonth))
	// Only month granularity ever marks.
	assert.False(t, MarksDay(tarefas, day, ViewYear))
	assert.False(t, MarksDay(tarefas, day, ViewDecade))
	assert.False(t, MarksDay(nil, day, ViewMonth))
}
