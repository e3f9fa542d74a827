package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusToggled(t *testing.T) {
	tests := []struct {
		in   Status
		want Status
	}{
		{StatusPendente, StatusConcluida},
		{StatusConcluida, StatusPendente},
		// Em Andamento is never produced by a toggle, only consumed.
		{StatusEmAndamento, StatusConcluida},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.in.Toggled(), "toggle of %s", tt.in)
	}
}

func TestStartsOn(t *testing.T) {
	at := time.Date(2025, 3, 10, 14, 0, 0, 0, time.Local)
	withStart := Tarefa{Nome: "A", HorarioInicio: &at}
	noStart := Tarefa{Nome: "B"}

	assert.True(t, withStart.StartsOn(time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)))
	assert.True(t, withStart.StartsOn(time.Date(2025, 3, 10, 23, 59, 0, 0, time.Local)))
	assert.False(t, withStart.StartsOn(time.Date(2025, 3, 11, 14, 0, 0, 0, time.Local)))
	assert.False(t, noStart.StartsOn(time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)))
}

func TestChecklistItemLookup(t *testing.T) {
	tarefa := Tarefa{
		Nome: "Mercado",
		ChecklistItems: []ChecklistItem{
			{ID: 1, Texto: "leite"},
			{ID: 2, Texto: "pão"},
		},
	}

	item := tarefa.ChecklistItem(2)
	if assert.NotNil(t, item) {
		assert.Equal(t, "pão", item.Texto)
		// The pointer aims into the slice, so a flip sticks.
		item.Concluido = true
		assert.True(t, tarefa.ChecklistItems[1].Concluido)
	}

	assert.Nil(t, tarefa.ChecklistItem(99))
}

func TestCloneDoesNotAliasChecklist(t *testing.T) {
	orig := Tarefa{
		Nome:           "A",
		ChecklistItems: []ChecklistItem{{ID: 1, Texto: "x"}},
	}
	cp := orig.Clone()
	cp.ChecklistItems[0].Concluido = true
	assert.False(t, orig.ChecklistItems[0].Concluido)
}

func TestValidateTarefa(t *testing.T) {
	assert.Error(t, ValidateTarefa(Tarefa{Status: StatusPendente}))
	assert.NoError(t, ValidateTarefa(Tarefa{Nome: "ok", Status: StatusPendente}))
}

func TestValidateRecurrenceSpec(t *testing.T) {
	tests := []struct {
		name    string
		spec    RecurrenceSpec
		wantErr bool
	}{
		{"valid", RecurrenceSpec{Nome: "N", DiasDaSemana: []Weekday{Monday}}, false},
		{"missing nome", RecurrenceSpec{DiasDaSemana: []Weekday{Monday}}, true},
		{"empty dias", RecurrenceSpec{Nome: "N"}, true},
		{"bad weekday token", RecurrenceSpec{Nome: "N", DiasDaSemana: []Weekday{"SEGUNDA"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRecurrenceSpec(tt.spec)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
