package model

import "time"

// TaskID is assigned by the remote authority. Zero means the tarefa has not
// been persisted yet; the client never fabricates an id.
type TaskID int64

func (id TaskID) Persisted() bool { return id != 0 }

type Status string

const (
	StatusPendente    Status = "Pendente"
	StatusEmAndamento Status = "Em Andamento"
	StatusConcluida   Status = "Concluída"
)

// Toggled flips between Pendente and Concluída. Em Andamento is only ever
// reached by direct edit, so any non-concluded status toggles to Concluída.
func (s Status) Toggled() Status {
	if s == StatusConcluida {
		return StatusPendente
	}
	return StatusConcluida
}

func (s Status) Valid() bool {
	switch s {
	case StatusPendente, StatusEmAndamento, StatusConcluida:
		return true
	}
	return false
}

type Tarefa struct {
	ID        TaskID `json:"id,omitempty"`
	Nome      string `json:"nome" validate:"required"`
	Descricao string `json:"descricao,omitempty"`
	Status    Status `json:"status"`

	// HorarioInicio and HorarioFim are both set or both nil for a given
	// instance. Input ordering (inicio <= fim) is the form collaborator's
	// job, not enforced here.
	HorarioInicio *time.Time `json:"horarioInicio,omitempty"`
	HorarioFim    *time.Time `json:"horarioFim,omitempty"`

	ChecklistItems []ChecklistItem `json:"checklistItems,omitempty"`
}

type ChecklistItem struct {
	ID        int64  `json:"id"`
	Texto     string `json:"texto"`
	Concluido bool   `json:"concluido"`
}

// Concluida reports whether the tarefa is done. Em Andamento counts as open.
func (t *Tarefa) Concluida() bool { return t.Status == StatusConcluida }

// ChecklistItem returns a pointer into ChecklistItems for the given item id,
// or nil if the tarefa has no such item.
func (t *Tarefa) ChecklistItem(itemID int64) *ChecklistItem {
	for i := range t.ChecklistItems {
		if t.ChecklistItems[i].ID == itemID {
			return &t.ChecklistItems[i]
		}
	}
	return nil
}

// StartsOn reports whether HorarioInicio falls on the given calendar day in
// local time. Tarefas without a start never match.
func (t *Tarefa) StartsOn(day time.Time) bool {
	if t.HorarioInicio == nil {
		return false
	}
	y1, m1, d1 := t.HorarioInicio.Local().Date()
	y2, m2, d2 := day.Local().Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// Clone returns a deep copy, so optimistic edits never alias the collection.
func (t Tarefa) Clone() Tarefa {
	out := t
	if t.ChecklistItems != nil {
		out.ChecklistItems = make([]ChecklistItem, len(t.ChecklistItems))
		copy(out.ChecklistItems, t.ChecklistItems)
	}
	return out
}
