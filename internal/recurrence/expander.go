// Package recurrence turns a weekly recurrence template into concrete,
// independently-completable task creation requests, one per selected
// weekday. Date anchoring is the remote authority's job; a single expansion
// covers exactly one batch, never future occurrences.
package recurrence

import "agendafacil/internal/model"

const (
	// Substituted when the template omits a time. Permissiveness, not
	// validation: the form collaborator owns input constraints.
	DefaultHorarioInicio = "09:00"
	DefaultHorarioFim    = "10:00"
)

// Expand emits one create request per distinct weekday in spec.DiasDaSemana,
// in selection order with duplicates collapsed. Every request carries the
// template's nome/descricao, status Pendente and the shared time window.
// Expand is pure and has no failure mode; an empty weekday set yields nil
// (callers dispatch that case to single-task creation instead).
func Expand(spec model.RecurrenceSpec) []model.TaskCreate {
	dias := distinctDias(spec.DiasDaSemana)
	if len(dias) == 0 {
		return nil
	}

	inicio, fim := defaultTimes(spec.HorarioInicio, spec.HorarioFim)

	out := make([]model.TaskCreate, 0, len(dias))
	for _, dia := range dias {
		out = append(out, model.TaskCreate{
			Nome:          spec.Nome,
			Descricao:     spec.Descricao,
			Status:        model.StatusPendente,
			Dia:           dia,
			HorarioInicio: inicio,
			HorarioFim:    fim,
		})
	}
	return out
}

// Normalize returns the spec with duplicates collapsed and time defaults
// applied, for callers that ship the template itself to the authority.
func Normalize(spec model.RecurrenceSpec) model.RecurrenceSpec {
	out := spec
	out.DiasDaSemana = distinctDias(spec.DiasDaSemana)
	out.HorarioInicio, out.HorarioFim = defaultTimes(spec.HorarioInicio, spec.HorarioFim)
	return out
}

func distinctDias(dias []model.Weekday) []model.Weekday {
	seen := make(map[model.Weekday]bool, len(dias))
	out := make([]model.Weekday, 0, len(dias))
	for _, d := range dias {
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func defaultTimes(inicio, fim string) (string, string) {
	if inicio == "" {
		inicio = DefaultHorarioInicio
	}
	if fim == "" {
		fim = DefaultHorarioFim
	}
	return inicio, fim
}
