// Package view derives what the calendar screen shows from the current
// collection plus a selected date. Everything here is a pure projection:
// no mutation, no network, safe to recompute on every change.
package view

import (
	"sort"
	"time"

	"agendafacil/internal/model"
)

// CalendarView is the calendar display granularity.
type CalendarView string

const (
	ViewMonth  CalendarView = "month"
	ViewYear   CalendarView = "year"
	ViewDecade CalendarView = "decade"
)

// Project sorts and then filters the collection for display.
//
// Sort: open tarefas before concluded ones (stable partition); within each
// partition, ascending by HorarioInicio when both sides have one; tarefas
// without a start keep their relative order.
//
// Filter: with a selected date, only tarefas whose HorarioInicio falls on
// that local calendar day survive; tarefas without a start are excluded
// whenever the filter is active.
func Project(tarefas []model.Tarefa, selectedDate *time.Time) []model.Tarefa {
	sorted := make([]model.Tarefa, len(tarefas))
	copy(sorted, tarefas)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := &sorted[i], &sorted[j]
		if a.Concluida() != b.Concluida() {
			return !a.Concluida()
		}
		if a.HorarioInicio != nil && b.HorarioInicio != nil {
			return a.HorarioInicio.Before(*b.HorarioInicio)
		}
		return false
	})

	if selectedDate == nil {
		return sorted
	}

	out := make([]model.Tarefa, 0, len(sorted))
	for _, t := range sorted {
		if t.StartsOn(*selectedDate) {
			out = append(out, t)
		}
	}
	return out
}

// MarksDay reports whether the calendar should mark the given displayed
// date: true iff the view is at month granularity and at least one tarefa
// starts on that day.
func MarksDay(tarefas []model.Tarefa, day time.Time, view CalendarView) bool {
	if view != ViewMonth {
		return false
	}
	for i := range tarefas {
		if tarefas[i].StartsOn(day) {
			return true
		}
	}
	return false
}
