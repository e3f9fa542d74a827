package view

import (
	"fmt"
	"strings"
	"time"

	"agendafacil/internal/model"
)

const icsStampLayout = "20060102T150405Z"

// BuildDayICS builds an iCalendar document for the tarefas of one calendar
// day, one VEVENT per tarefa. Only tarefas with a time window on that day
// are exported; a day with none is an error so the caller never ships an
// empty calendar.
func BuildDayICS(tarefas []model.Tarefa, day time.Time, now time.Time) (string, error) {
	projected := Project(tarefas, &day)

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//AgendaFacil//Tarefa Export//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
	}

	events := 0
	for _, t := range projected {
		if t.HorarioInicio == nil || t.HorarioFim == nil {
			continue
		}
		lines = append(lines, buildEvent(t, now)...)
		events++
	}
	if events == 0 {
		return "", fmt.Errorf("no tarefas with a time window on %s", day.Format("2006-01-02"))
	}

	lines = append(lines, "END:VCALENDAR", "")
	return strings.Join(lines, "\r\n"), nil
}

func buildEvent(t model.Tarefa, now time.Time) []string {
	nome := strings.TrimSpace(t.Nome)
	if nome == "" {
		nome = "Tarefa"
	}

	uid := fmt.Sprintf("tarefa-%d@agendafacil", t.ID)
	if !t.ID.Persisted() {
		uid = fmt.Sprintf("tarefa-export-%d@agendafacil", now.UnixNano())
	}

	lines := []string{
		"BEGIN:VEVENT",
		"UID:" + escapeICSText(uid),
		"DTSTAMP:" + now.UTC().Format(icsStampLayout),
		"SUMMARY:" + escapeICSText(nome),
		"DTSTART:" + t.HorarioInicio.UTC().Format(icsStampLayout),
		"DTEND:" + t.HorarioFim.UTC().Format(icsStampLayout),
	}
	if desc := strings.TrimSpace(t.Descricao); desc != "" {
		lines = append(lines, "DESCRIPTION:"+escapeICSText(desc))
	}
	lines = append(lines, "STATUS:"+icsStatus(t.Status), "END:VEVENT")
	return lines
}

func icsStatus(s model.Status) string {
	switch s {
	case model.StatusConcluida:
		return "COMPLETED"
	case model.StatusEmAndamento:
		return "IN-PROCESS"
	default:
		return "NEEDS-ACTION"
	}
}

// RecurrenceRRULE renders a weekly RRULE for a recurrence template, e.g.
// FREQ=WEEKLY;BYDAY=MO,WE. An empty weekday set yields "".
func RecurrenceRRULE(spec model.RecurrenceSpec) string {
	bydays := make([]string, 0, len(spec.DiasDaSemana))
	seen := map[string]bool{}
	for _, dia := range spec.DiasDaSemana {
		code, ok := icsByDay[dia]
		if !ok || seen[code] {
			continue
		}
		seen[code] = true
		bydays = append(bydays, code)
	}
	if len(bydays) == 0 {
		return ""
	}
	return "FREQ=WEEKLY;BYDAY=" + strings.Join(bydays, ",")
}

var icsByDay = map[model.Weekday]string{
	model.Monday:    "MO",
	model.Tuesday:   "TU",
	model.Wednesday: "WE",
	model.Thursday:  "TH",
	model.Friday:    "FR",
	model.Saturday:  "SA",
	model.Sunday:    "SU",
}

func escapeICSText(s string) string {
	repl := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\r\n", "\\n",
		"\n", "\\n",
		"\r", "\\n",
	)
	return repl.Replace(s)
}
