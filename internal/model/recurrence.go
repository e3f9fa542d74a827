package model

// Weekday tokens as the remote authority spells them.
type Weekday string

const (
	Monday    Weekday = "MONDAY"
	Tuesday   Weekday = "TUESDAY"
	Wednesday Weekday = "WEDNESDAY"
	Thursday  Weekday = "THURSDAY"
	Friday    Weekday = "FRIDAY"
	Saturday  Weekday = "SATURDAY"
	Sunday    Weekday = "SUNDAY"
)

var weekdays = map[Weekday]bool{
	Monday:    true,
	Tuesday:   true,
	Wednesday: true,
	Thursday:  true,
	Friday:    true,
	Saturday:  true,
	Sunday:    true,
}

func (w Weekday) Valid() bool { return weekdays[w] }

// RecurrenceSpec is a weekly-repeating task template. It is transient input
// for expansion and never appears in the task collection itself.
type RecurrenceSpec struct {
	Nome      string `json:"nome" validate:"required"`
	Descricao string `json:"descricao,omitempty"`

	// DiasDaSemana is the selected weekday set; order is the selection
	// order, duplicates are collapsed during expansion.
	DiasDaSemana []Weekday `json:"diasDaSemana" validate:"required,min=1,dive,weekday"`

	// Time-of-day values ("HH:MM"), shared by every generated instance.
	HorarioInicio string `json:"horarioInicio,omitempty"`
	HorarioFim    string `json:"horarioFim,omitempty"`
}

// TaskCreate is one concrete creation request produced by expansion or by
// direct single-task input. The authority assigns the id (and, for
// recurring instances, anchors the weekday to a calendar date).
type TaskCreate struct {
	Nome      string `json:"nome" validate:"required"`
	Descricao string `json:"descricao,omitempty"`
	Status    Status `json:"status"`

	// Dia is set only on recurring instances. The horario fields carry an
	// RFC 3339 timestamp for direct creation and a "HH:MM" time-of-day
	// when Dia is present.
	Dia           Weekday `json:"diaDaSemana,omitempty"`
	HorarioInicio string  `json:"horarioInicio,omitempty"`
	HorarioFim    string  `json:"horarioFim,omitempty"`
}
