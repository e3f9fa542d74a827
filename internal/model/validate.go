package model

import "github.com/go-playground/validator/v10"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// "weekday" restricts dive targets to the authority's weekday tokens.
	_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		return Weekday(fl.Field().String()).Valid()
	})
	return v
}

// ValidateTarefa checks local invariants before any mutation is attempted.
func ValidateTarefa(t Tarefa) error {
	return validate.Struct(t)
}

// ValidateRecurrenceSpec checks a recurrence template before expansion.
func ValidateRecurrenceSpec(spec RecurrenceSpec) error {
	return validate.Struct(spec)
}

// ValidateTaskCreate checks a single creation request.
func ValidateTaskCreate(req TaskCreate) error {
	return validate.Struct(req)
}
