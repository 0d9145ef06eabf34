package scheduling

import (
	"fmt"
	"time"

	"github.com/sfsf02/AcceessHealth/pkg/common/models"
)

func nowDate() string {
	return time.Now().Format("2006-01-02")
}

// transitions encodes the appointment lifecycle. Completed and
// cancelled are terminal.
var transitions = map[string][]string{
	models.AppointmentPending:   {models.AppointmentConfirmed, models.AppointmentCancelled},
	models.AppointmentConfirmed: {models.AppointmentCompleted, models.AppointmentCancelled},
	models.AppointmentCompleted: {},
	models.AppointmentCancelled: {},
}

func ValidStatus(status string) bool {
	_, ok := transitions[status]
	return ok
}

func ValidateTransition(from, to string) error {
	if from == to {
		return nil
	}
	for _, allowed := range transitions[from] {
		if allowed == to {
			return nil
		}
	}
	return models.FieldErrors{"status": fmt.Sprintf("cannot move appointment from %s to %s", from, to)}
}

// ValidateSlot checks the date and time formats and rejects dates
// before today. The comparison is date-only, so any slot on the
// current day is still bookable.
func ValidateSlot(date, timeOfDay string, now time.Time) models.FieldErrors {
	fieldErrs := models.FieldErrors{}

	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		fieldErrs["appointment_date"] = "date must be YYYY-MM-DD"
	}
	if _, err := time.Parse("15:04", timeOfDay); err != nil {
		fieldErrs["appointment_time"] = "time must be HH:MM"
	}
	if len(fieldErrs) > 0 {
		return fieldErrs
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	slotDay := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	if slotDay.Before(today) {
		fieldErrs["appointment_date"] = "appointment cannot be in the past"
		return fieldErrs
	}
	return nil
}
