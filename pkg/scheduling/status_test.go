package scheduling

import (
	"testing"
	"time"

	"github.com/sfsf02/AcceessHealth/pkg/common/models"
)

func TestTransitions(t *testing.T) {
	allowed := [][2]string{
		{models.AppointmentPending, models.AppointmentConfirmed},
		{models.AppointmentPending, models.AppointmentCancelled},
		{models.AppointmentConfirmed, models.AppointmentCompleted},
		{models.AppointmentConfirmed, models.AppointmentCancelled},
		{models.AppointmentPending, models.AppointmentPending},
	}
	for _, pair := range allowed {
		if err := ValidateTransition(pair[0], pair[1]); err != nil {
			t.Fatalf("%s -> %s should be allowed: %v", pair[0], pair[1], err)
		}
	}

	blocked := [][2]string{
		{models.AppointmentPending, models.AppointmentCompleted},
		{models.AppointmentCompleted, models.AppointmentPending},
		{models.AppointmentCompleted, models.AppointmentCancelled},
		{models.AppointmentCancelled, models.AppointmentConfirmed},
		{models.AppointmentCancelled, models.AppointmentPending},
	}
	for _, pair := range blocked {
		err := ValidateTransition(pair[0], pair[1])
		if err == nil {
			t.Fatalf("%s -> %s should be blocked", pair[0], pair[1])
		}
		if !models.IsFieldErrors(err) {
			t.Fatalf("expected a field error, got %T", err)
		}
	}
}

func TestValidStatus(t *testing.T) {
	for _, status := range []string{"pending", "confirmed", "completed", "cancelled"} {
		if !ValidStatus(status) {
			t.Fatalf("%s should be valid", status)
		}
	}
	if ValidStatus("rescheduled") {
		t.Fatal("unknown status accepted")
	}
}

func TestValidateSlot(t *testing.T) {
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	if errs := ValidateSlot("2026-09-01", "14:30", now); errs != nil {
		t.Fatalf("future slot rejected: %v", errs)
	}
	if errs := ValidateSlot("2026-08-29", "10:30", now); errs != nil {
		t.Fatalf("later today rejected: %v", errs)
	}

	// The past check is date-only; a same-day slot at an earlier clock
	// time is still accepted.
	if errs := ValidateSlot("2026-08-29", "09:00", now); errs != nil {
		t.Fatalf("earlier today rejected: %v", errs)
	}
	if errs := ValidateSlot("2026-08-28", "14:30", now); errs["appointment_date"] != "appointment cannot be in the past" {
		t.Fatalf("past date: got %v", errs)
	}
	if errs := ValidateSlot("29/08/2026", "14:30", now); errs["appointment_date"] != "date must be YYYY-MM-DD" {
		t.Fatalf("bad date format: got %v", errs)
	}
	if errs := ValidateSlot("2026-09-01", "2pm", now); errs["appointment_time"] != "time must be HH:MM" {
		t.Fatalf("bad time format: got %v", errs)
	}
}
