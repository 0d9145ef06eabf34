package scheduling

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sfsf02/AcceessHealth/pkg/common/models"
	"github.com/sfsf02/AcceessHealth/pkg/terminology"
	"gorm.io/gorm"
)

func testService() *Service {
	return &Service{
		catalog: terminology.DefaultCatalog(),
		now: func() time.Time {
			return time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
		},
	}
}

func TestDoctorBookingRequiresPatient(t *testing.T) {
	svc := testService()

	_, err := svc.BookByDoctor(context.Background(), uuid.New(), models.BookAppointmentRequest{
		AppointmentDate: "2026-09-01",
		AppointmentTime: "14:30",
	})
	var fieldErrs models.FieldErrors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("expected field errors, got %v", err)
	}
	if fieldErrs["patient_id"] != "patient is required" {
		t.Fatalf("patient_id: got %v", fieldErrs)
	}
}

func TestDoctorBookingValidatesSlot(t *testing.T) {
	svc := testService()

	_, err := svc.BookByDoctor(context.Background(), uuid.New(), models.BookAppointmentRequest{
		PatientID:       uuid.Nil,
		AppointmentDate: "2026-08-28",
		AppointmentTime: "14:30",
		AppointmentType: "surgery consult",
	})
	var fieldErrs models.FieldErrors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("expected field errors, got %v", err)
	}
	if fieldErrs["appointment_date"] != "appointment cannot be in the past" {
		t.Fatalf("appointment_date: got %v", fieldErrs)
	}
	if fieldErrs["appointment_type"] != "unknown appointment type" {
		t.Fatalf("appointment_type: got %v", fieldErrs)
	}
}

func TestUniqueViolationRecognised(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505"}
	if !isUniqueViolation(pgErr) {
		t.Fatal("unique_violation not recognised")
	}
	if !isUniqueViolation(fmt.Errorf("create appointment: %w", pgErr)) {
		t.Fatal("wrapped unique_violation not recognised")
	}
	if !isUniqueViolation(gorm.ErrDuplicatedKey) {
		t.Fatal("gorm duplicated-key not recognised")
	}
	if isUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatal("foreign-key violation misread as a slot conflict")
	}
	if isUniqueViolation(errors.New("connection reset")) {
		t.Fatal("arbitrary error misread as a slot conflict")
	}
}
