package consultation

import (
	"testing"

	"github.com/google/uuid"
	"github.com/sfsf02/AcceessHealth/pkg/common/models"
	"github.com/sfsf02/AcceessHealth/pkg/terminology"
)

func TestConsultationValidation(t *testing.T) {
	svc := &Service{catalog: terminology.DefaultCatalog()}

	errs := svc.validate(models.ConsultationRequest{
		PatientID:        uuid.New(),
		Date:             "2026-08-20",
		StartTime:        "09:30",
		EndTime:          "10:00",
		ConsultationType: "telemedicine",
		DurationMinutes:  30,
	})
	if len(errs) != 0 {
		t.Fatalf("valid request rejected: %v", errs)
	}

	errs = svc.validate(models.ConsultationRequest{})
	for _, field := range []string{"patient_id", "date", "start_time", "consultation_type"} {
		if errs[field] == "" {
			t.Fatalf("missing %s not reported: %v", field, errs)
		}
	}

	errs = svc.validate(models.ConsultationRequest{
		PatientID:        uuid.New(),
		Date:             "20/08/2026",
		StartTime:        "half nine",
		ConsultationType: "seance",
		DurationMinutes:  -5,
		Status:           "rescheduled",
	})
	if errs["date"] != "date must be YYYY-MM-DD" {
		t.Fatalf("date: got %q", errs["date"])
	}
	if errs["start_time"] != "time must be HH:MM" {
		t.Fatalf("start_time: got %q", errs["start_time"])
	}
	if errs["consultation_type"] != "unknown consultation type" {
		t.Fatalf("consultation_type: got %q", errs["consultation_type"])
	}
	if errs["duration_minutes"] != "duration cannot be negative" {
		t.Fatalf("duration: got %q", errs["duration_minutes"])
	}
	if errs["status"] != "unknown status" {
		t.Fatalf("status: got %q", errs["status"])
	}
}
