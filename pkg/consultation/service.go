package consultation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sfsf02/AcceessHealth/pkg/common/logger"
	"github.com/sfsf02/AcceessHealth/pkg/common/models"
	"github.com/sfsf02/AcceessHealth/pkg/observability/metrics"
	"github.com/sfsf02/AcceessHealth/pkg/terminology"
)

type Service struct {
	repo    *Repository
	catalog terminology.Catalog
}

func NewService(repo *Repository, catalog terminology.Catalog) *Service {
	return &Service{repo: repo, catalog: catalog}
}

func validStatus(status string) bool {
	switch status {
	case models.ConsultationPending, models.ConsultationCompleted, models.ConsultationCancelled:
		return true
	}
	return false
}

func (s *Service) validate(req models.ConsultationRequest) models.FieldErrors {
	fieldErrs := models.FieldErrors{}
	if req.PatientID == uuid.Nil {
		fieldErrs["patient_id"] = "patient is required"
	}
	if req.Date == "" {
		fieldErrs["date"] = "date is required"
	} else if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		fieldErrs["date"] = "date must be YYYY-MM-DD"
	}
	if req.StartTime == "" {
		fieldErrs["start_time"] = "start time is required"
	} else if _, err := time.Parse("15:04", req.StartTime); err != nil {
		fieldErrs["start_time"] = "time must be HH:MM"
	}
	if req.EndTime != "" {
		if _, err := time.Parse("15:04", req.EndTime); err != nil {
			fieldErrs["end_time"] = "time must be HH:MM"
		}
	}
	if req.ConsultationType == "" {
		fieldErrs["consultation_type"] = "consultation type is required"
	} else if !s.catalog.ValidConsultationType(req.ConsultationType) {
		fieldErrs["consultation_type"] = "unknown consultation type"
	}
	if req.DurationMinutes < 0 {
		fieldErrs["duration_minutes"] = "duration cannot be negative"
	}
	if req.Status != "" && !validStatus(req.Status) {
		fieldErrs["status"] = "unknown status"
	}
	return fieldErrs
}

func (s *Service) Create(ctx context.Context, doctorID uuid.UUID, req models.ConsultationRequest) (models.Consultation, error) {
	if fieldErrs := s.validate(req); len(fieldErrs) > 0 {
		return models.Consultation{}, fieldErrs
	}

	status := req.Status
	if status == "" {
		status = models.ConsultationPending
	}
	consultation, err := s.repo.Create(ctx, models.Consultation{
		DoctorID:             doctorID,
		PatientID:            req.PatientID,
		AppointmentID:        req.AppointmentID,
		Date:                 req.Date,
		StartTime:            req.StartTime,
		EndTime:              req.EndTime,
		ConsultationType:     req.ConsultationType,
		DurationMinutes:      req.DurationMinutes,
		ChiefComplaint:       req.ChiefComplaint,
		History:              req.History,
		Examination:          req.Examination,
		Diagnosis:            req.Diagnosis,
		TreatmentPlan:        req.TreatmentPlan,
		Medications:          req.Medications,
		FollowUpInstructions: req.FollowUpInstructions,
		Status:               status,
		Notes:                req.Notes,
	})
	if err != nil {
		return models.Consultation{}, err
	}

	metrics.IncConsultation()
	logger.WithFields(map[string]interface{}{
		"consultation_id": consultation.ID,
		"doctor_id":       doctorID,
		"patient_id":      consultation.PatientID,
	}).Info("Consultation recorded")
	return consultation, nil
}

// Get hides records the caller does not own behind not-found.
func (s *Service) Get(ctx context.Context, role string, profileID, consultationID uuid.UUID) (models.Consultation, error) {
	consultation, err := s.repo.Get(ctx, consultationID)
	if err != nil {
		return models.Consultation{}, err
	}
	switch role {
	case models.RoleDoctor:
		if consultation.DoctorID != profileID {
			return models.Consultation{}, ErrConsultationNotFound
		}
	case models.RolePatient:
		if consultation.PatientID != profileID {
			return models.Consultation{}, ErrConsultationNotFound
		}
	default:
		return models.Consultation{}, ErrConsultationNotFound
	}
	return consultation, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter, page, size int) ([]models.Consultation, int64, error) {
	return s.repo.List(ctx, filter, page, size)
}

func (s *Service) Update(ctx context.Context, doctorID, consultationID uuid.UUID, req models.ConsultationRequest) (models.Consultation, error) {
	consultation, err := s.repo.Get(ctx, consultationID)
	if err != nil {
		return models.Consultation{}, err
	}
	if consultation.DoctorID != doctorID {
		return models.Consultation{}, ErrConsultationNotFound
	}
	if fieldErrs := s.validate(req); len(fieldErrs) > 0 {
		return models.Consultation{}, fieldErrs
	}

	updates := map[string]interface{}{
		"patient_id":             req.PatientID,
		"date":                   req.Date,
		"start_time":             req.StartTime,
		"end_time":               req.EndTime,
		"consultation_type":      req.ConsultationType,
		"duration_minutes":       req.DurationMinutes,
		"chief_complaint":        req.ChiefComplaint,
		"history":                req.History,
		"examination":            req.Examination,
		"diagnosis":              req.Diagnosis,
		"treatment_plan":         req.TreatmentPlan,
		"medications":            req.Medications,
		"follow_up_instructions": req.FollowUpInstructions,
		"notes":                  req.Notes,
	}
	if req.Status != "" {
		updates["status"] = req.Status
	}
	if err := s.repo.Update(ctx, consultationID, updates); err != nil {
		return models.Consultation{}, err
	}
	return s.repo.Get(ctx, consultationID)
}

func (s *Service) Delete(ctx context.Context, doctorID, consultationID uuid.UUID) error {
	consultation, err := s.repo.Get(ctx, consultationID)
	if err != nil {
		return err
	}
	if consultation.DoctorID != doctorID {
		return ErrConsultationNotFound
	}
	return s.repo.Delete(ctx, consultationID)
}
