package hospital

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sfsf02/AcceessHealth/pkg/common/logger"
	"github.com/sfsf02/AcceessHealth/pkg/common/models"
)

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, hospital models.Hospital) (models.Hospital, error) {
	fieldErrs := models.FieldErrors{}
	if strings.TrimSpace(hospital.Name) == "" {
		fieldErrs["name"] = "name is required"
	}
	if strings.TrimSpace(hospital.District) == "" {
		fieldErrs["district"] = "district is required"
	}
	if hospital.ConsultationFee < 0 {
		fieldErrs["consultation_fee"] = "consultation fee cannot be negative"
	}
	if len(fieldErrs) > 0 {
		return models.Hospital{}, fieldErrs
	}
	return s.repo.Create(ctx, hospital)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (models.Hospital, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, query, district string, page, size int) ([]models.Hospital, int64, error) {
	return s.repo.List(ctx, query, district, page, size)
}

// AddAffiliation links a doctor to a hospital. A doctor can hold at
// most one affiliation per hospital; a unique index on
// (doctor_id, hospital_id) backs the pre-check.
func (s *Service) AddAffiliation(ctx context.Context, doctorID, hospitalID uuid.UUID, primary bool, availableDays string) (models.DoctorHospital, error) {
	hospital, err := s.repo.Get(ctx, hospitalID)
	if err != nil {
		return models.DoctorHospital{}, err
	}

	exists, err := s.repo.AffiliationExists(ctx, doctorID, hospitalID)
	if err != nil {
		return models.DoctorHospital{}, err
	}
	if exists {
		return models.DoctorHospital{}, models.ConflictError{Message: "doctor is already affiliated with this hospital"}
	}

	affiliation, err := s.repo.CreateAffiliation(ctx, models.DoctorHospital{
		DoctorID:          doctorID,
		HospitalID:        hospitalID,
		IsPrimaryLocation: primary,
		AvailableDays:     availableDays,
	})
	if err != nil {
		return models.DoctorHospital{}, err
	}
	affiliation.HospitalName = hospital.Name

	logger.WithFields(map[string]interface{}{
		"doctor_id":   doctorID,
		"hospital_id": hospitalID,
	}).Info("Affiliation added")
	return affiliation, nil
}

func (s *Service) ListAffiliations(ctx context.Context, doctorID uuid.UUID) ([]models.DoctorHospital, error) {
	return s.repo.ListAffiliations(ctx, doctorID)
}

func (s *Service) SetPrimary(ctx context.Context, doctorID, affiliationID uuid.UUID) error {
	return s.repo.SetPrimary(ctx, doctorID, affiliationID)
}

func (s *Service) RemoveAffiliation(ctx context.Context, doctorID, affiliationID uuid.UUID) error {
	return s.repo.DeleteAffiliation(ctx, doctorID, affiliationID)
}
