package records

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sfsf02/AcceessHealth/pkg/common/logger"
	"github.com/sfsf02/AcceessHealth/pkg/common/models"
	"github.com/sfsf02/AcceessHealth/pkg/storage"
)

type Service struct {
	repo  *Repository
	files *storage.FileStore
}

func NewService(repo *Repository, files *storage.FileStore) *Service {
	return &Service{repo: repo, files: files}
}

func validateRecord(req models.RecordRequest, requirePatient bool) models.FieldErrors {
	fieldErrs := models.FieldErrors{}
	if requirePatient && req.PatientID == uuid.Nil {
		fieldErrs["patient_id"] = "patient is required"
	}
	if req.FollowUpDate != "" {
		if _, err := time.Parse("2006-01-02", req.FollowUpDate); err != nil {
			fieldErrs["follow_up_date"] = "date must be YYYY-MM-DD"
		}
	}
	return fieldErrs
}

// CreateByDoctor records a treatment entry authored by the doctor for
// one of their patients.
func (s *Service) CreateByDoctor(ctx context.Context, doctorID uuid.UUID, req models.RecordRequest, attachment io.Reader, filename string) (models.PatientRecord, error) {
	if fieldErrs := validateRecord(req, true); len(fieldErrs) > 0 {
		return models.PatientRecord{}, fieldErrs
	}

	record := models.PatientRecord{
		PatientID:     req.PatientID,
		DoctorID:      &doctorID,
		FollowUpDate:  req.FollowUpDate,
		Medicine:      req.Medicine,
		TreatmentPlan: req.TreatmentPlan,
		Symptoms:      req.Symptoms,
		Diagnosis:     req.Diagnosis,
	}
	if attachment != nil {
		path, err := s.files.Save("records", req.PatientID.String(), filename, attachment)
		if err != nil {
			return models.PatientRecord{}, err
		}
		record.Attachment = path
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return models.PatientRecord{}, err
	}
	logger.WithFields(map[string]interface{}{
		"record_id":  created.ID,
		"doctor_id":  doctorID,
		"patient_id": created.PatientID,
	}).Info("Patient record created")
	return created, nil
}

// CreateByPatient is the self-upload path; the record carries no
// authoring doctor.
func (s *Service) CreateByPatient(ctx context.Context, patientID uuid.UUID, req models.RecordRequest, attachment io.Reader, filename string) (models.PatientRecord, error) {
	req.PatientID = patientID
	if fieldErrs := validateRecord(req, false); len(fieldErrs) > 0 {
		return models.PatientRecord{}, fieldErrs
	}

	record := models.PatientRecord{
		PatientID:     patientID,
		FollowUpDate:  req.FollowUpDate,
		Medicine:      req.Medicine,
		TreatmentPlan: req.TreatmentPlan,
		Symptoms:      req.Symptoms,
		Diagnosis:     req.Diagnosis,
	}
	if attachment != nil {
		path, err := s.files.Save("records", patientID.String(), filename, attachment)
		if err != nil {
			return models.PatientRecord{}, err
		}
		record.Attachment = path
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return models.PatientRecord{}, err
	}
	logger.WithFields(map[string]interface{}{
		"record_id":  created.ID,
		"patient_id": patientID,
	}).Info("Patient self-upload recorded")
	return created, nil
}

// canRead: the patient sees their own records; a doctor sees records
// they authored.
func canRead(role string, profileID uuid.UUID, record models.PatientRecord) bool {
	switch role {
	case models.RolePatient:
		return record.PatientID == profileID
	case models.RoleDoctor:
		return record.DoctorID != nil && *record.DoctorID == profileID
	}
	return false
}

// canWrite: only the author may change a record. Self-uploads belong
// to the patient.
func canWrite(role string, profileID uuid.UUID, record models.PatientRecord) bool {
	switch role {
	case models.RoleDoctor:
		return record.DoctorID != nil && *record.DoctorID == profileID
	case models.RolePatient:
		return record.DoctorID == nil && record.PatientID == profileID
	}
	return false
}

func (s *Service) Get(ctx context.Context, role string, profileID, recordID uuid.UUID) (models.PatientRecord, error) {
	record, err := s.repo.Get(ctx, recordID)
	if err != nil {
		return models.PatientRecord{}, err
	}
	if !canRead(role, profileID, record) {
		return models.PatientRecord{}, ErrRecordNotFound
	}
	return record, nil
}

func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID, page, size int) ([]models.PatientRecord, int64, error) {
	return s.repo.ListForPatient(ctx, patientID, page, size)
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID uuid.UUID, page, size int) ([]models.PatientRecord, int64, error) {
	return s.repo.ListByDoctor(ctx, doctorID, page, size)
}

func (s *Service) Update(ctx context.Context, role string, profileID, recordID uuid.UUID, req models.RecordRequest) (models.PatientRecord, error) {
	record, err := s.repo.Get(ctx, recordID)
	if err != nil {
		return models.PatientRecord{}, err
	}
	if !canWrite(role, profileID, record) {
		return models.PatientRecord{}, ErrRecordNotFound
	}
	if fieldErrs := validateRecord(req, false); len(fieldErrs) > 0 {
		return models.PatientRecord{}, fieldErrs
	}

	updates := map[string]interface{}{
		"follow_up_date": req.FollowUpDate,
		"medicine":       req.Medicine,
		"treatment_plan": req.TreatmentPlan,
		"symptoms":       req.Symptoms,
		"diagnosis":      req.Diagnosis,
	}
	if err := s.repo.Update(ctx, recordID, updates); err != nil {
		return models.PatientRecord{}, err
	}
	return s.repo.Get(ctx, recordID)
}

func (s *Service) Delete(ctx context.Context, role string, profileID, recordID uuid.UUID) error {
	record, err := s.repo.Get(ctx, recordID)
	if err != nil {
		return err
	}
	if !canWrite(role, profileID, record) {
		return ErrRecordNotFound
	}
	if err := s.repo.Delete(ctx, recordID); err != nil {
		return err
	}
	if record.Attachment != "" {
		if err := s.files.Remove(record.Attachment); err != nil {
			logger.WithField("record_id", recordID).WithError(err).Warn("Failed to remove attachment file")
		}
	}
	return nil
}
