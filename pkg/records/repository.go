package records

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sfsf02/AcceessHealth/pkg/common/models"
	"gorm.io/gorm"
)

var ErrRecordNotFound = errors.New("record not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// PatientRecordModel holds both doctor-authored entries and patient
// self-uploads. DoctorID is nil for the latter.
type PatientRecordModel struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	PatientID     uuid.UUID  `gorm:"type:uuid;index"`
	DoctorID      *uuid.UUID `gorm:"type:uuid;index"`
	Attachment    string
	FollowUpDate  string
	Medicine      string
	TreatmentPlan string
	Symptoms      string
	Diagnosis     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (PatientRecordModel) TableName() string {
	return "patient_records"
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&PatientRecordModel{})
}

func (r *Repository) Create(ctx context.Context, record models.PatientRecord) (models.PatientRecord, error) {
	now := time.Now().UTC()
	row := PatientRecordModel{
		ID:            uuid.New(),
		PatientID:     record.PatientID,
		DoctorID:      record.DoctorID,
		Attachment:    record.Attachment,
		FollowUpDate:  record.FollowUpDate,
		Medicine:      record.Medicine,
		TreatmentPlan: record.TreatmentPlan,
		Symptoms:      record.Symptoms,
		Diagnosis:     record.Diagnosis,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return models.PatientRecord{}, err
	}
	return mapRecord(row), nil
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (models.PatientRecord, error) {
	var row PatientRecordModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.PatientRecord{}, ErrRecordNotFound
	}
	if err != nil {
		return models.PatientRecord{}, err
	}
	return mapRecord(row), nil
}

func (r *Repository) ListForPatient(ctx context.Context, patientID uuid.UUID, page, size int) ([]models.PatientRecord, int64, error) {
	q := r.db.WithContext(ctx).Model(&PatientRecordModel{}).Where("patient_id = ?", patientID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []PatientRecordModel
	err := q.Order("created_at DESC").Offset((page - 1) * size).Limit(size).Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return mapRecords(rows), total, nil
}

func (r *Repository) ListByDoctor(ctx context.Context, doctorID uuid.UUID, page, size int) ([]models.PatientRecord, int64, error) {
	q := r.db.WithContext(ctx).Model(&PatientRecordModel{}).Where("doctor_id = ?", doctorID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []PatientRecordModel
	err := q.Order("created_at DESC").Offset((page - 1) * size).Limit(size).Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return mapRecords(rows), total, nil
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&PatientRecordModel{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&PatientRecordModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func mapRecords(rows []PatientRecordModel) []models.PatientRecord {
	records := make([]models.PatientRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, mapRecord(row))
	}
	return records
}

func mapRecord(row PatientRecordModel) models.PatientRecord {
	return models.PatientRecord{
		ID:            row.ID,
		PatientID:     row.PatientID,
		DoctorID:      row.DoctorID,
		Attachment:    row.Attachment,
		FollowUpDate:  row.FollowUpDate,
		Medicine:      row.Medicine,
		TreatmentPlan: row.TreatmentPlan,
		Symptoms:      row.Symptoms,
		Diagnosis:     row.Diagnosis,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}
