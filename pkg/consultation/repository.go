package consultation

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sfsf02/AcceessHealth/pkg/common/models"
	"gorm.io/gorm"
)

var ErrConsultationNotFound = errors.New("consultation not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type ConsultationModel struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primaryKey"`
	DoctorID             uuid.UUID  `gorm:"type:uuid;index"`
	PatientID            uuid.UUID  `gorm:"type:uuid;index"`
	AppointmentID        *uuid.UUID `gorm:"type:uuid"`
	Date                 string     `gorm:"index"`
	StartTime            string
	EndTime              string
	ConsultationType     string
	DurationMinutes      int
	ChiefComplaint       string
	History              string
	Examination          string
	Diagnosis            string
	TreatmentPlan        string
	Medications          string
	FollowUpInstructions string
	Status               string `gorm:"index"`
	Notes                string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (ConsultationModel) TableName() string {
	return "consultations"
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&ConsultationModel{})
}

func (r *Repository) Create(ctx context.Context, consultation models.Consultation) (models.Consultation, error) {
	now := time.Now().UTC()
	row := modelToRow(consultation)
	row.ID = uuid.New()
	row.CreatedAt = now
	row.UpdatedAt = now
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return models.Consultation{}, err
	}
	return mapConsultation(row), nil
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (models.Consultation, error) {
	var row ConsultationModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Consultation{}, ErrConsultationNotFound
	}
	if err != nil {
		return models.Consultation{}, err
	}
	return mapConsultation(row), nil
}

type ListFilter struct {
	DoctorID  uuid.UUID
	PatientID uuid.UUID
	Status    string
	Query     string
}

func (r *Repository) List(ctx context.Context, filter ListFilter, page, size int) ([]models.Consultation, int64, error) {
	q := r.db.WithContext(ctx).Model(&ConsultationModel{})
	if filter.DoctorID != uuid.Nil {
		q = q.Where("doctor_id = ?", filter.DoctorID)
	}
	if filter.PatientID != uuid.Nil {
		q = q.Where("patient_id = ?", filter.PatientID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Query != "" {
		like := "%" + strings.ToLower(filter.Query) + "%"
		q = q.Where(`LOWER(chief_complaint) LIKE ? OR LOWER(diagnosis) LIKE ?
			OR LOWER(consultation_type) LIKE ? OR patient_id IN (
				SELECT id FROM patients
				WHERE LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?)`,
			like, like, like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []ConsultationModel
	err := q.Order("date DESC, start_time DESC").
		Offset((page - 1) * size).Limit(size).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	consultations := make([]models.Consultation, 0, len(rows))
	for _, row := range rows {
		consultations = append(consultations, mapConsultation(row))
	}
	return consultations, total, nil
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&ConsultationModel{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConsultationNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&ConsultationModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConsultationNotFound
	}
	return nil
}

func modelToRow(consultation models.Consultation) ConsultationModel {
	return ConsultationModel{
		ID:                   consultation.ID,
		DoctorID:             consultation.DoctorID,
		PatientID:            consultation.PatientID,
		AppointmentID:        consultation.AppointmentID,
		Date:                 consultation.Date,
		StartTime:            consultation.StartTime,
		EndTime:              consultation.EndTime,
		ConsultationType:     consultation.ConsultationType,
		DurationMinutes:      consultation.DurationMinutes,
		ChiefComplaint:       consultation.ChiefComplaint,
		History:              consultation.History,
		Examination:          consultation.Examination,
		Diagnosis:            consultation.Diagnosis,
		TreatmentPlan:        consultation.TreatmentPlan,
		Medications:          consultation.Medications,
		FollowUpInstructions: consultation.FollowUpInstructions,
		Status:               consultation.Status,
		Notes:                consultation.Notes,
	}
}

func mapConsultation(row ConsultationModel) models.Consultation {
	return models.Consultation{
		ID:                   row.ID,
		DoctorID:             row.DoctorID,
		PatientID:            row.PatientID,
		AppointmentID:        row.AppointmentID,
		Date:                 row.Date,
		StartTime:            row.StartTime,
		EndTime:              row.EndTime,
		ConsultationType:     row.ConsultationType,
		DurationMinutes:      row.DurationMinutes,
		ChiefComplaint:       row.ChiefComplaint,
		History:              row.History,
		Examination:          row.Examination,
		Diagnosis:            row.Diagnosis,
		TreatmentPlan:        row.TreatmentPlan,
		Medications:          row.Medications,
		FollowUpInstructions: row.FollowUpInstructions,
		Status:               row.Status,
		Notes:                row.Notes,
		CreatedAt:            row.CreatedAt,
		UpdatedAt:            row.UpdatedAt,
	}
}
