package wearable

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sfsf02/AcceessHealth/pkg/common/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrReadingNotFound = errors.New("reading not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type ReadingModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	PatientID   uuid.UUID `gorm:"type:uuid;index:idx_readings_patient_type"`
	DeviceID    string    `gorm:"index"`
	DeviceType  string
	Model       string
	IsActive    bool
	ReadingType string `gorm:"index:idx_readings_patient_type"`
	Value       float64
	Unit        string
	Time        time.Time `gorm:"index"`
	Alert       bool
	Metadata    datatypes.JSONMap
}

func (ReadingModel) TableName() string {
	return "wearable_readings"
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&ReadingModel{})
}

func (r *Repository) Create(ctx context.Context, reading models.WearableReading) (models.WearableReading, error) {
	row := ReadingModel{
		ID:          uuid.New(),
		PatientID:   reading.PatientID,
		DeviceID:    reading.DeviceID,
		DeviceType:  reading.DeviceType,
		Model:       reading.Model,
		IsActive:    true,
		ReadingType: reading.ReadingType,
		Value:       reading.Value,
		Unit:        reading.Unit,
		Time:        reading.Time,
		Alert:       reading.Alert,
		Metadata:    datatypes.JSONMap(reading.Metadata),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return models.WearableReading{}, err
	}
	return mapReading(row), nil
}

func (r *Repository) List(ctx context.Context, patientID uuid.UUID, readingType string, page, size int) ([]models.WearableReading, int64, error) {
	q := r.db.WithContext(ctx).Model(&ReadingModel{}).Where("patient_id = ?", patientID)
	if readingType != "" {
		q = q.Where("reading_type = ?", readingType)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []ReadingModel
	err := q.Order("time DESC").Offset((page - 1) * size).Limit(size).Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	readings := make([]models.WearableReading, 0, len(rows))
	for _, row := range rows {
		readings = append(readings, mapReading(row))
	}
	return readings, total, nil
}

// Latest returns the newest reading per type for the patient.
func (r *Repository) Latest(ctx context.Context, patientID uuid.UUID) ([]models.WearableReading, error) {
	var rows []ReadingModel
	err := r.db.WithContext(ctx).
		Raw(`SELECT DISTINCT ON (reading_type) *
			FROM wearable_readings
			WHERE patient_id = ?
			ORDER BY reading_type, time DESC`, patientID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	readings := make([]models.WearableReading, 0, len(rows))
	for _, row := range rows {
		readings = append(readings, mapReading(row))
	}
	return readings, nil
}

// OnRoster reports whether the doctor cares for the patient.
func (r *Repository) OnRoster(ctx context.Context, doctorID, patientID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("patient_doctors").
		Where("doctor_id = ? AND patient_id = ?", doctorID, patientID).
		Count(&count).Error
	return count > 0, err
}

func mapReading(row ReadingModel) models.WearableReading {
	return models.WearableReading{
		ID:          row.ID,
		PatientID:   row.PatientID,
		DeviceID:    row.DeviceID,
		DeviceType:  row.DeviceType,
		Model:       row.Model,
		IsActive:    row.IsActive,
		ReadingType: row.ReadingType,
		Value:       row.Value,
		Unit:        row.Unit,
		Time:        row.Time,
		Alert:       row.Alert,
		Metadata:    map[string]interface{}(row.Metadata),
	}
}
