package hospital

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sfsf02/AcceessHealth/pkg/common/models"
	"gorm.io/gorm"
)

var (
	ErrHospitalNotFound    = errors.New("hospital not found")
	ErrAffiliationNotFound = errors.New("affiliation not found")
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type HospitalModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name            string    `gorm:"index"`
	District        string    `gorm:"index"`
	Address         string
	PhoneNumber     string
	ConsultationFee float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (HospitalModel) TableName() string {
	return "hospitals"
}

type DoctorHospitalModel struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	DoctorID          uuid.UUID `gorm:"type:uuid;index:idx_doctor_hospital,unique"`
	HospitalID        uuid.UUID `gorm:"type:uuid;index:idx_doctor_hospital,unique"`
	IsPrimaryLocation bool
	AvailableDays     string
	CreatedAt         time.Time
}

func (DoctorHospitalModel) TableName() string {
	return "doctor_hospitals"
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&HospitalModel{}, &DoctorHospitalModel{})
}

func (r *Repository) Create(ctx context.Context, hospital models.Hospital) (models.Hospital, error) {
	row := HospitalModel{
		ID:              uuid.New(),
		Name:            hospital.Name,
		District:        hospital.District,
		Address:         hospital.Address,
		PhoneNumber:     hospital.PhoneNumber,
		ConsultationFee: hospital.ConsultationFee,
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return models.Hospital{}, err
	}
	return mapHospital(row), nil
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (models.Hospital, error) {
	var row HospitalModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Hospital{}, ErrHospitalNotFound
	}
	if err != nil {
		return models.Hospital{}, err
	}
	return mapHospital(row), nil
}

func (r *Repository) List(ctx context.Context, query, district string, page, size int) ([]models.Hospital, int64, error) {
	q := r.db.WithContext(ctx).Model(&HospitalModel{})
	if query != "" {
		like := "%" + strings.ToLower(query) + "%"
		q = q.Where("LOWER(name) LIKE ?", like)
	}
	if district != "" {
		q = q.Where("LOWER(district) = LOWER(?)", district)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []HospitalModel
	err := q.Order("name").Offset((page - 1) * size).Limit(size).Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	hospitals := make([]models.Hospital, 0, len(rows))
	for _, row := range rows {
		hospitals = append(hospitals, mapHospital(row))
	}
	return hospitals, total, nil
}

func (r *Repository) AffiliationExists(ctx context.Context, doctorID, hospitalID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&DoctorHospitalModel{}).
		Where("doctor_id = ? AND hospital_id = ?", doctorID, hospitalID).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) CreateAffiliation(ctx context.Context, affiliation models.DoctorHospital) (models.DoctorHospital, error) {
	row := DoctorHospitalModel{
		ID:                uuid.New(),
		DoctorID:          affiliation.DoctorID,
		HospitalID:        affiliation.HospitalID,
		IsPrimaryLocation: affiliation.IsPrimaryLocation,
		AvailableDays:     affiliation.AvailableDays,
		CreatedAt:         time.Now().UTC(),
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if row.IsPrimaryLocation {
			if err := tx.Model(&DoctorHospitalModel{}).
				Where("doctor_id = ?", row.DoctorID).
				Update("is_primary_location", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		return models.DoctorHospital{}, err
	}
	affiliation.ID = row.ID
	return affiliation, nil
}

func (r *Repository) GetAffiliation(ctx context.Context, id uuid.UUID) (models.DoctorHospital, error) {
	var row DoctorHospitalModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DoctorHospital{}, ErrAffiliationNotFound
	}
	if err != nil {
		return models.DoctorHospital{}, err
	}
	return mapAffiliation(row, ""), nil
}

func (r *Repository) ListAffiliations(ctx context.Context, doctorID uuid.UUID) ([]models.DoctorHospital, error) {
	type joined struct {
		DoctorHospitalModel
		HospitalName string
	}
	var rows []joined
	err := r.db.WithContext(ctx).Model(&DoctorHospitalModel{}).
		Select("doctor_hospitals.*, hospitals.name AS hospital_name").
		Joins("JOIN hospitals ON hospitals.id = doctor_hospitals.hospital_id").
		Where("doctor_hospitals.doctor_id = ?", doctorID).
		Order("doctor_hospitals.is_primary_location DESC, hospitals.name").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	affiliations := make([]models.DoctorHospital, 0, len(rows))
	for _, row := range rows {
		affiliations = append(affiliations, mapAffiliation(row.DoctorHospitalModel, row.HospitalName))
	}
	return affiliations, nil
}

func (r *Repository) SetPrimary(ctx context.Context, doctorID, affiliationID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&DoctorHospitalModel{}).
			Where("doctor_id = ?", doctorID).
			Update("is_primary_location", false).Error; err != nil {
			return err
		}
		result := tx.Model(&DoctorHospitalModel{}).
			Where("id = ? AND doctor_id = ?", affiliationID, doctorID).
			Update("is_primary_location", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrAffiliationNotFound
		}
		return nil
	})
}

func (r *Repository) DeleteAffiliation(ctx context.Context, doctorID, affiliationID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND doctor_id = ?", affiliationID, doctorID).
		Delete(&DoctorHospitalModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAffiliationNotFound
	}
	return nil
}

func mapHospital(row HospitalModel) models.Hospital {
	return models.Hospital{
		ID:              row.ID,
		Name:            row.Name,
		District:        row.District,
		Address:         row.Address,
		PhoneNumber:     row.PhoneNumber,
		ConsultationFee: row.ConsultationFee,
	}
}

func mapAffiliation(row DoctorHospitalModel, hospitalName string) models.DoctorHospital {
	return models.DoctorHospital{
		ID:                row.ID,
		DoctorID:          row.DoctorID,
		HospitalID:        row.HospitalID,
		IsPrimaryLocation: row.IsPrimaryLocation,
		AvailableDays:     row.AvailableDays,
		HospitalName:      hospitalName,
	}
}
