package review

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sfsf02/AcceessHealth/pkg/common/models"
	"gorm.io/gorm"
)

var ErrReviewNotFound = errors.New("review not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type ReviewModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	DoctorID  uuid.UUID `gorm:"type:uuid;index:idx_review_doctor_patient,unique"`
	PatientID uuid.UUID `gorm:"type:uuid;index:idx_review_doctor_patient,unique"`
	Rating    int
	Comment   string
	CreatedAt time.Time
}

func (ReviewModel) TableName() string {
	return "reviews"
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&ReviewModel{})
}

func (r *Repository) Create(ctx context.Context, review models.Review) (models.Review, error) {
	row := ReviewModel{
		ID:        uuid.New(),
		DoctorID:  review.DoctorID,
		PatientID: review.PatientID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return models.Review{}, err
	}
	return mapReview(row), nil
}

func (r *Repository) Exists(ctx context.Context, doctorID, patientID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ReviewModel{}).
		Where("doctor_id = ? AND patient_id = ?", doctorID, patientID).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (models.Review, error) {
	var row ReviewModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Review{}, ErrReviewNotFound
	}
	if err != nil {
		return models.Review{}, err
	}
	return mapReview(row), nil
}

func (r *Repository) ListForDoctor(ctx context.Context, doctorID uuid.UUID, page, size int) ([]models.Review, int64, error) {
	q := r.db.WithContext(ctx).Model(&ReviewModel{}).Where("doctor_id = ?", doctorID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []ReviewModel
	err := q.Order("created_at DESC").Offset((page - 1) * size).Limit(size).Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	reviews := make([]models.Review, 0, len(rows))
	for _, row := range rows {
		reviews = append(reviews, mapReview(row))
	}
	return reviews, total, nil
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, rating int, comment string) error {
	result := r.db.WithContext(ctx).Model(&ReviewModel{}).Where("id = ?", id).Updates(map[string]interface{}{
		"rating":  rating,
		"comment": comment,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&ReviewModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}

func mapReview(row ReviewModel) models.Review {
	return models.Review{
		ID:        row.ID,
		DoctorID:  row.DoctorID,
		PatientID: row.PatientID,
		Rating:    row.Rating,
		Comment:   row.Comment,
		CreatedAt: row.CreatedAt,
	}
}
