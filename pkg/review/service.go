package review

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

func validateRating(rating int) models.FieldErrors {
	if rating < 1 || rating > 5 {
		return models.FieldErrors{"rating": "rating must be between 1 and 5"}
	}
	return nil
}

// Create adds the patient's review of a doctor. One review per
// doctor-patient pair; the unique index backs the pre-check.
func (s *Service) Create(ctx context.Context, patientID uuid.UUID, req models.ReviewRequest) (models.Review, error) {
	fieldErrs := models.FieldErrors{}
	if req.DoctorID == uuid.Nil {
		fieldErrs["doctor_id"] = "doctor is required"
	}
	if ratingErrs := validateRating(req.Rating); ratingErrs != nil {
		fieldErrs["rating"] = ratingErrs["rating"]
	}
	if len(fieldErrs) > 0 {
		return models.Review{}, fieldErrs
	}

	exists, err := s.repo.Exists(ctx, req.DoctorID, patientID)
	if err != nil {
		return models.Review{}, err
	}
	if exists {
		return models.Review{}, models.ConflictError{Message: "you have already reviewed this doctor"}
	}

	review, err := s.repo.Create(ctx, models.Review{
		DoctorID:  req.DoctorID,
		PatientID: patientID,
		Rating:    req.Rating,
		Comment:   strings.TrimSpace(req.Comment),
	})
	if err != nil {
		return models.Review{}, err
	}

	logger.WithFields(map[string]interface{}{
		"review_id": review.ID,
		"doctor_id": review.DoctorID,
		"rating":    review.Rating,
	}).Info("Review submitted")
	return review, nil
}

func (s *Service) ListForDoctor(ctx context.Context, doctorID uuid.UUID, page, size int) ([]models.Review, int64, error) {
	return s.repo.ListForDoctor(ctx, doctorID, page, size)
}

func (s *Service) Update(ctx context.Context, patientID, reviewID uuid.UUID, rating int, comment string) (models.Review, error) {
	review, err := s.repo.Get(ctx, reviewID)
	if err != nil {
		return models.Review{}, err
	}
	if review.PatientID != patientID {
		return models.Review{}, ErrReviewNotFound
	}
	if fieldErrs := validateRating(rating); fieldErrs != nil {
		return models.Review{}, fieldErrs
	}
	if err := s.repo.Update(ctx, reviewID, rating, strings.TrimSpace(comment)); err != nil {
		return models.Review{}, err
	}
	return s.repo.Get(ctx, reviewID)
}

func (s *Service) Delete(ctx context.Context, patientID, reviewID uuid.UUID) error {
	review, err := s.repo.Get(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.PatientID != patientID {
		return ErrReviewNotFound
	}
	return s.repo.Delete(ctx, reviewID)
}
