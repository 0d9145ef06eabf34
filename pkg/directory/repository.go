package directory

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sfsf02/AcceessHealth/pkg/common/models"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type doctorRow struct {
	ID                uuid.UUID `gorm:"type:uuid"`
	FirstName         string
	LastName          string
	Gender            string
	District          string
	Specialization    string
	YearsOfExperience int
	ProfessionalBio   string
	ProfileImage      string
	IsAvailable       bool
}

type Filter struct {
	Query          string
	Specialization string
	District       string
	Gender         string
}

// Candidates returns every doctor matching the filter, with their
// review aggregate and hospital fee options attached. Ranking and
// pagination happen in the service.
func (r *Repository) Candidates(ctx context.Context, filter Filter) ([]Candidate, error) {
	q := r.db.WithContext(ctx).Table("doctors")
	if filter.Specialization != "" {
		q = q.Where("LOWER(specialization) = LOWER(?)", filter.Specialization)
	}
	if filter.District != "" {
		q = q.Where("LOWER(district) = LOWER(?)", filter.District)
	}
	if filter.Gender != "" {
		q = q.Where("gender = ?", filter.Gender)
	}
	if filter.Query != "" {
		like := "%" + strings.ToLower(filter.Query) + "%"
		q = q.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(specialization) LIKE ?",
			like, like, like)
	}

	var rows []doctorRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	ratings, err := r.ratingAggregates(ctx, ids)
	if err != nil {
		return nil, err
	}
	fees, err := r.feeOptions(ctx, ids)
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(rows))
	for _, row := range rows {
		candidate := Candidate{
			Doctor: models.Doctor{
				ID:                row.ID,
				FirstName:         row.FirstName,
				LastName:          row.LastName,
				Gender:            row.Gender,
				District:          row.District,
				Specialization:    row.Specialization,
				YearsOfExperience: row.YearsOfExperience,
				ProfessionalBio:   row.ProfessionalBio,
				ProfileImage:      row.ProfileImage,
				IsAvailable:       row.IsAvailable,
			},
			Fees: fees[row.ID],
		}
		if aggregate, ok := ratings[row.ID]; ok {
			rating := aggregate.Avg
			candidate.AvgRating = &rating
			candidate.ReviewCount = aggregate.Count
		}
		candidates = append(candidates, candidate)
	}
	return candidates, nil
}

type ratingAggregate struct {
	Avg   float64
	Count int64
}

func (r *Repository) ratingAggregates(ctx context.Context, doctorIDs []uuid.UUID) (map[uuid.UUID]ratingAggregate, error) {
	type row struct {
		DoctorID uuid.UUID
		Avg      float64
		Count    int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Table("reviews").
		Select("doctor_id, AVG(rating) AS avg, COUNT(*) AS count").
		Where("doctor_id IN ?", doctorIDs).
		Group("doctor_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	aggregates := make(map[uuid.UUID]ratingAggregate, len(rows))
	for _, row := range rows {
		aggregates[row.DoctorID] = ratingAggregate{Avg: row.Avg, Count: row.Count}
	}
	return aggregates, nil
}

func (r *Repository) feeOptions(ctx context.Context, doctorIDs []uuid.UUID) (map[uuid.UUID][]FeeOption, error) {
	type row struct {
		DoctorID          uuid.UUID
		IsPrimaryLocation bool
		ConsultationFee   float64
	}
	var rows []row
	err := r.db.WithContext(ctx).Table("doctor_hospitals").
		Select("doctor_hospitals.doctor_id, doctor_hospitals.is_primary_location, hospitals.consultation_fee").
		Joins("JOIN hospitals ON hospitals.id = doctor_hospitals.hospital_id").
		Where("doctor_hospitals.doctor_id IN ?", doctorIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	options := make(map[uuid.UUID][]FeeOption)
	for _, row := range rows {
		options[row.DoctorID] = append(options[row.DoctorID], FeeOption{
			Primary: row.IsPrimaryLocation,
			Fee:     row.ConsultationFee,
		})
	}
	return options, nil
}

// Dropdowns lists the distinct filter values present in the directory.
func (r *Repository) Dropdowns(ctx context.Context) (map[string][]string, error) {
	dropdowns := make(map[string][]string, 2)
	for column, key := range map[string]string{"specialization": "specializations", "district": "districts"} {
		var values []string
		err := r.db.WithContext(ctx).Table("doctors").
			Distinct(column).
			Where(column+" <> ''").
			Order(column).
			Pluck(column, &values).Error
		if err != nil {
			return nil, err
		}
		dropdowns[key] = values
	}
	return dropdowns, nil
}
