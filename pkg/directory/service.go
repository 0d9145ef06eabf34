package directory

import (
	"context"
	"errors"

	"github.com/sfsf02/AcceessHealth/pkg/common/models"
)

var ErrDoctorNotFound = errors.New("doctor not found")

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Search runs the find-a-doctor flow: filter, annotate, rank, page.
func (s *Service) Search(ctx context.Context, filter Filter, sortKey string, page, size int) (models.Page, error) {
	if !ValidSort(sortKey) {
		return models.Page{}, models.FieldErrors{"sort": "unknown sort key"}
	}

	candidates, err := s.repo.Candidates(ctx, filter)
	if err != nil {
		return models.Page{}, err
	}
	Rank(candidates, sortKey)

	total := int64(len(candidates))
	start := (page - 1) * size
	if start > len(candidates) {
		start = len(candidates)
	}
	end := start + size
	if end > len(candidates) {
		end = len(candidates)
	}
	return models.NewPage(candidates[start:end], page, size, total), nil
}

func (s *Service) Dropdowns(ctx context.Context) (map[string][]string, error) {
	return s.repo.Dropdowns(ctx)
}
