package directory

import (
	"sort"
	"strings"

	"github.com/sfsf02/AcceessHealth/pkg/common/models"
)

// Candidate is a directory entry before ranking: the doctor plus the
// annotations ranking needs.
type Candidate struct {
	models.Doctor
	AvgRating   *float64    `json:"avg_rating"`
	ReviewCount int64       `json:"review_count"`
	Fees        []FeeOption `json:"-"`
	Fee         *float64    `json:"consultation_fee"`
}

type FeeOption struct {
	Primary bool
	Fee     float64
}

// Sort keys accepted by the directory.
const (
	SortRatingDesc = "rating_desc"
	SortPriceAsc   = "price_asc"
	SortPriceDesc  = "price_desc"
)

func ValidSort(key string) bool {
	switch key {
	case SortRatingDesc, SortPriceAsc, SortPriceDesc, "":
		return true
	}
	return false
}

// ResolveFee picks the doctor's advertised fee: the primary location's
// fee when one is flagged, otherwise the cheapest option. Doctors with
// no affiliations have no fee.
func ResolveFee(options []FeeOption) *float64 {
	if len(options) == 0 {
		return nil
	}
	lowest := options[0].Fee
	for _, option := range options {
		if option.Primary {
			fee := option.Fee
			return &fee
		}
		if option.Fee < lowest {
			lowest = option.Fee
		}
	}
	return &lowest
}

// Rank orders candidates by the sort key. Entries missing the sort
// value go last; ties fall back to last name then first name.
func Rank(candidates []Candidate, sortKey string) {
	for i := range candidates {
		candidates[i].Fee = ResolveFee(candidates[i].Fees)
	}
	if sortKey == "" {
		sortKey = SortRatingDesc
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		switch sortKey {
		case SortPriceAsc, SortPriceDesc:
			if (a.Fee == nil) != (b.Fee == nil) {
				return b.Fee == nil
			}
			if a.Fee != nil && *a.Fee != *b.Fee {
				if sortKey == SortPriceAsc {
					return *a.Fee < *b.Fee
				}
				return *a.Fee > *b.Fee
			}
		default:
			if (a.AvgRating == nil) != (b.AvgRating == nil) {
				return b.AvgRating == nil
			}
			if a.AvgRating != nil && *a.AvgRating != *b.AvgRating {
				return *a.AvgRating > *b.AvgRating
			}
		}
		if last := strings.Compare(strings.ToLower(a.LastName), strings.ToLower(b.LastName)); last != 0 {
			return last < 0
		}
		return strings.ToLower(a.FirstName) < strings.ToLower(b.FirstName)
	})
}
