package review

import "testing"

func TestValidateRating(t *testing.T) {
	for _, rating := range []int{1, 2, 3, 4, 5} {
		if errs := validateRating(rating); errs != nil {
			t.Fatalf("rating %d rejected: %v", rating, errs)
		}
	}
	for _, rating := range []int{0, -1, 6, 100} {
		errs := validateRating(rating)
		if errs == nil || errs["rating"] != "rating must be between 1 and 5" {
			t.Fatalf("rating %d: got %v", rating, errs)
		}
	}
}
