package directory

import (
	"testing"

	"github.com/sfsf02/AcceessHealth/pkg/common/models"
)

func candidate(first, last string, rating *float64, fees ...FeeOption) Candidate {
	return Candidate{
		Doctor:    models.Doctor{FirstName: first, LastName: last},
		AvgRating: rating,
		Fees:      fees,
	}
}

func f(v float64) *float64 { return &v }

func names(candidates []Candidate) []string {
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.LastName)
	}
	return out
}

func TestResolveFee(t *testing.T) {
	if fee := ResolveFee(nil); fee != nil {
		t.Fatalf("no affiliations should give no fee, got %v", *fee)
	}

	fee := ResolveFee([]FeeOption{{Fee: 50}, {Primary: true, Fee: 80}, {Fee: 20}})
	if fee == nil || *fee != 80 {
		t.Fatalf("primary fee should win, got %v", fee)
	}

	fee = ResolveFee([]FeeOption{{Fee: 50}, {Fee: 20}, {Fee: 35}})
	if fee == nil || *fee != 20 {
		t.Fatalf("cheapest fee should win without a primary, got %v", fee)
	}
}

func TestRankByRating(t *testing.T) {
	candidates := []Candidate{
		candidate("A", "Unrated", nil),
		candidate("B", "Middling", f(3.5)),
		candidate("C", "Top", f(4.8)),
	}
	Rank(candidates, SortRatingDesc)

	got := names(candidates)
	want := []string{"Top", "Middling", "Unrated"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order %v, want %v", got, want)
		}
	}
}

func TestRankByPrice(t *testing.T) {
	candidates := []Candidate{
		candidate("A", "Pricey", nil, FeeOption{Fee: 100}),
		candidate("B", "Cheap", nil, FeeOption{Fee: 20}),
		candidate("C", "NoFee", nil),
	}

	Rank(candidates, SortPriceAsc)
	got := names(candidates)
	want := []string{"Cheap", "Pricey", "NoFee"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("asc order %v, want %v", got, want)
		}
	}

	Rank(candidates, SortPriceDesc)
	got = names(candidates)
	want = []string{"Pricey", "Cheap", "NoFee"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("desc order %v, want %v", got, want)
		}
	}
}

func TestRankTieBreaksByName(t *testing.T) {
	candidates := []Candidate{
		candidate("Zoe", "Brown", f(4.0)),
		candidate("Amy", "Brown", f(4.0)),
		candidate("Ben", "Adams", f(4.0)),
	}
	Rank(candidates, SortRatingDesc)

	if candidates[0].LastName != "Adams" {
		t.Fatalf("expected Adams first, got %s", candidates[0].LastName)
	}
	if candidates[1].FirstName != "Amy" || candidates[2].FirstName != "Zoe" {
		t.Fatalf("expected Amy before Zoe, got %s then %s", candidates[1].FirstName, candidates[2].FirstName)
	}
}

func TestValidSort(t *testing.T) {
	for _, key := range []string{"", SortRatingDesc, SortPriceAsc, SortPriceDesc} {
		if !ValidSort(key) {
			t.Fatalf("%q should be valid", key)
		}
	}
	if ValidSort("name_asc") {
		t.Fatal("unknown sort accepted")
	}
}
