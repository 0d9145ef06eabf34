package wearable

import (
	"testing"

	"github.com/sfsf02/AcceessHealth/pkg/common/models"
	"github.com/sfsf02/AcceessHealth/pkg/terminology"
)

func TestReadingValidation(t *testing.T) {
	svc := &Service{catalog: terminology.DefaultCatalog()}

	errs := svc.validate(models.ReadingRequest{DeviceID: "fitband-01", ReadingType: "heart_rate", Value: 72})
	if len(errs) != 0 {
		t.Fatalf("valid reading rejected: %v", errs)
	}

	errs = svc.validate(models.ReadingRequest{})
	if errs["device_id"] != "device is required" {
		t.Fatalf("device_id: got %v", errs)
	}
	if errs["reading_type"] != "reading type is required" {
		t.Fatalf("reading_type: got %v", errs)
	}

	errs = svc.validate(models.ReadingRequest{DeviceID: "fitband-01", ReadingType: "mood"})
	if errs["reading_type"] != "unknown reading type" {
		t.Fatalf("unknown type: got %v", errs)
	}
}

func TestAlertBounds(t *testing.T) {
	catalog := terminology.DefaultCatalog()

	cases := []struct {
		readingType string
		value       float64
		alert       bool
	}{
		{"heart_rate", 72, false},
		{"heart_rate", 139, true},
		{"heart_rate", 39, true},
		{"oxygen_saturation", 95, false},
		{"oxygen_saturation", 88, true},
		{"temperature", 36.6, false},
		{"temperature", 39.2, true},
		{"blood_glucose", 250, true},
	}
	for _, c := range cases {
		if got := catalog.OutOfBounds(c.readingType, c.value); got != c.alert {
			t.Fatalf("%s=%v: alert=%v, want %v", c.readingType, c.value, got, c.alert)
		}
	}
}
