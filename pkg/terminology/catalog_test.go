package terminology

import "testing"

func TestDefaultCatalogLookups(t *testing.T) {
	cat := DefaultCatalog()

	if !cat.ValidSpecialization("cardiology") {
		t.Fatal("expected case-insensitive specialization match")
	}
	if cat.ValidSpecialization("astrology") {
		t.Fatal("unexpected specialization match")
	}
	if !cat.ValidAppointmentType("follow-up") {
		t.Fatal("expected follow-up to be a valid appointment type")
	}
	if !cat.ValidConsultationType("telemedicine") {
		t.Fatal("expected telemedicine to be a valid consultation type")
	}
	if cat.ValidAppointmentType("telemedicine") {
		t.Fatal("telemedicine is a consultation type, not an appointment type")
	}
	if !cat.ValidBloodType("o+") {
		t.Fatal("expected blood type match")
	}
}

func TestReadingBounds(t *testing.T) {
	cat := DefaultCatalog()

	def, ok := cat.Reading("HEART_RATE")
	if !ok {
		t.Fatal("expected heart_rate definition")
	}
	if def.Unit != "bpm" {
		t.Fatalf("unexpected unit %q", def.Unit)
	}

	if cat.OutOfBounds("heart_rate", 72) {
		t.Fatal("72 bpm should not alert")
	}
	if !cat.OutOfBounds("heart_rate", 150) {
		t.Fatal("150 bpm should alert")
	}
	if !cat.OutOfBounds("oxygen_saturation", 85) {
		t.Fatal("85%% SpO2 should alert")
	}
	if cat.OutOfBounds("unknown_type", 0) {
		t.Fatal("unknown reading types must never alert")
	}
}
