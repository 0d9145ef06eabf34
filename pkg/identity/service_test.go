package identity

import (
	"testing"

	"github.com/sfsf02/AcceessHealth/pkg/common/models"
	"github.com/sfsf02/AcceessHealth/pkg/terminology"
)

func TestSignupCommonValidation(t *testing.T) {
	fieldErrs := models.FieldErrors{}
	validateSignupCommon(fieldErrs, "", "short", "different", false)
	if fieldErrs["email"] != "email is required" {
		t.Fatalf("email: got %q", fieldErrs["email"])
	}
	if fieldErrs["password"] != "password must be at least 8 characters" {
		t.Fatalf("password: got %q", fieldErrs["password"])
	}
	if fieldErrs["confirm_password"] != "passwords do not match" {
		t.Fatalf("confirm_password: got %q", fieldErrs["confirm_password"])
	}
}

func TestSignupDuplicateEmailWinsOverFormat(t *testing.T) {
	fieldErrs := models.FieldErrors{}
	validateSignupCommon(fieldErrs, "taken@example.com", "longenough", "longenough", true)
	if fieldErrs["email"] != "an account with this email already exists" {
		t.Fatalf("got %q", fieldErrs["email"])
	}
	if len(fieldErrs) != 1 {
		t.Fatalf("expected only the email error, got %v", fieldErrs)
	}
}

func TestSignupBadEmailFormat(t *testing.T) {
	for _, email := range []string{"no-at-sign", "@leading", "trailing@"} {
		fieldErrs := models.FieldErrors{}
		validateSignupCommon(fieldErrs, email, "longenough", "longenough", false)
		if fieldErrs["email"] != "enter a valid email address" {
			t.Fatalf("%s: got %q", email, fieldErrs["email"])
		}
	}
}

func TestDoctorFieldValidation(t *testing.T) {
	svc := &Service{catalog: terminology.DefaultCatalog()}

	fieldErrs := models.FieldErrors{}
	svc.validateDoctorFields(fieldErrs, models.DoctorSignupRequest{
		LicenceNumber:     "MED-1001",
		FirstName:         "Aline",
		LastName:          "Uwase",
		DOB:               "1985-03-12",
		Specialization:    "cardiology",
		YearsOfExperience: 12,
	})
	if len(fieldErrs) != 0 {
		t.Fatalf("valid doctor rejected: %v", fieldErrs)
	}

	fieldErrs = models.FieldErrors{}
	svc.validateDoctorFields(fieldErrs, models.DoctorSignupRequest{
		LicenceNumber:     "MED-1001",
		FirstName:         "Aline",
		LastName:          "Uwase",
		Specialization:    "astrology",
		YearsOfExperience: -1,
	})
	if fieldErrs["specialization"] != "unknown specialization" {
		t.Fatalf("specialization: got %q", fieldErrs["specialization"])
	}
	if fieldErrs["years_of_experience"] != "years of experience cannot be negative" {
		t.Fatalf("years: got %q", fieldErrs["years_of_experience"])
	}
}

func TestPatientFieldValidation(t *testing.T) {
	svc := &Service{catalog: terminology.DefaultCatalog()}

	fieldErrs := models.FieldErrors{}
	svc.validatePatientFields(fieldErrs, models.PatientSignupRequest{
		NationalID: "1198080012345678",
		FirstName:  "Eric",
		LastName:   "Mugisha",
		DOB:        "13-03-1985",
		BloodType:  "Z+",
	})
	if fieldErrs["dob"] != "date must be YYYY-MM-DD" {
		t.Fatalf("dob: got %q", fieldErrs["dob"])
	}
	if fieldErrs["blood_type"] != "unknown blood type" {
		t.Fatalf("blood_type: got %q", fieldErrs["blood_type"])
	}
}
