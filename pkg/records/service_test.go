package records

import (
	"testing"

	"github.com/google/uuid"
	"github.com/sfsf02/AcceessHealth/pkg/common/models"
)

func TestRecordOwnership(t *testing.T) {
	doctorID := uuid.New()
	patientID := uuid.New()
	otherID := uuid.New()

	authored := models.PatientRecord{PatientID: patientID, DoctorID: &doctorID}
	selfUpload := models.PatientRecord{PatientID: patientID}

	if !canRead(models.RolePatient, patientID, authored) {
		t.Fatal("patient should read records about them")
	}
	if !canRead(models.RoleDoctor, doctorID, authored) {
		t.Fatal("author should read their record")
	}
	if canRead(models.RoleDoctor, otherID, authored) {
		t.Fatal("other doctors must not read the record")
	}
	if canRead(models.RoleDoctor, doctorID, selfUpload) {
		t.Fatal("self-uploads are not visible to doctors via this path")
	}

	if !canWrite(models.RoleDoctor, doctorID, authored) {
		t.Fatal("author should edit their record")
	}
	if canWrite(models.RolePatient, patientID, authored) {
		t.Fatal("patient must not edit a doctor-authored record")
	}
	if !canWrite(models.RolePatient, patientID, selfUpload) {
		t.Fatal("patient should edit their self-upload")
	}
	if canWrite(models.RolePatient, otherID, selfUpload) {
		t.Fatal("other patients must not edit the self-upload")
	}
}

func TestRecordValidation(t *testing.T) {
	errs := validateRecord(models.RecordRequest{}, true)
	if errs["patient_id"] != "patient is required" {
		t.Fatalf("patient_id: got %v", errs)
	}

	errs = validateRecord(models.RecordRequest{PatientID: uuid.New(), FollowUpDate: "next week"}, true)
	if errs["follow_up_date"] != "date must be YYYY-MM-DD" {
		t.Fatalf("follow_up_date: got %v", errs)
	}

	errs = validateRecord(models.RecordRequest{PatientID: uuid.New(), FollowUpDate: "2026-09-15"}, true)
	if len(errs) != 0 {
		t.Fatalf("valid record rejected: %v", errs)
	}
}
