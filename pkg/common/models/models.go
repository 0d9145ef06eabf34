package models

import (
	"time"

	"github.com/google/uuid"
)

// Portal roles. Every account carries exactly one role profile.
const (
	RoleDoctor  = "doctor"
	RolePatient = "patient"
)

// Appointment lifecycle.
const (
	AppointmentPending   = "pending"
	AppointmentConfirmed = "confirmed"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

// Consultation lifecycle.
const (
	ConsultationPending   = "pending"
	ConsultationCompleted = "completed"
	ConsultationCancelled = "cancelled"
)

// Event types on the portal bus.
const (
	EventAppointmentBooked    = "appointment.booked"
	EventAppointmentCancelled = "appointment.cancelled"
	EventWearableAlert        = "wearable.alert"
)

type Account struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Doctor struct {
	ID                      uuid.UUID `json:"id"`
	AccountID               uuid.UUID `json:"account_id"`
	LicenceNumber           string    `json:"licence_number"`
	FirstName               string    `json:"first_name"`
	LastName                string    `json:"last_name"`
	DOB                     string    `json:"dob"`
	Gender                  string    `json:"gender"`
	District                string    `json:"district"`
	Sector                  string    `json:"sector"`
	PrimaryPracticeDistrict string    `json:"primary_practice_district"`
	PhoneNumber             string    `json:"phone_number"`
	Affiliation             string    `json:"hospital_or_clinic_affiliation"`
	Specialization          string    `json:"specialization"`
	YearsOfExperience       int       `json:"years_of_experience"`
	ProfessionalBio         string    `json:"professional_bio"`
	ProfileImage            string    `json:"profile_image,omitempty"`
	IsAvailable             bool      `json:"is_available"`
	NotifyEmail             bool      `json:"notify_email"`
	NotifySMS               bool      `json:"notify_sms"`
	NotifyInApp             bool      `json:"notify_in_app"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

func (d Doctor) FullName() string {
	return "Dr. " + d.FirstName + " " + d.LastName
}

type Patient struct {
	ID               uuid.UUID `json:"id"`
	AccountID        uuid.UUID `json:"account_id"`
	NationalID       string    `json:"patient_national_id"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	DOB              string    `json:"dob"`
	Gender           string    `json:"gender"`
	District         string    `json:"district"`
	Sector           string    `json:"sector"`
	PhoneNumber      string    `json:"phone_number"`
	BloodType        string    `json:"blood_type,omitempty"`
	Address          string    `json:"address,omitempty"`
	EmergencyContact string    `json:"emergency_contact,omitempty"`
	Avatar           string    `json:"avatar,omitempty"`
	HealthStatus     string    `json:"health_status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type Hospital struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	District        string    `json:"district"`
	Address         string    `json:"address,omitempty"`
	PhoneNumber     string    `json:"phone_number,omitempty"`
	ConsultationFee float64   `json:"consultation_fee"`
}

type DoctorHospital struct {
	ID                uuid.UUID `json:"id"`
	DoctorID          uuid.UUID `json:"doctor_id"`
	HospitalID        uuid.UUID `json:"hospital_id"`
	IsPrimaryLocation bool      `json:"is_primary_location"`
	AvailableDays     string    `json:"available_days,omitempty"`
	HospitalName      string    `json:"hospital_name,omitempty"`
}

type Appointment struct {
	ID              uuid.UUID `json:"id"`
	DoctorID        uuid.UUID `json:"doctor_id"`
	PatientID       uuid.UUID `json:"patient_id"`
	AppointmentDate string    `json:"appointment_date"`
	AppointmentTime string    `json:"appointment_time"`
	AppointmentType string    `json:"appointment_type"`
	Status          string    `json:"status"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type Consultation struct {
	ID                   uuid.UUID  `json:"id"`
	DoctorID             uuid.UUID  `json:"doctor_id"`
	PatientID            uuid.UUID  `json:"patient_id"`
	AppointmentID        *uuid.UUID `json:"appointment_id,omitempty"`
	Date                 string     `json:"date"`
	StartTime            string     `json:"start_time"`
	EndTime              string     `json:"end_time,omitempty"`
	ConsultationType     string     `json:"consultation_type"`
	DurationMinutes      int        `json:"duration_minutes"`
	ChiefComplaint       string     `json:"chief_complaint,omitempty"`
	History              string     `json:"history,omitempty"`
	Examination          string     `json:"examination,omitempty"`
	Diagnosis            string     `json:"diagnosis,omitempty"`
	TreatmentPlan        string     `json:"treatment_plan,omitempty"`
	Medications          string     `json:"medications,omitempty"`
	FollowUpInstructions string     `json:"follow_up_instructions,omitempty"`
	Status               string     `json:"status"`
	Notes                string     `json:"notes,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

type PatientRecord struct {
	ID            uuid.UUID  `json:"id"`
	PatientID     uuid.UUID  `json:"patient_id"`
	DoctorID      *uuid.UUID `json:"doctor_id,omitempty"`
	Attachment    string     `json:"attachment,omitempty"`
	FollowUpDate  string     `json:"follow_up_date,omitempty"`
	Medicine      string     `json:"medicine,omitempty"`
	TreatmentPlan string     `json:"treatment_plan,omitempty"`
	Symptoms      string     `json:"symptoms,omitempty"`
	Diagnosis     string     `json:"diagnosis,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type Review struct {
	ID        uuid.UUID `json:"id"`
	DoctorID  uuid.UUID `json:"doctor_id"`
	PatientID uuid.UUID `json:"patient_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type WearableReading struct {
	ID          uuid.UUID              `json:"id"`
	PatientID   uuid.UUID              `json:"patient_id"`
	DeviceID    string                 `json:"device_id"`
	DeviceType  string                 `json:"device_type"`
	Model       string                 `json:"model,omitempty"`
	IsActive    bool                   `json:"is_active"`
	ReadingType string                 `json:"reading_type"`
	Value       float64                `json:"value_of_reading"`
	Unit        string                 `json:"unit"`
	Time        time.Time              `json:"time"`
	Alert       bool                   `json:"alert"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

type Notification struct {
	ID            uuid.UUID              `json:"id"`
	DoctorID      *uuid.UUID             `json:"doctor_id,omitempty"`
	PatientID     *uuid.UUID             `json:"patient_id,omitempty"`
	Type          string                 `json:"notification_type"`
	Title         string                 `json:"title"`
	Message       string                 `json:"message"`
	IsRead        bool                   `json:"is_read"`
	AppointmentID *uuid.UUID             `json:"appointment_id,omitempty"`
	Payload       map[string]interface{} `json:"payload,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
}

type NotificationPreferences struct {
	ID               uuid.UUID `json:"id"`
	PatientID        uuid.UUID `json:"patient_id"`
	EmailAppointment bool      `json:"email_appointment"`
	EmailHealthAlert bool      `json:"email_health_alerts"`
	SMSAppointment   bool      `json:"sms_appointment"`
	SMSHealthAlert   bool      `json:"sms_health_alerts"`
}

// Event is the envelope published on the portal bus.
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}

// ---- Request / response payloads ----

type DoctorSignupRequest struct {
	Email             string    `json:"email" schema:"email"`
	Password          string    `json:"password" schema:"password"`
	ConfirmPassword   string    `json:"confirm_password" schema:"confirm_password"`
	HospitalID        uuid.UUID `json:"hospital_id" schema:"hospital_id"`
	LicenceNumber     string    `json:"doctor_licence_number" schema:"doctor_licence_number"`
	FirstName         string    `json:"first_name" schema:"first_name"`
	LastName          string    `json:"last_name" schema:"last_name"`
	DOB               string    `json:"dob" schema:"dob"`
	Gender            string    `json:"gender" schema:"gender"`
	District          string    `json:"district" schema:"district"`
	Sector            string    `json:"sector" schema:"sector"`
	PhoneNumber       string    `json:"phone_number" schema:"phone_number"`
	Specialization    string    `json:"specialization" schema:"specialization"`
	YearsOfExperience int       `json:"years_of_experience" schema:"years_of_experience"`
	ProfessionalBio   string    `json:"professional_bio" schema:"professional_bio"`
}

type PatientSignupRequest struct {
	Email            string `json:"email" schema:"email"`
	Password         string `json:"password" schema:"password"`
	ConfirmPassword  string `json:"confirm_password" schema:"confirm_password"`
	NationalID       string `json:"patient_national_id" schema:"patient_national_id"`
	FirstName        string `json:"first_name" schema:"first_name"`
	LastName         string `json:"last_name" schema:"last_name"`
	DOB              string `json:"dob" schema:"dob"`
	Gender           string `json:"gender" schema:"gender"`
	District         string `json:"district" schema:"district"`
	Sector           string `json:"sector" schema:"sector"`
	PhoneNumber      string `json:"phone_number" schema:"phone_number"`
	BloodType        string `json:"blood_type" schema:"blood_type"`
	EmergencyContact string `json:"emergency_contact" schema:"emergency_contact"`
}

type LoginRequest struct {
	Email    string `json:"email" schema:"email"`
	Password string `json:"password" schema:"password"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" schema:"current_password"`
	NewPassword     string `json:"new_password" schema:"new_password"`
	ConfirmPassword string `json:"confirm_password" schema:"confirm_password"`
}

type AuthResponse struct {
	Token   string  `json:"token,omitempty"`
	Account Account `json:"account"`
}

type BookAppointmentRequest struct {
	DoctorID        uuid.UUID `json:"doctor_id" schema:"doctor_id"`
	PatientID       uuid.UUID `json:"patient_id" schema:"patient_id"`
	AppointmentDate string    `json:"appointment_date" schema:"appointment_date"`
	AppointmentTime string    `json:"appointment_time" schema:"appointment_time"`
	AppointmentType string    `json:"appointment_type" schema:"appointment_type"`
	Notes           string    `json:"notes" schema:"notes"`
}

// UpdateAppointmentRequest carries only the fields present in the payload;
// nil pointers mean "leave unchanged".
type UpdateAppointmentRequest struct {
	AppointmentDate *string `json:"appointment_date,omitempty" schema:"appointment_date"`
	AppointmentTime *string `json:"appointment_time,omitempty" schema:"appointment_time"`
	AppointmentType *string `json:"appointment_type,omitempty" schema:"appointment_type"`
	Status          *string `json:"status,omitempty" schema:"status"`
	Notes           *string `json:"notes,omitempty" schema:"notes"`
}

type ConsultationRequest struct {
	PatientID            uuid.UUID  `json:"patient_id" schema:"patient_id"`
	AppointmentID        *uuid.UUID `json:"appointment_id,omitempty" schema:"appointment_id"`
	Date                 string     `json:"date" schema:"date"`
	StartTime            string     `json:"start_time" schema:"start_time"`
	EndTime              string     `json:"end_time" schema:"end_time"`
	ConsultationType     string     `json:"consultation_type" schema:"consultation_type"`
	DurationMinutes      int        `json:"duration_minutes" schema:"duration_minutes"`
	ChiefComplaint       string     `json:"chief_complaint" schema:"chief_complaint"`
	History              string     `json:"history" schema:"history"`
	Examination          string     `json:"examination" schema:"examination"`
	Diagnosis            string     `json:"diagnosis" schema:"diagnosis"`
	TreatmentPlan        string     `json:"treatment_plan" schema:"treatment_plan"`
	Medications          string     `json:"medications" schema:"medications"`
	FollowUpInstructions string     `json:"follow_up_instructions" schema:"follow_up_instructions"`
	Status               string     `json:"status" schema:"status"`
	Notes                string     `json:"notes" schema:"notes"`
}

type ReviewRequest struct {
	DoctorID uuid.UUID `json:"doctor_id" schema:"doctor_id"`
	Rating   int       `json:"rating" schema:"rating"`
	Comment  string    `json:"comment" schema:"comment"`
}

type ReadingRequest struct {
	PatientID   uuid.UUID              `json:"patient_id" schema:"patient_id"`
	DeviceID    string                 `json:"device_id" schema:"device_id"`
	DeviceType  string                 `json:"device_type" schema:"device_type"`
	Model       string                 `json:"model" schema:"model"`
	ReadingType string                 `json:"reading_type" schema:"reading_type"`
	Value       float64                `json:"value_of_reading" schema:"value_of_reading"`
	Unit        string                 `json:"unit" schema:"unit"`
	Metadata    map[string]interface{} `json:"metadata,omitempty" schema:"-"`
}

type RecordRequest struct {
	PatientID     uuid.UUID `json:"patient_id" schema:"patient_id"`
	FollowUpDate  string    `json:"follow_up_date" schema:"follow_up_date"`
	Medicine      string    `json:"medicine" schema:"medicine"`
	TreatmentPlan string    `json:"treatment_plan" schema:"treatment_plan"`
	Symptoms      string    `json:"symptoms" schema:"symptoms"`
	Diagnosis     string    `json:"diagnosis" schema:"diagnosis"`
}

// Page wraps a 1-indexed slice of a listing.
type Page struct {
	Items      interface{} `json:"items"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalItems int64       `json:"total_items"`
	TotalPages int         `json:"total_pages"`
}

func NewPage(items interface{}, page, size int, total int64) Page {
	pages := int(total) / size
	if int(total)%size != 0 {
		pages++
	}
	if pages == 0 {
		pages = 1
	}
	return Page{Items: items, Page: page, PageSize: size, TotalItems: total, TotalPages: pages}
}
