package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sfsf02/AcceessHealth/pkg/common/logger"
	"github.com/sfsf02/AcceessHealth/pkg/common/models"
	"github.com/sfsf02/AcceessHealth/pkg/observability/metrics"
	"github.com/sfsf02/AcceessHealth/pkg/terminology"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is the single failure returned by Authenticate.
// The caller never learns whether the email, the password or the portal
// was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	repo    *Repository
	catalog terminology.Catalog
}

func NewService(repo *Repository, catalog terminology.Catalog) *Service {
	return &Service{repo: repo, catalog: catalog}
}

func (s *Service) SignupDoctor(ctx context.Context, req models.DoctorSignupRequest) (models.Doctor, error) {
	fieldErrs := models.FieldErrors{}

	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return models.Doctor{}, err
	}
	validateSignupCommon(fieldErrs, req.Email, req.Password, req.ConfirmPassword, exists)
	s.validateDoctorFields(fieldErrs, req)

	var hospital models.Hospital
	if req.HospitalID == uuid.Nil {
		fieldErrs["hospital_id"] = "hospital is required"
	} else {
		hospital, err = s.repo.GetHospital(ctx, req.HospitalID)
		if errors.Is(err, ErrHospitalNotFound) {
			fieldErrs["hospital_id"] = "hospital does not exist"
		} else if err != nil {
			return models.Doctor{}, err
		}
	}

	if len(fieldErrs) > 0 {
		return models.Doctor{}, fieldErrs
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.Doctor{}, err
	}

	doctor, err := s.repo.CreateDoctorAccount(ctx, CreateDoctorInput{
		Email:        req.Email,
		PasswordHash: string(hash),
		Hospital:     hospital,
		Profile: models.Doctor{
			LicenceNumber:           strings.TrimSpace(req.LicenceNumber),
			FirstName:               strings.TrimSpace(req.FirstName),
			LastName:                strings.TrimSpace(req.LastName),
			DOB:                     req.DOB,
			Gender:                  req.Gender,
			District:                strings.TrimSpace(req.District),
			Sector:                  strings.TrimSpace(req.Sector),
			PrimaryPracticeDistrict: strings.TrimSpace(req.District),
			PhoneNumber:             strings.TrimSpace(req.PhoneNumber),
			Specialization:          req.Specialization,
			YearsOfExperience:       req.YearsOfExperience,
			ProfessionalBio:         strings.TrimSpace(req.ProfessionalBio),
		},
	})
	if err != nil {
		return models.Doctor{}, err
	}

	metrics.IncDoctorSignup()
	logger.WithFields(map[string]interface{}{
		"doctor_id": doctor.ID,
		"hospital":  hospital.Name,
	}).Info("Doctor account provisioned")
	return doctor, nil
}

func (s *Service) SignupPatient(ctx context.Context, req models.PatientSignupRequest) (models.Patient, error) {
	fieldErrs := models.FieldErrors{}

	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return models.Patient{}, err
	}
	validateSignupCommon(fieldErrs, req.Email, req.Password, req.ConfirmPassword, exists)
	s.validatePatientFields(fieldErrs, req)

	if len(fieldErrs) > 0 {
		return models.Patient{}, fieldErrs
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.Patient{}, err
	}

	patient, err := s.repo.CreatePatientAccount(ctx, CreatePatientInput{
		Email:        req.Email,
		PasswordHash: string(hash),
		Profile: models.Patient{
			NationalID:       strings.TrimSpace(req.NationalID),
			FirstName:        strings.TrimSpace(req.FirstName),
			LastName:         strings.TrimSpace(req.LastName),
			DOB:              req.DOB,
			Gender:           req.Gender,
			District:         strings.TrimSpace(req.District),
			Sector:           strings.TrimSpace(req.Sector),
			PhoneNumber:      strings.TrimSpace(req.PhoneNumber),
			BloodType:        req.BloodType,
			EmergencyContact: strings.TrimSpace(req.EmergencyContact),
		},
	})
	if err != nil {
		return models.Patient{}, err
	}

	metrics.IncPatientSignup()
	logger.WithField("patient_id", patient.ID).Info("Patient account provisioned")
	return patient, nil
}

// Authenticate verifies credentials against the given portal. The role
// gate, the email lookup and the password check all collapse into the
// same ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, portal, email, password string) (models.Account, uuid.UUID, error) {
	account, err := s.repo.GetAccountByEmail(ctx, email)
	if errors.Is(err, ErrAccountNotFound) {
		metrics.IncFailedLogin()
		return models.Account{}, uuid.Nil, ErrInvalidCredentials
	}
	if err != nil {
		return models.Account{}, uuid.Nil, err
	}

	if account.Role != portal {
		metrics.IncFailedLogin()
		return models.Account{}, uuid.Nil, ErrInvalidCredentials
	}

	hash, err := s.repo.GetPasswordHash(ctx, account.ID)
	if err != nil {
		return models.Account{}, uuid.Nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		metrics.IncFailedLogin()
		return models.Account{}, uuid.Nil, ErrInvalidCredentials
	}

	profileID, err := s.profileID(ctx, account)
	if err != nil {
		return models.Account{}, uuid.Nil, err
	}
	return account, profileID, nil
}

func (s *Service) profileID(ctx context.Context, account models.Account) (uuid.UUID, error) {
	switch account.Role {
	case models.RoleDoctor:
		doctor, err := s.repo.GetDoctorByAccount(ctx, account.ID)
		if err != nil {
			return uuid.Nil, err
		}
		return doctor.ID, nil
	case models.RolePatient:
		patient, err := s.repo.GetPatientByAccount(ctx, account.ID)
		if err != nil {
			return uuid.Nil, err
		}
		return patient.ID, nil
	}
	return uuid.Nil, ErrAccountNotFound
}

func (s *Service) ChangePassword(ctx context.Context, accountID uuid.UUID, req models.ChangePasswordRequest) error {
	fieldErrs := models.FieldErrors{}
	if req.NewPassword == "" {
		fieldErrs["new_password"] = "new password is required"
	} else if len(req.NewPassword) < 8 {
		fieldErrs["new_password"] = "password must be at least 8 characters"
	}
	if req.NewPassword != req.ConfirmPassword {
		fieldErrs["confirm_password"] = "passwords do not match"
	}

	hash, err := s.repo.GetPasswordHash(ctx, accountID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.CurrentPassword)) != nil {
		fieldErrs["current_password"] = "current password is incorrect"
	}
	if len(fieldErrs) > 0 {
		return fieldErrs
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, accountID, string(newHash))
}

func (s *Service) GetAccount(ctx context.Context, id uuid.UUID) (models.Account, error) {
	return s.repo.GetAccountByID(ctx, id)
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (models.Doctor, error) {
	return s.repo.GetDoctor(ctx, id)
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (models.Patient, error) {
	return s.repo.GetPatient(ctx, id)
}

func (s *Service) GetDoctorByAccount(ctx context.Context, accountID uuid.UUID) (models.Doctor, error) {
	return s.repo.GetDoctorByAccount(ctx, accountID)
}

func (s *Service) GetPatientByAccount(ctx context.Context, accountID uuid.UUID) (models.Patient, error) {
	return s.repo.GetPatientByAccount(ctx, accountID)
}

func (s *Service) ListDoctors(ctx context.Context, filter DoctorFilter, page, size int) ([]models.Doctor, int64, error) {
	return s.repo.ListDoctors(ctx, filter, page, size)
}

func (s *Service) ListPatients(ctx context.Context, query string, page, size int) ([]models.Patient, int64, error) {
	return s.repo.ListPatients(ctx, query, page, size)
}

// DoctorProfileUpdate carries profile fields a doctor may change after
// signup. Nil means leave unchanged.
type DoctorProfileUpdate struct {
	PhoneNumber             *string `json:"phone_number,omitempty" schema:"phone_number"`
	District                *string `json:"district,omitempty" schema:"district"`
	Sector                  *string `json:"sector,omitempty" schema:"sector"`
	PrimaryPracticeDistrict *string `json:"primary_practice_district,omitempty" schema:"primary_practice_district"`
	Specialization          *string `json:"specialization,omitempty" schema:"specialization"`
	YearsOfExperience       *int    `json:"years_of_experience,omitempty" schema:"years_of_experience"`
	ProfessionalBio         *string `json:"professional_bio,omitempty" schema:"professional_bio"`
	IsAvailable             *bool   `json:"is_available,omitempty" schema:"is_available"`
	NotifyEmail             *bool   `json:"notify_email,omitempty" schema:"notify_email"`
	NotifySMS               *bool   `json:"notify_sms,omitempty" schema:"notify_sms"`
	NotifyInApp             *bool   `json:"notify_in_app,omitempty" schema:"notify_in_app"`
}

func (s *Service) UpdateDoctorProfile(ctx context.Context, doctorID uuid.UUID, update DoctorProfileUpdate) (models.Doctor, error) {
	fieldErrs := models.FieldErrors{}
	updates := map[string]interface{}{}
	if update.PhoneNumber != nil {
		updates["phone_number"] = strings.TrimSpace(*update.PhoneNumber)
	}
	if update.District != nil {
		updates["district"] = strings.TrimSpace(*update.District)
	}
	if update.Sector != nil {
		updates["sector"] = strings.TrimSpace(*update.Sector)
	}
	if update.PrimaryPracticeDistrict != nil {
		updates["primary_practice_district"] = strings.TrimSpace(*update.PrimaryPracticeDistrict)
	}
	if update.Specialization != nil {
		if !s.catalog.ValidSpecialization(*update.Specialization) {
			fieldErrs["specialization"] = "unknown specialization"
		} else {
			updates["specialization"] = *update.Specialization
		}
	}
	if update.YearsOfExperience != nil {
		if *update.YearsOfExperience < 0 {
			fieldErrs["years_of_experience"] = "years of experience cannot be negative"
		} else {
			updates["years_of_experience"] = *update.YearsOfExperience
		}
	}
	if update.ProfessionalBio != nil {
		updates["professional_bio"] = strings.TrimSpace(*update.ProfessionalBio)
	}
	if update.IsAvailable != nil {
		updates["is_available"] = *update.IsAvailable
	}
	if update.NotifyEmail != nil {
		updates["notify_email"] = *update.NotifyEmail
	}
	if update.NotifySMS != nil {
		updates["notify_sms"] = *update.NotifySMS
	}
	if update.NotifyInApp != nil {
		updates["notify_in_app"] = *update.NotifyInApp
	}
	if len(fieldErrs) > 0 {
		return models.Doctor{}, fieldErrs
	}
	if len(updates) > 0 {
		if err := s.repo.UpdateDoctor(ctx, doctorID, updates); err != nil {
			return models.Doctor{}, err
		}
	}
	return s.repo.GetDoctor(ctx, doctorID)
}

// PatientProfileUpdate mirrors DoctorProfileUpdate for the patient portal.
type PatientProfileUpdate struct {
	PhoneNumber      *string `json:"phone_number,omitempty" schema:"phone_number"`
	District         *string `json:"district,omitempty" schema:"district"`
	Sector           *string `json:"sector,omitempty" schema:"sector"`
	Address          *string `json:"address,omitempty" schema:"address"`
	BloodType        *string `json:"blood_type,omitempty" schema:"blood_type"`
	EmergencyContact *string `json:"emergency_contact,omitempty" schema:"emergency_contact"`
	HealthStatus     *string `json:"health_status,omitempty" schema:"health_status"`
}

func (s *Service) UpdatePatientProfile(ctx context.Context, patientID uuid.UUID, update PatientProfileUpdate) (models.Patient, error) {
	fieldErrs := models.FieldErrors{}
	updates := map[string]interface{}{}
	if update.PhoneNumber != nil {
		updates["phone_number"] = strings.TrimSpace(*update.PhoneNumber)
	}
	if update.District != nil {
		updates["district"] = strings.TrimSpace(*update.District)
	}
	if update.Sector != nil {
		updates["sector"] = strings.TrimSpace(*update.Sector)
	}
	if update.Address != nil {
		updates["address"] = strings.TrimSpace(*update.Address)
	}
	if update.BloodType != nil {
		if !s.catalog.ValidBloodType(*update.BloodType) {
			fieldErrs["blood_type"] = "unknown blood type"
		} else {
			updates["blood_type"] = *update.BloodType
		}
	}
	if update.EmergencyContact != nil {
		updates["emergency_contact"] = strings.TrimSpace(*update.EmergencyContact)
	}
	if update.HealthStatus != nil {
		if !s.catalog.ValidHealthStatus(*update.HealthStatus) {
			fieldErrs["health_status"] = "unknown health status"
		} else {
			updates["health_status"] = *update.HealthStatus
		}
	}
	if len(fieldErrs) > 0 {
		return models.Patient{}, fieldErrs
	}
	if len(updates) > 0 {
		if err := s.repo.UpdatePatient(ctx, patientID, updates); err != nil {
			return models.Patient{}, err
		}
	}
	return s.repo.GetPatient(ctx, patientID)
}

func (s *Service) SetDoctorImage(ctx context.Context, doctorID uuid.UUID, path string) error {
	return s.repo.UpdateDoctor(ctx, doctorID, map[string]interface{}{"profile_image": path})
}

func (s *Service) SetPatientAvatar(ctx context.Context, patientID uuid.UUID, path string) error {
	return s.repo.UpdatePatient(ctx, patientID, map[string]interface{}{"avatar": path})
}

// validateSignupCommon checks the shared account fields. Email
// uniqueness is reported before any password problem so a duplicate
// signup never leaks past it.
func validateSignupCommon(fieldErrs models.FieldErrors, email, password, confirm string, emailTaken bool) {
	email = strings.TrimSpace(email)
	switch {
	case email == "":
		fieldErrs["email"] = "email is required"
	case !strings.Contains(email, "@") || strings.HasPrefix(email, "@") || strings.HasSuffix(email, "@"):
		fieldErrs["email"] = "enter a valid email address"
	case emailTaken:
		fieldErrs["email"] = "an account with this email already exists"
	}

	if password == "" {
		fieldErrs["password"] = "password is required"
	} else if len(password) < 8 {
		fieldErrs["password"] = "password must be at least 8 characters"
	}
	if password != confirm {
		fieldErrs["confirm_password"] = "passwords do not match"
	}
}

func (s *Service) validateDoctorFields(fieldErrs models.FieldErrors, req models.DoctorSignupRequest) {
	if strings.TrimSpace(req.LicenceNumber) == "" {
		fieldErrs["doctor_licence_number"] = "licence number is required"
	}
	if strings.TrimSpace(req.FirstName) == "" {
		fieldErrs["first_name"] = "first name is required"
	}
	if strings.TrimSpace(req.LastName) == "" {
		fieldErrs["last_name"] = "last name is required"
	}
	if req.DOB != "" {
		if _, err := time.Parse("2006-01-02", req.DOB); err != nil {
			fieldErrs["dob"] = "date must be YYYY-MM-DD"
		}
	}
	if req.Specialization == "" {
		fieldErrs["specialization"] = "specialization is required"
	} else if !s.catalog.ValidSpecialization(req.Specialization) {
		fieldErrs["specialization"] = "unknown specialization"
	}
	if req.YearsOfExperience < 0 {
		fieldErrs["years_of_experience"] = "years of experience cannot be negative"
	}
}

func (s *Service) validatePatientFields(fieldErrs models.FieldErrors, req models.PatientSignupRequest) {
	if strings.TrimSpace(req.NationalID) == "" {
		fieldErrs["patient_national_id"] = "national ID is required"
	}
	if strings.TrimSpace(req.FirstName) == "" {
		fieldErrs["first_name"] = "first name is required"
	}
	if strings.TrimSpace(req.LastName) == "" {
		fieldErrs["last_name"] = "last name is required"
	}
	if req.DOB != "" {
		if _, err := time.Parse("2006-01-02", req.DOB); err != nil {
			fieldErrs["dob"] = "date must be YYYY-MM-DD"
		}
	}
	if req.BloodType != "" && !s.catalog.ValidBloodType(req.BloodType) {
		fieldErrs["blood_type"] = "unknown blood type"
	}
}
