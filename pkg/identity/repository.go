package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sfsf02/AcceessHealth/pkg/common/models"
	"gorm.io/gorm"
)

var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrDoctorNotFound   = errors.New("doctor not found")
	ErrPatientNotFound  = errors.New("patient not found")
	ErrHospitalNotFound = errors.New("hospital not found")
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type AccountModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"uniqueIndex"`
	FirstName    string
	LastName     string
	Role         string `gorm:"index"`
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (AccountModel) TableName() string {
	return "accounts"
}

type DoctorModel struct {
	ID                      uuid.UUID `gorm:"type:uuid;primaryKey"`
	AccountID               uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	LicenceNumber           string    `gorm:"uniqueIndex"`
	FirstName               string
	LastName                string
	DOB                     string
	Gender                  string `gorm:"index"`
	District                string `gorm:"index"`
	Sector                  string
	PrimaryPracticeDistrict string
	PhoneNumber             string
	Affiliation             string
	Specialization          string `gorm:"index"`
	YearsOfExperience       int
	ProfessionalBio         string
	ProfileImage            string
	IsAvailable             bool `gorm:"default:true"`
	NotifyEmail             bool `gorm:"default:true"`
	NotifySMS               bool `gorm:"default:false"`
	NotifyInApp             bool `gorm:"default:true"`
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

func (DoctorModel) TableName() string {
	return "doctors"
}

type PatientModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	AccountID        uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	NationalID       string    `gorm:"uniqueIndex"`
	FirstName        string
	LastName         string
	DOB              string
	Gender           string
	District         string
	Sector           string
	PhoneNumber      string
	BloodType        string
	Address          string
	EmergencyContact string
	Avatar           string
	HealthStatus     string `gorm:"default:scheduled"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (PatientModel) TableName() string {
	return "patients"
}

// Read-side mappings onto tables owned by pkg/hospital; provisioning
// writes the affiliation row inside the signup transaction.
type hospitalRow struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name            string
	District        string
	ConsultationFee float64
}

func (hospitalRow) TableName() string {
	return "hospitals"
}

type affiliationRow struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	DoctorID          uuid.UUID `gorm:"type:uuid"`
	HospitalID        uuid.UUID `gorm:"type:uuid"`
	IsPrimaryLocation bool
	AvailableDays     string
	CreatedAt         time.Time
}

func (affiliationRow) TableName() string {
	return "doctor_hospitals"
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&AccountModel{}, &DoctorModel{}, &PatientModel{})
}

func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&AccountModel{}).
		Where("email = ?", normalizeEmail(email)).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) GetHospital(ctx context.Context, id uuid.UUID) (models.Hospital, error) {
	var row hospitalRow
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Hospital{}, ErrHospitalNotFound
	}
	if err != nil {
		return models.Hospital{}, err
	}
	return models.Hospital{ID: row.ID, Name: row.Name, District: row.District, ConsultationFee: row.ConsultationFee}, nil
}

type CreateDoctorInput struct {
	Email        string
	PasswordHash string
	Hospital     models.Hospital
	Profile      models.Doctor
}

// CreateDoctorAccount commits account, doctor profile and the primary
// hospital affiliation together; any failure leaves no partial state.
func (r *Repository) CreateDoctorAccount(ctx context.Context, input CreateDoctorInput) (models.Doctor, error) {
	now := time.Now().UTC()
	account := AccountModel{
		ID:           uuid.New(),
		Email:        normalizeEmail(input.Email),
		FirstName:    input.Profile.FirstName,
		LastName:     input.Profile.LastName,
		Role:         models.RoleDoctor,
		PasswordHash: input.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	doctor := DoctorModel{
		ID:                      uuid.New(),
		AccountID:               account.ID,
		LicenceNumber:           input.Profile.LicenceNumber,
		FirstName:               input.Profile.FirstName,
		LastName:                input.Profile.LastName,
		DOB:                     input.Profile.DOB,
		Gender:                  input.Profile.Gender,
		District:                input.Profile.District,
		Sector:                  input.Profile.Sector,
		PrimaryPracticeDistrict: input.Profile.PrimaryPracticeDistrict,
		PhoneNumber:             input.Profile.PhoneNumber,
		Affiliation:             input.Hospital.Name,
		Specialization:          input.Profile.Specialization,
		YearsOfExperience:       input.Profile.YearsOfExperience,
		ProfessionalBio:         input.Profile.ProfessionalBio,
		IsAvailable:             true,
		NotifyEmail:             true,
		NotifyInApp:             true,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	affiliation := affiliationRow{
		ID:                uuid.New(),
		DoctorID:          doctor.ID,
		HospitalID:        input.Hospital.ID,
		IsPrimaryLocation: true,
		CreatedAt:         now,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&account).Error; err != nil {
			return err
		}
		if err := tx.Create(&doctor).Error; err != nil {
			return err
		}
		return tx.Create(&affiliation).Error
	})
	if err != nil {
		return models.Doctor{}, err
	}
	return mapDoctor(doctor), nil
}

type CreatePatientInput struct {
	Email        string
	PasswordHash string
	Profile      models.Patient
}

func (r *Repository) CreatePatientAccount(ctx context.Context, input CreatePatientInput) (models.Patient, error) {
	now := time.Now().UTC()
	account := AccountModel{
		ID:           uuid.New(),
		Email:        normalizeEmail(input.Email),
		FirstName:    input.Profile.FirstName,
		LastName:     input.Profile.LastName,
		Role:         models.RolePatient,
		PasswordHash: input.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	patient := PatientModel{
		ID:               uuid.New(),
		AccountID:        account.ID,
		NationalID:       input.Profile.NationalID,
		FirstName:        input.Profile.FirstName,
		LastName:         input.Profile.LastName,
		DOB:              input.Profile.DOB,
		Gender:           input.Profile.Gender,
		District:         input.Profile.District,
		Sector:           input.Profile.Sector,
		PhoneNumber:      input.Profile.PhoneNumber,
		BloodType:        input.Profile.BloodType,
		EmergencyContact: input.Profile.EmergencyContact,
		HealthStatus:     "scheduled",
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&account).Error; err != nil {
			return err
		}
		return tx.Create(&patient).Error
	})
	if err != nil {
		return models.Patient{}, err
	}
	return mapPatient(patient), nil
}

func (r *Repository) GetAccountByEmail(ctx context.Context, email string) (models.Account, error) {
	var account AccountModel
	err := r.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Account{}, ErrAccountNotFound
	}
	if err != nil {
		return models.Account{}, err
	}
	return mapAccount(account), nil
}

func (r *Repository) GetAccountByID(ctx context.Context, id uuid.UUID) (models.Account, error) {
	var account AccountModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Account{}, ErrAccountNotFound
	}
	if err != nil {
		return models.Account{}, err
	}
	return mapAccount(account), nil
}

func (r *Repository) GetPasswordHash(ctx context.Context, id uuid.UUID) (string, error) {
	var account AccountModel
	err := r.db.WithContext(ctx).Select("password_hash").Where("id = ?", id).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrAccountNotFound
	}
	if err != nil {
		return "", err
	}
	return account.PasswordHash, nil
}

func (r *Repository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.db.WithContext(ctx).Model(&AccountModel{}).Where("id = ?", id).Updates(map[string]interface{}{
		"password_hash": passwordHash,
		"updated_at":    time.Now().UTC(),
	}).Error
}

func (r *Repository) GetDoctorByAccount(ctx context.Context, accountID uuid.UUID) (models.Doctor, error) {
	var doctor DoctorModel
	err := r.db.WithContext(ctx).Where("account_id = ?", accountID).First(&doctor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Doctor{}, ErrDoctorNotFound
	}
	if err != nil {
		return models.Doctor{}, err
	}
	return mapDoctor(doctor), nil
}

func (r *Repository) GetPatientByAccount(ctx context.Context, accountID uuid.UUID) (models.Patient, error) {
	var patient PatientModel
	err := r.db.WithContext(ctx).Where("account_id = ?", accountID).First(&patient).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Patient{}, ErrPatientNotFound
	}
	if err != nil {
		return models.Patient{}, err
	}
	return mapPatient(patient), nil
}

func (r *Repository) GetDoctor(ctx context.Context, id uuid.UUID) (models.Doctor, error) {
	var doctor DoctorModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&doctor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Doctor{}, ErrDoctorNotFound
	}
	if err != nil {
		return models.Doctor{}, err
	}
	return mapDoctor(doctor), nil
}

func (r *Repository) GetPatient(ctx context.Context, id uuid.UUID) (models.Patient, error) {
	var patient PatientModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&patient).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Patient{}, ErrPatientNotFound
	}
	if err != nil {
		return models.Patient{}, err
	}
	return mapPatient(patient), nil
}

type DoctorFilter struct {
	Specialization string
	District       string
	Gender         string
	Query          string
}

func (r *Repository) ListDoctors(ctx context.Context, filter DoctorFilter, page, size int) ([]models.Doctor, int64, error) {
	q := r.db.WithContext(ctx).Model(&DoctorModel{})
	if filter.Specialization != "" {
		q = q.Where("LOWER(specialization) = LOWER(?)", filter.Specialization)
	}
	if filter.District != "" {
		q = q.Where("LOWER(district) = LOWER(?)", filter.District)
	}
	if filter.Gender != "" {
		q = q.Where("gender = ?", filter.Gender)
	}
	if filter.Query != "" {
		like := "%" + strings.ToLower(filter.Query) + "%"
		q = q.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(specialization) LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []DoctorModel
	err := q.Order("last_name, first_name").
		Offset((page - 1) * size).Limit(size).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	doctors := make([]models.Doctor, 0, len(rows))
	for _, row := range rows {
		doctors = append(doctors, mapDoctor(row))
	}
	return doctors, total, nil
}

func (r *Repository) ListPatients(ctx context.Context, query string, page, size int) ([]models.Patient, int64, error) {
	q := r.db.WithContext(ctx).Model(&PatientModel{})
	if query != "" {
		like := "%" + strings.ToLower(query) + "%"
		q = q.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR national_id LIKE ?", like, like, "%"+query+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []PatientModel
	err := q.Order("created_at DESC").
		Offset((page - 1) * size).Limit(size).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	patients := make([]models.Patient, 0, len(rows))
	for _, row := range rows {
		patients = append(patients, mapPatient(row))
	}
	return patients, total, nil
}

func (r *Repository) UpdateDoctor(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&DoctorModel{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDoctorNotFound
	}
	return nil
}

func (r *Repository) UpdatePatient(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&PatientModel{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPatientNotFound
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func mapAccount(account AccountModel) models.Account {
	return models.Account{
		ID:        account.ID,
		Email:     account.Email,
		FirstName: account.FirstName,
		LastName:  account.LastName,
		Role:      account.Role,
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	}
}

func mapDoctor(doctor DoctorModel) models.Doctor {
	return models.Doctor{
		ID:                      doctor.ID,
		AccountID:               doctor.AccountID,
		LicenceNumber:           doctor.LicenceNumber,
		FirstName:               doctor.FirstName,
		LastName:                doctor.LastName,
		DOB:                     doctor.DOB,
		Gender:                  doctor.Gender,
		District:                doctor.District,
		Sector:                  doctor.Sector,
		PrimaryPracticeDistrict: doctor.PrimaryPracticeDistrict,
		PhoneNumber:             doctor.PhoneNumber,
		Affiliation:             doctor.Affiliation,
		Specialization:          doctor.Specialization,
		YearsOfExperience:       doctor.YearsOfExperience,
		ProfessionalBio:         doctor.ProfessionalBio,
		ProfileImage:            doctor.ProfileImage,
		IsAvailable:             doctor.IsAvailable,
		NotifyEmail:             doctor.NotifyEmail,
		NotifySMS:               doctor.NotifySMS,
		NotifyInApp:             doctor.NotifyInApp,
		CreatedAt:               doctor.CreatedAt,
		UpdatedAt:               doctor.UpdatedAt,
	}
}

func mapPatient(patient PatientModel) models.Patient {
	return models.Patient{
		ID:               patient.ID,
		AccountID:        patient.AccountID,
		NationalID:       patient.NationalID,
		FirstName:        patient.FirstName,
		LastName:         patient.LastName,
		DOB:              patient.DOB,
		Gender:           patient.Gender,
		District:         patient.District,
		Sector:           patient.Sector,
		PhoneNumber:      patient.PhoneNumber,
		BloodType:        patient.BloodType,
		Address:          patient.Address,
		EmergencyContact: patient.EmergencyContact,
		Avatar:           patient.Avatar,
		HealthStatus:     patient.HealthStatus,
		CreatedAt:        patient.CreatedAt,
		UpdatedAt:        patient.UpdatedAt,
	}
}
