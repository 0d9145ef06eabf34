package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sfsf02/AcceessHealth/pkg/common/models"
	"gorm.io/gorm"
)

var ErrAppointmentNotFound = errors.New("appointment not found")

// Postgres SQLSTATE for unique_violation.
const uniqueViolationCode = "23505"

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type AppointmentModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	DoctorID        uuid.UUID `gorm:"type:uuid;index"`
	PatientID       uuid.UUID `gorm:"type:uuid;index"`
	AppointmentDate string    `gorm:"index"`
	AppointmentTime string
	AppointmentType string
	Status          string `gorm:"index"`
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (AppointmentModel) TableName() string {
	return "appointments"
}

// PatientDoctorModel is the care roster. Booking adds the pair once;
// later bookings with the same doctor are no-ops.
type PatientDoctorModel struct {
	PatientID uuid.UUID `gorm:"type:uuid;primaryKey"`
	DoctorID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time
}

func (PatientDoctorModel) TableName() string {
	return "patient_doctors"
}

// AutoMigrate also installs the partial unique index that backs the
// conflict pre-check: two live appointments can never share a doctor,
// date and time, no matter how requests interleave.
func (r *Repository) AutoMigrate() error {
	if err := r.db.AutoMigrate(&AppointmentModel{}, &PatientDoctorModel{}); err != nil {
		return err
	}
	return r.db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_appointments_live_slot
		ON appointments (doctor_id, appointment_date, appointment_time)
		WHERE status <> 'cancelled'`).Error
}

func (r *Repository) Create(ctx context.Context, appointment models.Appointment) (models.Appointment, error) {
	now := time.Now().UTC()
	row := AppointmentModel{
		ID:              uuid.New(),
		DoctorID:        appointment.DoctorID,
		PatientID:       appointment.PatientID,
		AppointmentDate: appointment.AppointmentDate,
		AppointmentTime: appointment.AppointmentTime,
		AppointmentType: appointment.AppointmentType,
		Status:          appointment.Status,
		Notes:           appointment.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		roster := PatientDoctorModel{
			PatientID: appointment.PatientID,
			DoctorID:  appointment.DoctorID,
			CreatedAt: now,
		}
		return tx.Where("patient_id = ? AND doctor_id = ?", roster.PatientID, roster.DoctorID).
			FirstOrCreate(&roster).Error
	})
	if err != nil {
		return models.Appointment{}, err
	}
	return mapAppointment(row), nil
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (models.Appointment, error) {
	var row AppointmentModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Appointment{}, ErrAppointmentNotFound
	}
	if err != nil {
		return models.Appointment{}, err
	}
	return mapAppointment(row), nil
}

// SlotTaken reports whether the doctor already has a live appointment
// at the slot. Cancelled rows never block, and exclude lets an edit
// skip the row being edited.
func (r *Repository) SlotTaken(ctx context.Context, doctorID uuid.UUID, date, timeOfDay string, exclude uuid.UUID) (bool, error) {
	q := r.db.WithContext(ctx).Model(&AppointmentModel{}).
		Where("doctor_id = ? AND appointment_date = ? AND appointment_time = ?", doctorID, date, timeOfDay).
		Where("status <> ?", models.AppointmentCancelled)
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	var count int64
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&AppointmentModel{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&AppointmentModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

type ListFilter struct {
	DoctorID  uuid.UUID
	PatientID uuid.UUID
	Status    string
	Date      string
	FromDate  string
	ToDate    string
	Query     string
}

func (r *Repository) List(ctx context.Context, filter ListFilter, page, size int) ([]models.Appointment, int64, error) {
	q := r.db.WithContext(ctx).Model(&AppointmentModel{})
	if filter.DoctorID != uuid.Nil {
		q = q.Where("doctor_id = ?", filter.DoctorID)
	}
	if filter.PatientID != uuid.Nil {
		q = q.Where("patient_id = ?", filter.PatientID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Date != "" {
		q = q.Where("appointment_date = ?", filter.Date)
	}
	if filter.FromDate != "" {
		q = q.Where("appointment_date >= ?", filter.FromDate)
	}
	if filter.ToDate != "" {
		q = q.Where("appointment_date <= ?", filter.ToDate)
	}
	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		q = q.Where(`appointment_type ILIKE ? OR status ILIKE ? OR patient_id IN (
			SELECT id FROM patients
			WHERE first_name ILIKE ? OR last_name ILIKE ?)`,
			pattern, pattern, pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []AppointmentModel
	err := q.Order("appointment_date, appointment_time").
		Offset((page - 1) * size).Limit(size).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	appointments := make([]models.Appointment, 0, len(rows))
	for _, row := range rows {
		appointments = append(appointments, mapAppointment(row))
	}
	return appointments, total, nil
}

// CountByStatus feeds the doctor dashboard.
func (r *Repository) CountByStatus(ctx context.Context, doctorID uuid.UUID) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var rows []statusCount
	err := r.db.WithContext(ctx).Model(&AppointmentModel{}).
		Select("status, COUNT(*) AS count").
		Where("doctor_id = ?", doctorID).
		Group("status").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// CountInMonth counts a doctor's appointments falling inside the
// calendar month of the given date, cancelled rows included.
func (r *Repository) CountInMonth(ctx context.Context, doctorID uuid.UUID, firstOfMonth, firstOfNext string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&AppointmentModel{}).
		Where("doctor_id = ?", doctorID).
		Where("appointment_date >= ? AND appointment_date < ?", firstOfMonth, firstOfNext).
		Count(&count).Error
	return count, err
}

func (r *Repository) CountDistinctPatients(ctx context.Context, doctorID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&AppointmentModel{}).
		Where("doctor_id = ?", doctorID).
		Distinct("patient_id").
		Count(&count).Error
	return count, err
}

func (r *Repository) RosterDoctorIDs(ctx context.Context, patientID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&PatientDoctorModel{}).
		Where("patient_id = ?", patientID).
		Pluck("doctor_id", &ids).Error
	return ids, err
}

func (r *Repository) RosterPatientIDs(ctx context.Context, doctorID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&PatientDoctorModel{}).
		Where("doctor_id = ?", doctorID).
		Pluck("patient_id", &ids).Error
	return ids, err
}

// Read-only name lookups for notification text.
type personRow struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName string
	LastName  string
}

func (r *Repository) DoctorName(ctx context.Context, id uuid.UUID) (string, error) {
	var row personRow
	err := r.db.WithContext(ctx).Table("doctors").Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrAppointmentNotFound
	}
	if err != nil {
		return "", err
	}
	return "Dr. " + row.FirstName + " " + row.LastName, nil
}

func (r *Repository) PatientName(ctx context.Context, id uuid.UUID) (string, error) {
	var row personRow
	err := r.db.WithContext(ctx).Table("patients").Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrAppointmentNotFound
	}
	if err != nil {
		return "", err
	}
	return row.FirstName + " " + row.LastName, nil
}

func (r *Repository) DoctorExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("doctors").Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *Repository) PatientExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("patients").Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// isUniqueViolation recognises the partial unique index firing on the
// losing side of a booking race, so the caller can report a conflict
// rather than a storage failure.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationCode
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func mapAppointment(row AppointmentModel) models.Appointment {
	return models.Appointment{
		ID:              row.ID,
		DoctorID:        row.DoctorID,
		PatientID:       row.PatientID,
		AppointmentDate: row.AppointmentDate,
		AppointmentTime: row.AppointmentTime,
		AppointmentType: row.AppointmentType,
		Status:          row.Status,
		Notes:           row.Notes,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}
