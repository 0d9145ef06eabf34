package notification

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sfsf02/AcceessHealth/pkg/common/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type NotificationModel struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	DoctorID      *uuid.UUID `gorm:"type:uuid;index"`
	PatientID     *uuid.UUID `gorm:"type:uuid;index"`
	Type          string
	Title         string
	Message       string
	IsRead        bool `gorm:"index"`
	AppointmentID *uuid.UUID `gorm:"type:uuid"`
	Payload       datatypes.JSONMap
	CreatedAt     time.Time `gorm:"index"`
}

func (NotificationModel) TableName() string {
	return "notifications"
}

type PreferencesModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	PatientID        uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	EmailAppointment bool      `gorm:"default:true"`
	EmailHealthAlert bool      `gorm:"default:true"`
	SMSAppointment   bool      `gorm:"default:false"`
	SMSHealthAlert   bool      `gorm:"default:false"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (PreferencesModel) TableName() string {
	return "notification_preferences"
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&NotificationModel{}, &PreferencesModel{})
}

func (r *Repository) Create(ctx context.Context, notification models.Notification) (models.Notification, error) {
	row := NotificationModel{
		ID:            uuid.New(),
		DoctorID:      notification.DoctorID,
		PatientID:     notification.PatientID,
		Type:          notification.Type,
		Title:         notification.Title,
		Message:       notification.Message,
		AppointmentID: notification.AppointmentID,
		Payload:       datatypes.JSONMap(notification.Payload),
		CreatedAt:     time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return models.Notification{}, err
	}
	return mapNotification(row), nil
}

type FeedFilter struct {
	DoctorID   *uuid.UUID
	PatientID  *uuid.UUID
	UnreadOnly bool
}

func (r *Repository) Feed(ctx context.Context, filter FeedFilter, page, size int) ([]models.Notification, int64, error) {
	q := r.db.WithContext(ctx).Model(&NotificationModel{})
	if filter.DoctorID != nil {
		q = q.Where("doctor_id = ?", *filter.DoctorID)
	}
	if filter.PatientID != nil {
		q = q.Where("patient_id = ?", *filter.PatientID)
	}
	if filter.UnreadOnly {
		q = q.Where("is_read = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []NotificationModel
	err := q.Order("created_at DESC").Offset((page - 1) * size).Limit(size).Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	notifications := make([]models.Notification, 0, len(rows))
	for _, row := range rows {
		notifications = append(notifications, mapNotification(row))
	}
	return notifications, total, nil
}

func (r *Repository) UnreadCount(ctx context.Context, filter FeedFilter) (int64, error) {
	q := r.db.WithContext(ctx).Model(&NotificationModel{}).Where("is_read = ?", false)
	if filter.DoctorID != nil {
		q = q.Where("doctor_id = ?", *filter.DoctorID)
	}
	if filter.PatientID != nil {
		q = q.Where("patient_id = ?", *filter.PatientID)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (models.Notification, error) {
	var row NotificationModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Notification{}, ErrNotificationNotFound
	}
	if err != nil {
		return models.Notification{}, err
	}
	return mapNotification(row), nil
}

func (r *Repository) MarkRead(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&NotificationModel{}).Where("id = ?", id).Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *Repository) MarkAllRead(ctx context.Context, filter FeedFilter) error {
	q := r.db.WithContext(ctx).Model(&NotificationModel{}).Where("is_read = ?", false)
	if filter.DoctorID != nil {
		q = q.Where("doctor_id = ?", *filter.DoctorID)
	}
	if filter.PatientID != nil {
		q = q.Where("patient_id = ?", *filter.PatientID)
	}
	return q.Update("is_read", true).Error
}

// GetOrCreatePreferences returns the patient's preferences, creating
// the default row on first access.
func (r *Repository) GetOrCreatePreferences(ctx context.Context, patientID uuid.UUID) (models.NotificationPreferences, error) {
	row := PreferencesModel{
		ID:               uuid.New(),
		PatientID:        patientID,
		EmailAppointment: true,
		EmailHealthAlert: true,
		CreatedAt:        time.Now().UTC(),
		UpdatedAt:        time.Now().UTC(),
	}
	err := r.db.WithContext(ctx).Where("patient_id = ?", patientID).FirstOrCreate(&row).Error
	if err != nil {
		return models.NotificationPreferences{}, err
	}
	return mapPreferences(row), nil
}

func (r *Repository) UpdatePreferences(ctx context.Context, patientID uuid.UUID, prefs models.NotificationPreferences) (models.NotificationPreferences, error) {
	if _, err := r.GetOrCreatePreferences(ctx, patientID); err != nil {
		return models.NotificationPreferences{}, err
	}
	err := r.db.WithContext(ctx).Model(&PreferencesModel{}).
		Where("patient_id = ?", patientID).
		Updates(map[string]interface{}{
			"email_appointment":  prefs.EmailAppointment,
			"email_health_alert": prefs.EmailHealthAlert,
			"sms_appointment":    prefs.SMSAppointment,
			"sms_health_alert":   prefs.SMSHealthAlert,
			"updated_at":         time.Now().UTC(),
		}).Error
	if err != nil {
		return models.NotificationPreferences{}, err
	}
	return r.GetOrCreatePreferences(ctx, patientID)
}

func (r *Repository) RosterDoctorIDs(ctx context.Context, patientID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Table("patient_doctors").
		Where("patient_id = ?", patientID).
		Pluck("doctor_id", &ids).Error
	return ids, err
}

func mapNotification(row NotificationModel) models.Notification {
	return models.Notification{
		ID:            row.ID,
		DoctorID:      row.DoctorID,
		PatientID:     row.PatientID,
		Type:          row.Type,
		Title:         row.Title,
		Message:       row.Message,
		IsRead:        row.IsRead,
		AppointmentID: row.AppointmentID,
		Payload:       map[string]interface{}(row.Payload),
		CreatedAt:     row.CreatedAt,
	}
}

func mapPreferences(row PreferencesModel) models.NotificationPreferences {
	return models.NotificationPreferences{
		ID:               row.ID,
		PatientID:        row.PatientID,
		EmailAppointment: row.EmailAppointment,
		EmailHealthAlert: row.EmailHealthAlert,
		SMSAppointment:   row.SMSAppointment,
		SMSHealthAlert:   row.SMSHealthAlert,
	}
}
