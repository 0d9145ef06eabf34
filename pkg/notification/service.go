package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sfsf02/AcceessHealth/pkg/common/logger"
	"github.com/sfsf02/AcceessHealth/pkg/common/models"
	"github.com/sfsf02/AcceessHealth/pkg/observability/metrics"
)

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Notify writes one feed row. It backs the request-path notifications
// from scheduling as well as the bus relay.
func (s *Service) Notify(ctx context.Context, notification models.Notification) error {
	if notification.DoctorID == nil && notification.PatientID == nil {
		return models.FieldErrors{"recipient": "notification needs a doctor or patient recipient"}
	}
	if _, err := s.repo.Create(ctx, notification); err != nil {
		return err
	}
	metrics.IncNotification()
	return nil
}

func feedFilter(role string, profileID uuid.UUID, unreadOnly bool) (FeedFilter, error) {
	switch role {
	case models.RoleDoctor:
		return FeedFilter{DoctorID: &profileID, UnreadOnly: unreadOnly}, nil
	case models.RolePatient:
		return FeedFilter{PatientID: &profileID, UnreadOnly: unreadOnly}, nil
	}
	return FeedFilter{}, ErrNotificationNotFound
}

func (s *Service) Feed(ctx context.Context, role string, profileID uuid.UUID, unreadOnly bool, page, size int) ([]models.Notification, int64, error) {
	filter, err := feedFilter(role, profileID, unreadOnly)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.Feed(ctx, filter, page, size)
}

func (s *Service) UnreadCount(ctx context.Context, role string, profileID uuid.UUID) (int64, error) {
	filter, err := feedFilter(role, profileID, false)
	if err != nil {
		return 0, err
	}
	return s.repo.UnreadCount(ctx, filter)
}

// MarkRead flips a single notification. Reading someone else's feed
// row is a not-found.
func (s *Service) MarkRead(ctx context.Context, role string, profileID, notificationID uuid.UUID) error {
	notification, err := s.repo.Get(ctx, notificationID)
	if err != nil {
		return err
	}
	switch role {
	case models.RoleDoctor:
		if notification.DoctorID == nil || *notification.DoctorID != profileID {
			return ErrNotificationNotFound
		}
	case models.RolePatient:
		if notification.PatientID == nil || *notification.PatientID != profileID {
			return ErrNotificationNotFound
		}
	default:
		return ErrNotificationNotFound
	}
	return s.repo.MarkRead(ctx, notificationID)
}

func (s *Service) MarkAllRead(ctx context.Context, role string, profileID uuid.UUID) error {
	filter, err := feedFilter(role, profileID, false)
	if err != nil {
		return err
	}
	return s.repo.MarkAllRead(ctx, filter)
}

func (s *Service) GetPreferences(ctx context.Context, patientID uuid.UUID) (models.NotificationPreferences, error) {
	return s.repo.GetOrCreatePreferences(ctx, patientID)
}

func (s *Service) UpdatePreferences(ctx context.Context, patientID uuid.UUID, prefs models.NotificationPreferences) (models.NotificationPreferences, error) {
	return s.repo.UpdatePreferences(ctx, patientID, prefs)
}

// HandleEvent is the bus consumer entry point. Appointment events are
// already written to the feed on the request path; only wearable
// alerts fan out here, to the patient and every doctor on their roster.
func (s *Service) HandleEvent(ctx context.Context, event models.Event) error {
	switch event.Type {
	case models.EventWearableAlert:
		return s.handleWearableAlert(ctx, event)
	case models.EventAppointmentBooked, models.EventAppointmentCancelled:
		return nil
	default:
		logger.WithField("event_type", event.Type).Debug("Ignoring unhandled event")
		return nil
	}
}

func (s *Service) handleWearableAlert(ctx context.Context, event models.Event) error {
	patientRaw, _ := event.Data["patient_id"].(string)
	patientID, err := uuid.Parse(patientRaw)
	if err != nil {
		return fmt.Errorf("wearable alert without patient_id: %w", err)
	}
	readingType, _ := event.Data["reading_type"].(string)
	value, _ := event.Data["value"].(float64)
	unit, _ := event.Data["unit"].(string)
	message := fmt.Sprintf("%s reading of %.1f %s is outside the safe range", readingType, value, unit)

	// Channel annotation follows the patient's preferences; the in-app
	// feed row is always written.
	channels := []string{"in_app"}
	if prefs, err := s.repo.GetOrCreatePreferences(ctx, patientID); err == nil {
		if prefs.EmailHealthAlert {
			channels = append(channels, "email")
		}
		if prefs.SMSHealthAlert {
			channels = append(channels, "sms")
		}
	} else {
		logger.WithField("patient_id", patientID).WithError(err).Warn("Failed to load notification preferences")
	}
	payload := make(map[string]interface{}, len(event.Data)+1)
	for k, v := range event.Data {
		payload[k] = v
	}
	payload["channels"] = channels

	patient := patientID
	if err := s.Notify(ctx, models.Notification{
		PatientID: &patient,
		Type:      "health_alert",
		Title:     "Health alert",
		Message:   message,
		Payload:   payload,
	}); err != nil {
		return err
	}

	doctorIDs, err := s.repo.RosterDoctorIDs(ctx, patientID)
	if err != nil {
		return err
	}
	for _, doctorID := range doctorIDs {
		doctor := doctorID
		if err := s.Notify(ctx, models.Notification{
			DoctorID: &doctor,
			Type:     "health_alert",
			Title:    "Patient health alert",
			Message:  message,
			Payload:  payload,
		}); err != nil {
			logger.WithField("doctor_id", doctorID).WithError(err).Error("Failed to notify doctor of wearable alert")
		}
	}
	return nil
}
