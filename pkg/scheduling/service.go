package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sfsf02/AcceessHealth/pkg/common/logger"
	"github.com/sfsf02/AcceessHealth/pkg/common/models"
	"github.com/sfsf02/AcceessHealth/pkg/observability/metrics"
	"github.com/sfsf02/AcceessHealth/pkg/terminology"
)

// EventPublisher pushes appointment events onto the portal bus. nil
// disables publishing.
type EventPublisher interface {
	PublishEvent(ctx context.Context, eventType, source string, data map[string]interface{}) error
}

// Notifier writes the in-app feed row on the request path so the
// recipient sees it on their next page load regardless of the bus.
type Notifier interface {
	Notify(ctx context.Context, notification models.Notification) error
}

type Service struct {
	repo      *Repository
	catalog   terminology.Catalog
	publisher EventPublisher
	notifier  Notifier
	now       func() time.Time
}

func NewService(repo *Repository, catalog terminology.Catalog, publisher EventPublisher, notifier Notifier) *Service {
	return &Service{
		repo:      repo,
		catalog:   catalog,
		publisher: publisher,
		notifier:  notifier,
		now:       time.Now,
	}
}

// Book creates a pending appointment for the calling patient. The
// doctor's slot must be free among non-cancelled appointments.
func (s *Service) Book(ctx context.Context, patientID uuid.UUID, req models.BookAppointmentRequest) (models.Appointment, error) {
	fieldErrs := models.FieldErrors{}

	if req.DoctorID == uuid.Nil {
		fieldErrs["doctor_id"] = "doctor is required"
	} else {
		exists, err := s.repo.DoctorExists(ctx, req.DoctorID)
		if err != nil {
			return models.Appointment{}, err
		}
		if !exists {
			fieldErrs["doctor_id"] = "doctor does not exist"
		}
	}
	if slotErrs := ValidateSlot(req.AppointmentDate, req.AppointmentTime, s.now()); slotErrs != nil {
		for k, v := range slotErrs {
			fieldErrs[k] = v
		}
	}
	if req.AppointmentType != "" && !s.catalog.ValidAppointmentType(req.AppointmentType) {
		fieldErrs["appointment_type"] = "unknown appointment type"
	}
	if len(fieldErrs) > 0 {
		return models.Appointment{}, fieldErrs
	}

	appointment, err := s.create(ctx, req.DoctorID, patientID, req)
	if err != nil {
		return models.Appointment{}, err
	}
	s.notifyDoctor(ctx, appointment, "appointment_booked", "New appointment request")
	s.publish(ctx, models.EventAppointmentBooked, appointment)
	return appointment, nil
}

// BookByDoctor creates a pending appointment on behalf of the calling
// doctor, who picks the patient. The same slot rules apply; the roster
// add happens in the create transaction as usual.
func (s *Service) BookByDoctor(ctx context.Context, doctorID uuid.UUID, req models.BookAppointmentRequest) (models.Appointment, error) {
	fieldErrs := models.FieldErrors{}

	if req.PatientID == uuid.Nil {
		fieldErrs["patient_id"] = "patient is required"
	}
	if slotErrs := ValidateSlot(req.AppointmentDate, req.AppointmentTime, s.now()); slotErrs != nil {
		for k, v := range slotErrs {
			fieldErrs[k] = v
		}
	}
	if req.AppointmentType != "" && !s.catalog.ValidAppointmentType(req.AppointmentType) {
		fieldErrs["appointment_type"] = "unknown appointment type"
	}
	if len(fieldErrs) > 0 {
		return models.Appointment{}, fieldErrs
	}

	exists, err := s.repo.PatientExists(ctx, req.PatientID)
	if err != nil {
		return models.Appointment{}, err
	}
	if !exists {
		return models.Appointment{}, models.FieldErrors{"patient_id": "patient does not exist"}
	}

	appointment, err := s.create(ctx, doctorID, req.PatientID, req)
	if err != nil {
		return models.Appointment{}, err
	}
	s.notifyPatient(ctx, appointment, "appointment_booked", "New appointment scheduled")
	s.publish(ctx, models.EventAppointmentBooked, appointment)
	return appointment, nil
}

// create runs the conflict scan and the insert shared by both booking
// paths.
func (s *Service) create(ctx context.Context, doctorID, patientID uuid.UUID, req models.BookAppointmentRequest) (models.Appointment, error) {
	taken, err := s.repo.SlotTaken(ctx, doctorID, req.AppointmentDate, req.AppointmentTime, uuid.Nil)
	if err != nil {
		return models.Appointment{}, err
	}
	if taken {
		metrics.IncConflict()
		return models.Appointment{}, models.ConflictError{Message: "the doctor already has an appointment at this time"}
	}

	appointmentType := req.AppointmentType
	if appointmentType == "" {
		appointmentType = "consultation"
	}
	appointment, err := s.repo.Create(ctx, models.Appointment{
		DoctorID:        doctorID,
		PatientID:       patientID,
		AppointmentDate: req.AppointmentDate,
		AppointmentTime: req.AppointmentTime,
		AppointmentType: appointmentType,
		Status:          models.AppointmentPending,
		Notes:           req.Notes,
	})
	if err != nil {
		if isUniqueViolation(err) {
			metrics.IncConflict()
			return models.Appointment{}, models.ConflictError{Message: "the doctor already has an appointment at this time"}
		}
		return models.Appointment{}, err
	}

	metrics.IncBooking()
	logger.WithFields(map[string]interface{}{
		"appointment_id": appointment.ID,
		"doctor_id":      appointment.DoctorID,
		"patient_id":     appointment.PatientID,
		"date":           appointment.AppointmentDate,
		"time":           appointment.AppointmentTime,
	}).Info("Appointment booked")
	return appointment, nil
}

// Edit lets the owning doctor reschedule or move the appointment
// through its lifecycle. Only fields present in the request change.
func (s *Service) Edit(ctx context.Context, doctorID, appointmentID uuid.UUID, req models.UpdateAppointmentRequest) (models.Appointment, error) {
	appointment, err := s.repo.Get(ctx, appointmentID)
	if err != nil {
		return models.Appointment{}, err
	}
	if appointment.DoctorID != doctorID {
		return models.Appointment{}, ErrAppointmentNotFound
	}

	fieldErrs := models.FieldErrors{}
	date := appointment.AppointmentDate
	timeOfDay := appointment.AppointmentTime
	if req.AppointmentDate != nil {
		date = *req.AppointmentDate
	}
	if req.AppointmentTime != nil {
		timeOfDay = *req.AppointmentTime
	}

	updates := map[string]interface{}{}
	if req.AppointmentDate != nil || req.AppointmentTime != nil {
		if slotErrs := ValidateSlot(date, timeOfDay, s.now()); slotErrs != nil {
			for k, v := range slotErrs {
				fieldErrs[k] = v
			}
		} else {
			taken, err := s.repo.SlotTaken(ctx, appointment.DoctorID, date, timeOfDay, appointment.ID)
			if err != nil {
				return models.Appointment{}, err
			}
			if taken {
				metrics.IncConflict()
				return models.Appointment{}, models.ConflictError{Message: "the doctor already has an appointment at this time"}
			}
			updates["appointment_date"] = date
			updates["appointment_time"] = timeOfDay
		}
	}
	if req.AppointmentType != nil {
		if !s.catalog.ValidAppointmentType(*req.AppointmentType) {
			fieldErrs["appointment_type"] = "unknown appointment type"
		} else {
			updates["appointment_type"] = *req.AppointmentType
		}
	}
	if req.Status != nil {
		if !ValidStatus(*req.Status) {
			fieldErrs["status"] = "unknown status"
		} else if err := ValidateTransition(appointment.Status, *req.Status); err != nil {
			return models.Appointment{}, err
		} else {
			updates["status"] = *req.Status
		}
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if len(fieldErrs) > 0 {
		return models.Appointment{}, fieldErrs
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, appointment.ID, updates); err != nil {
			if isUniqueViolation(err) {
				metrics.IncConflict()
				return models.Appointment{}, models.ConflictError{Message: "the doctor already has an appointment at this time"}
			}
			return models.Appointment{}, err
		}
	}
	updated, err := s.repo.Get(ctx, appointment.ID)
	if err != nil {
		return models.Appointment{}, err
	}

	if req.Status != nil && *req.Status == models.AppointmentCancelled && appointment.Status != models.AppointmentCancelled {
		metrics.IncCancellation()
		s.notifyPatient(ctx, updated, "appointment_cancelled", "Appointment cancelled")
		s.publish(ctx, models.EventAppointmentCancelled, updated)
	}
	return updated, nil
}

// Cancel is the patient-side cancellation. Cancelling an already
// cancelled appointment is a no-op.
func (s *Service) Cancel(ctx context.Context, patientID, appointmentID uuid.UUID) (models.Appointment, error) {
	appointment, err := s.repo.Get(ctx, appointmentID)
	if err != nil {
		return models.Appointment{}, err
	}
	if appointment.PatientID != patientID {
		return models.Appointment{}, ErrAppointmentNotFound
	}
	if appointment.Status == models.AppointmentCancelled {
		logger.WithField("appointment_id", appointment.ID).Warn("Appointment already cancelled")
		return appointment, nil
	}
	if err := ValidateTransition(appointment.Status, models.AppointmentCancelled); err != nil {
		return models.Appointment{}, err
	}

	if err := s.repo.Update(ctx, appointment.ID, map[string]interface{}{"status": models.AppointmentCancelled}); err != nil {
		return models.Appointment{}, err
	}
	appointment.Status = models.AppointmentCancelled

	metrics.IncCancellation()
	s.notifyDoctor(ctx, appointment, "appointment_cancelled", "Appointment cancelled")
	s.publish(ctx, models.EventAppointmentCancelled, appointment)

	logger.WithField("appointment_id", appointment.ID).Info("Appointment cancelled by patient")
	return appointment, nil
}

// Delete removes the appointment row entirely. Doctor-only.
func (s *Service) Delete(ctx context.Context, doctorID, appointmentID uuid.UUID) error {
	appointment, err := s.repo.Get(ctx, appointmentID)
	if err != nil {
		return err
	}
	if appointment.DoctorID != doctorID {
		return ErrAppointmentNotFound
	}
	return s.repo.Delete(ctx, appointmentID)
}

func (s *Service) Get(ctx context.Context, claims Caller, appointmentID uuid.UUID) (models.Appointment, error) {
	appointment, err := s.repo.Get(ctx, appointmentID)
	if err != nil {
		return models.Appointment{}, err
	}
	if !claims.Owns(appointment) {
		return models.Appointment{}, ErrAppointmentNotFound
	}
	return appointment, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter, page, size int) ([]models.Appointment, int64, error) {
	return s.repo.List(ctx, filter, page, size)
}

// Dashboard summarises a doctor's schedule: per-status counts, this
// month's volume, distinct patients seen, today's appointments and
// the confirmed ones over the next seven days.
type Dashboard struct {
	Counts       map[string]int64     `json:"counts"`
	MonthCount   int64                `json:"month_count"`
	PatientCount int64                `json:"patient_count"`
	Today        []models.Appointment `json:"today"`
	Upcoming     []models.Appointment `json:"upcoming"`
}

func (s *Service) DoctorDashboard(ctx context.Context, doctorID uuid.UUID) (Dashboard, error) {
	counts, err := s.repo.CountByStatus(ctx, doctorID)
	if err != nil {
		return Dashboard{}, err
	}
	now := s.now()
	today := now.Format("2006-01-02")
	weekOut := now.AddDate(0, 0, 7).Format("2006-01-02")
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format("2006-01-02")
	firstOfNext := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, 1, 0).Format("2006-01-02")

	monthCount, err := s.repo.CountInMonth(ctx, doctorID, firstOfMonth, firstOfNext)
	if err != nil {
		return Dashboard{}, err
	}
	patientCount, err := s.repo.CountDistinctPatients(ctx, doctorID)
	if err != nil {
		return Dashboard{}, err
	}
	todays, _, err := s.repo.List(ctx, ListFilter{DoctorID: doctorID, Date: today}, 1, 50)
	if err != nil {
		return Dashboard{}, err
	}
	upcoming, _, err := s.repo.List(ctx, ListFilter{
		DoctorID: doctorID,
		FromDate: today,
		ToDate:   weekOut,
		Status:   models.AppointmentConfirmed,
	}, 1, 50)
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{
		Counts:       counts,
		MonthCount:   monthCount,
		PatientCount: patientCount,
		Today:        todays,
		Upcoming:     upcoming,
	}, nil
}

func (s *Service) RosterDoctorIDs(ctx context.Context, patientID uuid.UUID) ([]uuid.UUID, error) {
	return s.repo.RosterDoctorIDs(ctx, patientID)
}

func (s *Service) RosterPatientIDs(ctx context.Context, doctorID uuid.UUID) ([]uuid.UUID, error) {
	return s.repo.RosterPatientIDs(ctx, doctorID)
}

// Caller scopes reads to the authenticated profile.
type Caller struct {
	Role      string
	ProfileID uuid.UUID
}

func (c Caller) Owns(appointment models.Appointment) bool {
	switch c.Role {
	case models.RoleDoctor:
		return appointment.DoctorID == c.ProfileID
	case models.RolePatient:
		return appointment.PatientID == c.ProfileID
	}
	return false
}

func (s *Service) notifyDoctor(ctx context.Context, appointment models.Appointment, notificationType, title string) {
	if s.notifier == nil {
		return
	}
	patientName, err := s.repo.PatientName(ctx, appointment.PatientID)
	if err != nil {
		patientName = "a patient"
	}
	id := appointment.ID
	doctorID := appointment.DoctorID
	err = s.notifier.Notify(ctx, models.Notification{
		DoctorID:      &doctorID,
		Type:          notificationType,
		Title:         title,
		Message:       patientName + " on " + appointment.AppointmentDate + " at " + appointment.AppointmentTime,
		AppointmentID: &id,
	})
	if err != nil {
		logger.WithField("appointment_id", appointment.ID).WithError(err).Error("Failed to write doctor notification")
	}
}

func (s *Service) notifyPatient(ctx context.Context, appointment models.Appointment, notificationType, title string) {
	if s.notifier == nil {
		return
	}
	doctorName, err := s.repo.DoctorName(ctx, appointment.DoctorID)
	if err != nil {
		doctorName = "your doctor"
	}
	id := appointment.ID
	patientID := appointment.PatientID
	err = s.notifier.Notify(ctx, models.Notification{
		PatientID:     &patientID,
		Type:          notificationType,
		Title:         title,
		Message:       doctorName + " on " + appointment.AppointmentDate + " at " + appointment.AppointmentTime,
		AppointmentID: &id,
	})
	if err != nil {
		logger.WithField("appointment_id", appointment.ID).WithError(err).Error("Failed to write patient notification")
	}
}

func (s *Service) publish(ctx context.Context, eventType string, appointment models.Appointment) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.PublishEvent(ctx, eventType, "scheduling", map[string]interface{}{
		"appointment_id":   appointment.ID.String(),
		"doctor_id":        appointment.DoctorID.String(),
		"patient_id":       appointment.PatientID.String(),
		"appointment_date": appointment.AppointmentDate,
		"appointment_time": appointment.AppointmentTime,
		"status":           appointment.Status,
	})
	if err != nil {
		logger.WithField("appointment_id", appointment.ID).WithError(err).Error("Failed to publish appointment event")
	}
}
