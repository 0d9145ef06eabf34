package wearable

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sfsf02/AcceessHealth/pkg/common/logger"
	"github.com/sfsf02/AcceessHealth/pkg/common/models"
	"github.com/sfsf02/AcceessHealth/pkg/observability/metrics"
	"github.com/sfsf02/AcceessHealth/pkg/terminology"
)

// EventPublisher pushes wearable alerts onto the portal bus.
type EventPublisher interface {
	PublishEvent(ctx context.Context, eventType, source string, data map[string]interface{}) error
}

type Service struct {
	repo      *Repository
	catalog   terminology.Catalog
	publisher EventPublisher
	now       func() time.Time
}

func NewService(repo *Repository, catalog terminology.Catalog, publisher EventPublisher) *Service {
	return &Service{repo: repo, catalog: catalog, publisher: publisher, now: time.Now}
}

func (s *Service) validate(req models.ReadingRequest) models.FieldErrors {
	fieldErrs := models.FieldErrors{}
	if strings.TrimSpace(req.DeviceID) == "" {
		fieldErrs["device_id"] = "device is required"
	}
	if req.ReadingType == "" {
		fieldErrs["reading_type"] = "reading type is required"
	} else if _, ok := s.catalog.Reading(req.ReadingType); !ok {
		fieldErrs["reading_type"] = "unknown reading type"
	}
	return fieldErrs
}

// Ingest stores a reading for the calling patient. Out-of-bounds
// values are flagged and announced on the bus; unknown reading types
// are rejected before they get here.
func (s *Service) Ingest(ctx context.Context, patientID uuid.UUID, req models.ReadingRequest) (models.WearableReading, error) {
	if fieldErrs := s.validate(req); len(fieldErrs) > 0 {
		return models.WearableReading{}, fieldErrs
	}

	definition, _ := s.catalog.Reading(req.ReadingType)
	unit := req.Unit
	if unit == "" {
		unit = definition.Unit
	}

	reading := models.WearableReading{
		PatientID:   patientID,
		DeviceID:    strings.TrimSpace(req.DeviceID),
		DeviceType:  req.DeviceType,
		Model:       req.Model,
		ReadingType: req.ReadingType,
		Value:       req.Value,
		Unit:        unit,
		Time:        s.now().UTC(),
		Alert:       s.catalog.OutOfBounds(req.ReadingType, req.Value),
		Metadata:    req.Metadata,
	}

	created, err := s.repo.Create(ctx, reading)
	if err != nil {
		return models.WearableReading{}, err
	}

	if created.Alert {
		metrics.IncWearableAlert()
		s.publishAlert(ctx, created)
		logger.WithFields(map[string]interface{}{
			"patient_id":   created.PatientID,
			"reading_type": created.ReadingType,
			"value":        created.Value,
		}).Warn("Wearable reading out of bounds")
	}
	return created, nil
}

func (s *Service) publishAlert(ctx context.Context, reading models.WearableReading) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.PublishEvent(ctx, models.EventWearableAlert, "wearable", map[string]interface{}{
		"reading_id":   reading.ID.String(),
		"patient_id":   reading.PatientID.String(),
		"reading_type": reading.ReadingType,
		"value":        reading.Value,
		"unit":         reading.Unit,
	})
	if err != nil {
		logger.WithField("reading_id", reading.ID).WithError(err).Error("Failed to publish wearable alert")
	}
}

// authorize lets the patient see their own readings and a doctor see
// readings of patients on their roster.
func (s *Service) authorize(ctx context.Context, role string, profileID, patientID uuid.UUID) error {
	switch role {
	case models.RolePatient:
		if profileID == patientID {
			return nil
		}
	case models.RoleDoctor:
		onRoster, err := s.repo.OnRoster(ctx, profileID, patientID)
		if err != nil {
			return err
		}
		if onRoster {
			return nil
		}
	}
	return ErrReadingNotFound
}

func (s *Service) List(ctx context.Context, role string, profileID, patientID uuid.UUID, readingType string, page, size int) ([]models.WearableReading, int64, error) {
	if err := s.authorize(ctx, role, profileID, patientID); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, patientID, readingType, page, size)
}

func (s *Service) Latest(ctx context.Context, role string, profileID, patientID uuid.UUID) ([]models.WearableReading, error) {
	if err := s.authorize(ctx, role, profileID, patientID); err != nil {
		return nil, err
	}
	return s.repo.Latest(ctx, patientID)
}
