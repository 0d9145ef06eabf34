package terminology

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ReadingDefinition describes one wearable reading type: its display unit
// and the inclusive band outside of which a reading raises an alert.
type ReadingDefinition struct {
	Display  string  `yaml:"display" json:"display"`
	Unit     string  `yaml:"unit" json:"unit"`
	AlertLow float64 `yaml:"alert_low" json:"alert_low"`
	AlertHi  float64 `yaml:"alert_high" json:"alert_high"`
}

type Catalog struct {
	Specializations   []string                     `yaml:"specializations" json:"specializations"`
	AppointmentTypes  []string                     `yaml:"appointment_types" json:"appointment_types"`
	ConsultationTypes []string                     `yaml:"consultation_types" json:"consultation_types"`
	BloodTypes        []string                     `yaml:"blood_types" json:"blood_types"`
	HealthStatuses    []string                     `yaml:"health_statuses" json:"health_statuses"`
	Readings          map[string]ReadingDefinition `yaml:"readings" json:"readings"`
}

func Load(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultCatalog(), err
	}
	var cat Catalog
	if err := yaml.Unmarshal(content, &cat); err != nil {
		return Catalog{}, err
	}
	if len(cat.Specializations) == 0 {
		return Catalog{}, fmt.Errorf("terminology catalog empty")
	}
	return cat, nil
}

func contains(values []string, key string) bool {
	for _, v := range values {
		if strings.EqualFold(v, key) {
			return true
		}
	}
	return false
}

func (c Catalog) ValidSpecialization(key string) bool   { return contains(c.Specializations, key) }
func (c Catalog) ValidAppointmentType(key string) bool  { return contains(c.AppointmentTypes, key) }
func (c Catalog) ValidConsultationType(key string) bool { return contains(c.ConsultationTypes, key) }
func (c Catalog) ValidBloodType(key string) bool        { return contains(c.BloodTypes, key) }
func (c Catalog) ValidHealthStatus(key string) bool     { return contains(c.HealthStatuses, key) }

func (c Catalog) Reading(key string) (ReadingDefinition, bool) {
	if c.Readings == nil {
		return ReadingDefinition{}, false
	}
	def, ok := c.Readings[strings.ToLower(key)]
	if ok {
		return def, true
	}
	for k, v := range c.Readings {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return ReadingDefinition{}, false
}

// OutOfBounds reports whether a value for the given reading type falls
// outside its alert band. Unknown reading types never alert.
func (c Catalog) OutOfBounds(key string, value float64) bool {
	def, ok := c.Reading(key)
	if !ok {
		return false
	}
	return value < def.AlertLow || value > def.AlertHi
}

func DefaultCatalog() Catalog {
	return Catalog{
		Specializations: []string{
			"CARDIOLOGY", "NEUROLOGY", "ORTHOPEDICS", "PEDIATRICS",
			"PSYCHIATRY", "ONCOLOGY", "GENERAL",
		},
		AppointmentTypes:  []string{"consultation", "follow-up", "check-up", "emergency"},
		ConsultationTypes: []string{"consultation", "follow-up", "check-up", "emergency", "telemedicine"},
		BloodTypes:        []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"},
		HealthStatuses:    []string{"stable", "monitoring", "improved", "critical", "scheduled"},
		Readings: map[string]ReadingDefinition{
			"heart_rate": {
				Display:  "Heart Rate",
				Unit:     "bpm",
				AlertLow: 40,
				AlertHi:  130,
			},
			"blood_pressure": {
				Display:  "Blood Pressure (systolic)",
				Unit:     "mmHg",
				AlertLow: 90,
				AlertHi:  160,
			},
			"temperature": {
				Display:  "Body Temperature",
				Unit:     "°C",
				AlertLow: 35.0,
				AlertHi:  38.5,
			},
			"oxygen_saturation": {
				Display:  "Oxygen Saturation",
				Unit:     "%",
				AlertLow: 92,
				AlertHi:  100,
			},
			"blood_glucose": {
				Display:  "Blood Glucose",
				Unit:     "mg/dL",
				AlertLow: 60,
				AlertHi:  200,
			},
		},
	}
}
