package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

var (
	signupsDoctor      atomic.Int64
	signupsPatient     atomic.Int64
	loginsFailed       atomic.Int64
	bookingsCreated    atomic.Int64
	bookingsCancelled  atomic.Int64
	bookingConflicts   atomic.Int64
	consultationsTotal atomic.Int64
	wearableAlerts     atomic.Int64
	notificationsTotal atomic.Int64
)

func IncDoctorSignup()   { signupsDoctor.Add(1) }
func IncPatientSignup()  { signupsPatient.Add(1) }
func IncFailedLogin()    { loginsFailed.Add(1) }
func IncBooking()        { bookingsCreated.Add(1) }
func IncCancellation()   { bookingsCancelled.Add(1) }
func IncConflict()       { bookingConflicts.Add(1) }
func IncConsultation()   { consultationsTotal.Add(1) }
func IncWearableAlert()  { wearableAlerts.Add(1) }
func IncNotification()   { notificationsTotal.Add(1) }

func WritePrometheus(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	write := func(name, help string, value int64) {
		fmt.Fprintf(w, "# HELP %s %s\n", name, help)
		fmt.Fprintf(w, "# TYPE %s counter\n", name)
		fmt.Fprintf(w, "%s %d\n", name, value)
	}

	write("accesshealth_signups_doctor_total", "Doctor accounts provisioned since start.", signupsDoctor.Load())
	write("accesshealth_signups_patient_total", "Patient accounts provisioned since start.", signupsPatient.Load())
	write("accesshealth_logins_failed_total", "Rejected login attempts since start.", loginsFailed.Load())
	write("accesshealth_appointments_booked_total", "Appointments created since start.", bookingsCreated.Load())
	write("accesshealth_appointments_cancelled_total", "Appointments cancelled since start.", bookingsCancelled.Load())
	write("accesshealth_appointment_conflicts_total", "Bookings rejected by the slot-conflict check since start.", bookingConflicts.Load())
	write("accesshealth_consultations_total", "Consultation records created since start.", consultationsTotal.Load())
	write("accesshealth_wearable_alerts_total", "Wearable readings flagged as alerts since start.", wearableAlerts.Load())
	write("accesshealth_notifications_total", "Notification feed rows created since start.", notificationsTotal.Load())
}

func Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WritePrometheus(w)
	}
}
