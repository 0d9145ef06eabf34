package scheduling

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sfsf02/AcceessHealth/pkg/common/models"
	"github.com/sfsf02/AcceessHealth/pkg/gateway/httpx"
	"github.com/sfsf02/AcceessHealth/pkg/gateway/middleware"
)

type Handler struct {
	service  *Service
	pageSize int
}

func NewHandler(service *Service, pageSize int) *Handler {
	return &Handler{service: service, pageSize: pageSize}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/appointments", h.list).Methods(http.MethodGet)
	r.HandleFunc("/appointments", h.book).Methods(http.MethodPost)
	r.HandleFunc("/appointments/dashboard", h.dashboard).Methods(http.MethodGet)
	r.HandleFunc("/appointments/{id}", h.get).Methods(http.MethodGet)
	r.HandleFunc("/appointments/{id}", h.edit).Methods(http.MethodPut, http.MethodPost)
	r.HandleFunc("/appointments/{id}", h.delete).Methods(http.MethodDelete)
	r.HandleFunc("/appointments/{id}/cancel", h.cancel).Methods(http.MethodPost)
}

func (h *Handler) caller(r *http.Request) (Caller, bool) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		return Caller{}, false
	}
	return Caller{Role: claims.Role, ProfileID: claims.ProfileID}, true
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(r)
	if !ok {
		httpx.Error(w, ErrAppointmentNotFound, ErrAppointmentNotFound)
		return
	}
	filter := ListFilter{
		Status: r.URL.Query().Get("status"),
		Date:   r.URL.Query().Get("date"),
		Query:  r.URL.Query().Get("q"),
	}
	switch caller.Role {
	case models.RoleDoctor:
		filter.DoctorID = caller.ProfileID
	case models.RolePatient:
		filter.PatientID = caller.ProfileID
	}
	if r.URL.Query().Get("upcoming") == "true" {
		filter.FromDate = nowDate()
	}

	page := httpx.PageParam(r)
	appointments, total, err := h.service.List(r.Context(), filter, page, h.pageSize)
	if err != nil {
		httpx.Error(w, err, ErrAppointmentNotFound)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, models.NewPage(appointments, page, h.pageSize, total))
}

// book serves both creation paths: a patient books with a chosen
// doctor, a doctor schedules for a chosen patient.
func (h *Handler) book(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(r)
	if !ok {
		httpx.Error(w, ErrAppointmentNotFound, ErrAppointmentNotFound)
		return
	}
	var req models.BookAppointmentRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, models.FieldErrors{"body": err.Error()}, ErrAppointmentNotFound)
		return
	}

	var appointment models.Appointment
	var err error
	switch caller.Role {
	case models.RolePatient:
		appointment, err = h.service.Book(r.Context(), caller.ProfileID, req)
	case models.RoleDoctor:
		appointment, err = h.service.BookByDoctor(r.Context(), caller.ProfileID, req)
	default:
		httpx.Error(w, ErrAppointmentNotFound, ErrAppointmentNotFound)
		return
	}
	if err != nil {
		httpx.Error(w, err, ErrAppointmentNotFound)
		return
	}
	httpx.RespondJSON(w, http.StatusCreated, appointment)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(r)
	if !ok {
		httpx.Error(w, ErrAppointmentNotFound, ErrAppointmentNotFound)
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		httpx.Error(w, ErrAppointmentNotFound, ErrAppointmentNotFound)
		return
	}
	appointment, err := h.service.Get(r.Context(), caller, id)
	if err != nil {
		httpx.Error(w, err, ErrAppointmentNotFound)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, appointment)
}

func (h *Handler) edit(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(r)
	if !ok || caller.Role != models.RoleDoctor {
		httpx.Error(w, ErrAppointmentNotFound, ErrAppointmentNotFound)
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		httpx.Error(w, ErrAppointmentNotFound, ErrAppointmentNotFound)
		return
	}
	var req models.UpdateAppointmentRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, models.FieldErrors{"body": err.Error()}, ErrAppointmentNotFound)
		return
	}
	appointment, err := h.service.Edit(r.Context(), caller.ProfileID, id, req)
	if err != nil {
		httpx.Error(w, err, ErrAppointmentNotFound)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, appointment)
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(r)
	if !ok || caller.Role != models.RolePatient {
		httpx.Error(w, ErrAppointmentNotFound, ErrAppointmentNotFound)
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		httpx.Error(w, ErrAppointmentNotFound, ErrAppointmentNotFound)
		return
	}
	appointment, err := h.service.Cancel(r.Context(), caller.ProfileID, id)
	if err != nil {
		httpx.Error(w, err, ErrAppointmentNotFound)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, appointment)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(r)
	if !ok || caller.Role != models.RoleDoctor {
		httpx.Error(w, ErrAppointmentNotFound, ErrAppointmentNotFound)
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		httpx.Error(w, ErrAppointmentNotFound, ErrAppointmentNotFound)
		return
	}
	if err := h.service.Delete(r.Context(), caller.ProfileID, id); err != nil {
		httpx.Error(w, err, ErrAppointmentNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(r)
	if !ok || caller.Role != models.RoleDoctor {
		httpx.Error(w, ErrAppointmentNotFound, ErrAppointmentNotFound)
		return
	}
	dashboard, err := h.service.DoctorDashboard(r.Context(), caller.ProfileID)
	if err != nil {
		httpx.Error(w, err, ErrAppointmentNotFound)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, dashboard)
}
