package consultation

import (
	"net/http"
	"strings"

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
	r.HandleFunc("/consultations", h.list).Methods(http.MethodGet)
	r.HandleFunc("/consultations", h.create).Methods(http.MethodPost)
	r.HandleFunc("/consultations/{id}", h.get).Methods(http.MethodGet)
	r.HandleFunc("/consultations/{id}", h.update).Methods(http.MethodPut, http.MethodPost)
	r.HandleFunc("/consultations/{id}", h.delete).Methods(http.MethodDelete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		httpx.Error(w, ErrConsultationNotFound, ErrConsultationNotFound)
		return
	}
	filter := ListFilter{
		Status: r.URL.Query().Get("status"),
		Query:  strings.TrimSpace(r.URL.Query().Get("q")),
	}
	switch claims.Role {
	case models.RoleDoctor:
		filter.DoctorID = claims.ProfileID
	case models.RolePatient:
		filter.PatientID = claims.ProfileID
	}
	page := httpx.PageParam(r)
	consultations, total, err := h.service.List(r.Context(), filter, page, h.pageSize)
	if err != nil {
		httpx.Error(w, err, ErrConsultationNotFound)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, models.NewPage(consultations, page, h.pageSize, total))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok || claims.Role != models.RoleDoctor {
		httpx.Error(w, ErrConsultationNotFound, ErrConsultationNotFound)
		return
	}
	var req models.ConsultationRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, models.FieldErrors{"body": err.Error()}, ErrConsultationNotFound)
		return
	}
	consultation, err := h.service.Create(r.Context(), claims.ProfileID, req)
	if err != nil {
		httpx.Error(w, err, ErrConsultationNotFound)
		return
	}
	httpx.RespondJSON(w, http.StatusCreated, consultation)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		httpx.Error(w, ErrConsultationNotFound, ErrConsultationNotFound)
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		httpx.Error(w, ErrConsultationNotFound, ErrConsultationNotFound)
		return
	}
	consultation, err := h.service.Get(r.Context(), claims.Role, claims.ProfileID, id)
	if err != nil {
		httpx.Error(w, err, ErrConsultationNotFound)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, consultation)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok || claims.Role != models.RoleDoctor {
		httpx.Error(w, ErrConsultationNotFound, ErrConsultationNotFound)
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		httpx.Error(w, ErrConsultationNotFound, ErrConsultationNotFound)
		return
	}
	var req models.ConsultationRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, models.FieldErrors{"body": err.Error()}, ErrConsultationNotFound)
		return
	}
	consultation, err := h.service.Update(r.Context(), claims.ProfileID, id, req)
	if err != nil {
		httpx.Error(w, err, ErrConsultationNotFound)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, consultation)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok || claims.Role != models.RoleDoctor {
		httpx.Error(w, ErrConsultationNotFound, ErrConsultationNotFound)
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		httpx.Error(w, ErrConsultationNotFound, ErrConsultationNotFound)
		return
	}
	if err := h.service.Delete(r.Context(), claims.ProfileID, id); err != nil {
		httpx.Error(w, err, ErrConsultationNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
