package wearable

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
	r.HandleFunc("/readings", h.ingest).Methods(http.MethodPost)
	r.HandleFunc("/patients/{id}/readings", h.list).Methods(http.MethodGet)
	r.HandleFunc("/patients/{id}/readings/latest", h.latest).Methods(http.MethodGet)
}

func (h *Handler) ingest(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok || claims.Role != models.RolePatient {
		httpx.Error(w, ErrReadingNotFound, ErrReadingNotFound)
		return
	}
	var req models.ReadingRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, models.FieldErrors{"body": err.Error()}, ErrReadingNotFound)
		return
	}
	reading, err := h.service.Ingest(r.Context(), claims.ProfileID, req)
	if err != nil {
		httpx.Error(w, err, ErrReadingNotFound)
		return
	}
	httpx.RespondJSON(w, http.StatusCreated, reading)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		httpx.Error(w, ErrReadingNotFound, ErrReadingNotFound)
		return
	}
	patientID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		httpx.Error(w, ErrReadingNotFound, ErrReadingNotFound)
		return
	}
	page := httpx.PageParam(r)
	readings, total, err := h.service.List(r.Context(), claims.Role, claims.ProfileID, patientID,
		r.URL.Query().Get("type"), page, h.pageSize)
	if err != nil {
		httpx.Error(w, err, ErrReadingNotFound)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, models.NewPage(readings, page, h.pageSize, total))
}

func (h *Handler) latest(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		httpx.Error(w, ErrReadingNotFound, ErrReadingNotFound)
		return
	}
	patientID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		httpx.Error(w, ErrReadingNotFound, ErrReadingNotFound)
		return
	}
	readings, err := h.service.Latest(r.Context(), claims.Role, claims.ProfileID, patientID)
	if err != nil {
		httpx.Error(w, err, ErrReadingNotFound)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, readings)
}
