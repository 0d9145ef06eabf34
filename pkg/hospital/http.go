package hospital

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

// RegisterPublicRoutes mounts the read-only hospital directory. Signup
// needs it before any session exists.
func (h *Handler) RegisterPublicRoutes(r *mux.Router) {
	r.HandleFunc("/hospitals", h.list).Methods(http.MethodGet)
	r.HandleFunc("/hospitals/{id}", h.get).Methods(http.MethodGet)
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/hospitals", h.create).Methods(http.MethodPost)
	r.HandleFunc("/affiliations", h.listAffiliations).Methods(http.MethodGet)
	r.HandleFunc("/affiliations", h.addAffiliation).Methods(http.MethodPost)
	r.HandleFunc("/affiliations/{id}/primary", h.setPrimary).Methods(http.MethodPost)
	r.HandleFunc("/affiliations/{id}", h.removeAffiliation).Methods(http.MethodDelete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page := httpx.PageParam(r)
	hospitals, total, err := h.service.List(r.Context(),
		strings.TrimSpace(r.URL.Query().Get("q")),
		r.URL.Query().Get("district"),
		page, h.pageSize)
	if err != nil {
		httpx.Error(w, err, ErrHospitalNotFound)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, models.NewPage(hospitals, page, h.pageSize, total))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		httpx.Error(w, ErrHospitalNotFound, ErrHospitalNotFound)
		return
	}
	hospital, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.Error(w, err, ErrHospitalNotFound)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, hospital)
}

type hospitalRequest struct {
	Name            string  `json:"name" schema:"name"`
	District        string  `json:"district" schema:"district"`
	Address         string  `json:"address" schema:"address"`
	PhoneNumber     string  `json:"phone_number" schema:"phone_number"`
	ConsultationFee float64 `json:"consultation_fee" schema:"consultation_fee"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.ClaimsFrom(r.Context()); !ok {
		httpx.Error(w, ErrHospitalNotFound, ErrHospitalNotFound)
		return
	}
	var req hospitalRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, models.FieldErrors{"body": err.Error()}, ErrHospitalNotFound)
		return
	}
	hospital, err := h.service.Create(r.Context(), models.Hospital{
		Name:            req.Name,
		District:        req.District,
		Address:         req.Address,
		PhoneNumber:     req.PhoneNumber,
		ConsultationFee: req.ConsultationFee,
	})
	if err != nil {
		httpx.Error(w, err, ErrHospitalNotFound)
		return
	}
	httpx.RespondJSON(w, http.StatusCreated, hospital)
}

type affiliationRequest struct {
	HospitalID    uuid.UUID `json:"hospital_id" schema:"hospital_id"`
	IsPrimary     bool      `json:"is_primary_location" schema:"is_primary_location"`
	AvailableDays string    `json:"available_days" schema:"available_days"`
}

func (h *Handler) addAffiliation(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok || claims.Role != models.RoleDoctor {
		httpx.Error(w, ErrAffiliationNotFound, ErrAffiliationNotFound)
		return
	}
	var req affiliationRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, models.FieldErrors{"body": err.Error()}, ErrAffiliationNotFound)
		return
	}
	if req.HospitalID == uuid.Nil {
		httpx.Error(w, models.FieldErrors{"hospital_id": "hospital is required"}, ErrAffiliationNotFound)
		return
	}
	affiliation, err := h.service.AddAffiliation(r.Context(), claims.ProfileID, req.HospitalID, req.IsPrimary, req.AvailableDays)
	if err != nil {
		httpx.Error(w, err, ErrHospitalNotFound)
		return
	}
	httpx.RespondJSON(w, http.StatusCreated, affiliation)
}

func (h *Handler) listAffiliations(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok || claims.Role != models.RoleDoctor {
		httpx.Error(w, ErrAffiliationNotFound, ErrAffiliationNotFound)
		return
	}
	affiliations, err := h.service.ListAffiliations(r.Context(), claims.ProfileID)
	if err != nil {
		httpx.Error(w, err, ErrAffiliationNotFound)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, affiliations)
}

func (h *Handler) setPrimary(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok || claims.Role != models.RoleDoctor {
		httpx.Error(w, ErrAffiliationNotFound, ErrAffiliationNotFound)
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		httpx.Error(w, ErrAffiliationNotFound, ErrAffiliationNotFound)
		return
	}
	if err := h.service.SetPrimary(r.Context(), claims.ProfileID, id); err != nil {
		httpx.Error(w, err, ErrAffiliationNotFound)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) removeAffiliation(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok || claims.Role != models.RoleDoctor {
		httpx.Error(w, ErrAffiliationNotFound, ErrAffiliationNotFound)
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		httpx.Error(w, ErrAffiliationNotFound, ErrAffiliationNotFound)
		return
	}
	if err := h.service.RemoveAffiliation(r.Context(), claims.ProfileID, id); err != nil {
		httpx.Error(w, err, ErrAffiliationNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
