package review

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
	r.HandleFunc("/reviews", h.create).Methods(http.MethodPost)
	r.HandleFunc("/reviews/{id}", h.update).Methods(http.MethodPut, http.MethodPost)
	r.HandleFunc("/reviews/{id}", h.delete).Methods(http.MethodDelete)
	r.HandleFunc("/doctors/{id}/reviews", h.listForDoctor).Methods(http.MethodGet)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok || claims.Role != models.RolePatient {
		httpx.Error(w, ErrReviewNotFound, ErrReviewNotFound)
		return
	}
	var req models.ReviewRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, models.FieldErrors{"body": err.Error()}, ErrReviewNotFound)
		return
	}
	review, err := h.service.Create(r.Context(), claims.ProfileID, req)
	if err != nil {
		httpx.Error(w, err, ErrReviewNotFound)
		return
	}
	httpx.RespondJSON(w, http.StatusCreated, review)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok || claims.Role != models.RolePatient {
		httpx.Error(w, ErrReviewNotFound, ErrReviewNotFound)
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		httpx.Error(w, ErrReviewNotFound, ErrReviewNotFound)
		return
	}
	var req models.ReviewRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, models.FieldErrors{"body": err.Error()}, ErrReviewNotFound)
		return
	}
	review, err := h.service.Update(r.Context(), claims.ProfileID, id, req.Rating, req.Comment)
	if err != nil {
		httpx.Error(w, err, ErrReviewNotFound)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, review)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok || claims.Role != models.RolePatient {
		httpx.Error(w, ErrReviewNotFound, ErrReviewNotFound)
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		httpx.Error(w, ErrReviewNotFound, ErrReviewNotFound)
		return
	}
	if err := h.service.Delete(r.Context(), claims.ProfileID, id); err != nil {
		httpx.Error(w, err, ErrReviewNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listForDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		httpx.Error(w, ErrReviewNotFound, ErrReviewNotFound)
		return
	}
	page := httpx.PageParam(r)
	reviews, total, err := h.service.ListForDoctor(r.Context(), doctorID, page, h.pageSize)
	if err != nil {
		httpx.Error(w, err, ErrReviewNotFound)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, models.NewPage(reviews, page, h.pageSize, total))
}
