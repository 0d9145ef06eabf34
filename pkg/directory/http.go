package directory

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sfsf02/AcceessHealth/pkg/gateway/httpx"
)

type Handler struct {
	service  *Service
	pageSize int
}

func NewHandler(service *Service, pageSize int) *Handler {
	return &Handler{service: service, pageSize: pageSize}
}

// RegisterRoutes mounts the find-a-doctor search for logged-in users.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/directory/doctors", h.search).Methods(http.MethodGet)
	r.HandleFunc("/directory/filters", h.dropdowns).Methods(http.MethodGet)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	filter := Filter{
		Query:          strings.TrimSpace(r.URL.Query().Get("q")),
		Specialization: r.URL.Query().Get("specialization"),
		District:       r.URL.Query().Get("district"),
		Gender:         r.URL.Query().Get("gender"),
	}
	page := httpx.PageParam(r)
	result, err := h.service.Search(r.Context(), filter, r.URL.Query().Get("sort"), page, h.pageSize)
	if err != nil {
		httpx.Error(w, err, ErrDoctorNotFound)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) dropdowns(w http.ResponseWriter, r *http.Request) {
	dropdowns, err := h.service.Dropdowns(r.Context())
	if err != nil {
		httpx.Error(w, err, ErrDoctorNotFound)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, dropdowns)
}
