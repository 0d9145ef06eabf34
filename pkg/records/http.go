package records

import (
	"io"
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
	r.HandleFunc("/records", h.list).Methods(http.MethodGet)
	r.HandleFunc("/records", h.create).Methods(http.MethodPost)
	r.HandleFunc("/records/{id}", h.get).Methods(http.MethodGet)
	r.HandleFunc("/records/{id}", h.update).Methods(http.MethodPut, http.MethodPost)
	r.HandleFunc("/records/{id}", h.delete).Methods(http.MethodDelete)
}

// attachmentFile pulls the optional upload out of a multipart body.
// JSON bodies carry no file.
func attachmentFile(r *http.Request) (io.ReadCloser, string) {
	file, header, err := r.FormFile("attachment")
	if err != nil {
		return nil, ""
	}
	return file, header.Filename
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		httpx.Error(w, ErrRecordNotFound, ErrRecordNotFound)
		return
	}
	var req models.RecordRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, models.FieldErrors{"body": err.Error()}, ErrRecordNotFound)
		return
	}

	file, filename := attachmentFile(r)
	var reader io.Reader
	if file != nil {
		defer file.Close()
		reader = file
	}

	var record models.PatientRecord
	var err error
	switch claims.Role {
	case models.RoleDoctor:
		record, err = h.service.CreateByDoctor(r.Context(), claims.ProfileID, req, reader, filename)
	case models.RolePatient:
		record, err = h.service.CreateByPatient(r.Context(), claims.ProfileID, req, reader, filename)
	default:
		httpx.Error(w, ErrRecordNotFound, ErrRecordNotFound)
		return
	}
	if err != nil {
		httpx.Error(w, err, ErrRecordNotFound)
		return
	}
	httpx.RespondJSON(w, http.StatusCreated, record)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		httpx.Error(w, ErrRecordNotFound, ErrRecordNotFound)
		return
	}
	page := httpx.PageParam(r)

	var (
		records []models.PatientRecord
		total   int64
		err     error
	)
	switch claims.Role {
	case models.RolePatient:
		records, total, err = h.service.ListForPatient(r.Context(), claims.ProfileID, page, h.pageSize)
	case models.RoleDoctor:
		if patientParam := r.URL.Query().Get("patient_id"); patientParam != "" {
			patientID, parseErr := uuid.Parse(patientParam)
			if parseErr != nil {
				httpx.Error(w, ErrRecordNotFound, ErrRecordNotFound)
				return
			}
			records, total, err = h.service.ListForPatient(r.Context(), patientID, page, h.pageSize)
		} else {
			records, total, err = h.service.ListByDoctor(r.Context(), claims.ProfileID, page, h.pageSize)
		}
	default:
		httpx.Error(w, ErrRecordNotFound, ErrRecordNotFound)
		return
	}
	if err != nil {
		httpx.Error(w, err, ErrRecordNotFound)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, models.NewPage(records, page, h.pageSize, total))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		httpx.Error(w, ErrRecordNotFound, ErrRecordNotFound)
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		httpx.Error(w, ErrRecordNotFound, ErrRecordNotFound)
		return
	}
	record, err := h.service.Get(r.Context(), claims.Role, claims.ProfileID, id)
	if err != nil {
		httpx.Error(w, err, ErrRecordNotFound)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, record)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		httpx.Error(w, ErrRecordNotFound, ErrRecordNotFound)
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		httpx.Error(w, ErrRecordNotFound, ErrRecordNotFound)
		return
	}
	var req models.RecordRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, models.FieldErrors{"body": err.Error()}, ErrRecordNotFound)
		return
	}
	record, err := h.service.Update(r.Context(), claims.Role, claims.ProfileID, id, req)
	if err != nil {
		httpx.Error(w, err, ErrRecordNotFound)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, record)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		httpx.Error(w, ErrRecordNotFound, ErrRecordNotFound)
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		httpx.Error(w, ErrRecordNotFound, ErrRecordNotFound)
		return
	}
	if err := h.service.Delete(r.Context(), claims.Role, claims.ProfileID, id); err != nil {
		httpx.Error(w, err, ErrRecordNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
