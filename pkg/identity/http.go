package identity

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sfsf02/AcceessHealth/pkg/common/models"
	"github.com/sfsf02/AcceessHealth/pkg/gateway/httpx"
	"github.com/sfsf02/AcceessHealth/pkg/gateway/middleware"
	"github.com/sfsf02/AcceessHealth/pkg/storage"
)

type Handler struct {
	service  *Service
	files    *storage.FileStore
	pageSize int
}

func NewHandler(service *Service, files *storage.FileStore, pageSize int) *Handler {
	return &Handler{service: service, files: files, pageSize: pageSize}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/doctors", h.listDoctors).Methods(http.MethodGet)
	r.HandleFunc("/doctors/me", h.getOwnDoctor).Methods(http.MethodGet)
	r.HandleFunc("/doctors/me", h.updateOwnDoctor).Methods(http.MethodPut, http.MethodPost)
	r.HandleFunc("/doctors/me/image", h.uploadDoctorImage).Methods(http.MethodPost)
	r.HandleFunc("/doctors/{id}", h.getDoctor).Methods(http.MethodGet)

	r.HandleFunc("/patients", h.listPatients).Methods(http.MethodGet)
	r.HandleFunc("/patients/me", h.getOwnPatient).Methods(http.MethodGet)
	r.HandleFunc("/patients/me", h.updateOwnPatient).Methods(http.MethodPut, http.MethodPost)
	r.HandleFunc("/patients/me/avatar", h.uploadPatientAvatar).Methods(http.MethodPost)
	r.HandleFunc("/patients/{id}", h.getPatient).Methods(http.MethodGet)
}

func (h *Handler) listDoctors(w http.ResponseWriter, r *http.Request) {
	filter := DoctorFilter{
		Specialization: r.URL.Query().Get("specialization"),
		District:       r.URL.Query().Get("district"),
		Gender:         r.URL.Query().Get("gender"),
		Query:          strings.TrimSpace(r.URL.Query().Get("q")),
	}
	page := httpx.PageParam(r)
	doctors, total, err := h.service.ListDoctors(r.Context(), filter, page, h.pageSize)
	if err != nil {
		httpx.Error(w, err, ErrDoctorNotFound)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, models.NewPage(doctors, page, h.pageSize, total))
}

func (h *Handler) getDoctor(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		httpx.Error(w, ErrDoctorNotFound, ErrDoctorNotFound)
		return
	}
	doctor, err := h.service.GetDoctor(r.Context(), id)
	if err != nil {
		httpx.Error(w, err, ErrDoctorNotFound)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, doctor)
}

func (h *Handler) getOwnDoctor(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok || claims.Role != models.RoleDoctor {
		httpx.Error(w, ErrDoctorNotFound, ErrDoctorNotFound)
		return
	}
	doctor, err := h.service.GetDoctor(r.Context(), claims.ProfileID)
	if err != nil {
		httpx.Error(w, err, ErrDoctorNotFound)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, doctor)
}

func (h *Handler) updateOwnDoctor(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok || claims.Role != models.RoleDoctor {
		httpx.Error(w, ErrDoctorNotFound, ErrDoctorNotFound)
		return
	}
	var update DoctorProfileUpdate
	if err := httpx.Decode(r, &update); err != nil {
		httpx.Error(w, models.FieldErrors{"body": err.Error()}, ErrDoctorNotFound)
		return
	}
	doctor, err := h.service.UpdateDoctorProfile(r.Context(), claims.ProfileID, update)
	if err != nil {
		httpx.Error(w, err, ErrDoctorNotFound)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, doctor)
}

func (h *Handler) uploadDoctorImage(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok || claims.Role != models.RoleDoctor {
		httpx.Error(w, ErrDoctorNotFound, ErrDoctorNotFound)
		return
	}
	file, header, err := r.FormFile("profile_image")
	if err != nil {
		httpx.Error(w, models.FieldErrors{"profile_image": "file is required"}, ErrDoctorNotFound)
		return
	}
	defer file.Close()

	path, err := h.files.Save("doctor_images", claims.ProfileID.String(), header.Filename, file)
	if err != nil {
		httpx.Error(w, err, ErrDoctorNotFound)
		return
	}
	if err := h.service.SetDoctorImage(r.Context(), claims.ProfileID, path); err != nil {
		httpx.Error(w, err, ErrDoctorNotFound)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, map[string]string{"profile_image": path})
}

func (h *Handler) listPatients(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok || claims.Role != models.RoleDoctor {
		httpx.Error(w, ErrPatientNotFound, ErrPatientNotFound)
		return
	}
	page := httpx.PageParam(r)
	patients, total, err := h.service.ListPatients(r.Context(), strings.TrimSpace(r.URL.Query().Get("q")), page, h.pageSize)
	if err != nil {
		httpx.Error(w, err, ErrPatientNotFound)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, models.NewPage(patients, page, h.pageSize, total))
}

func (h *Handler) getPatient(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		httpx.Error(w, ErrPatientNotFound, ErrPatientNotFound)
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		httpx.Error(w, ErrPatientNotFound, ErrPatientNotFound)
		return
	}
	// Patients may only fetch their own profile through this route.
	if claims.Role == models.RolePatient && claims.ProfileID != id {
		httpx.Error(w, ErrPatientNotFound, ErrPatientNotFound)
		return
	}
	patient, err := h.service.GetPatient(r.Context(), id)
	if err != nil {
		httpx.Error(w, err, ErrPatientNotFound)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, patient)
}

func (h *Handler) getOwnPatient(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok || claims.Role != models.RolePatient {
		httpx.Error(w, ErrPatientNotFound, ErrPatientNotFound)
		return
	}
	patient, err := h.service.GetPatient(r.Context(), claims.ProfileID)
	if err != nil {
		httpx.Error(w, err, ErrPatientNotFound)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, patient)
}

func (h *Handler) updateOwnPatient(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok || claims.Role != models.RolePatient {
		httpx.Error(w, ErrPatientNotFound, ErrPatientNotFound)
		return
	}
	var update PatientProfileUpdate
	if err := httpx.Decode(r, &update); err != nil {
		httpx.Error(w, models.FieldErrors{"body": err.Error()}, ErrPatientNotFound)
		return
	}
	patient, err := h.service.UpdatePatientProfile(r.Context(), claims.ProfileID, update)
	if err != nil {
		httpx.Error(w, err, ErrPatientNotFound)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, patient)
}

func (h *Handler) uploadPatientAvatar(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok || claims.Role != models.RolePatient {
		httpx.Error(w, ErrPatientNotFound, ErrPatientNotFound)
		return
	}
	file, header, err := r.FormFile("avatar")
	if err != nil {
		httpx.Error(w, models.FieldErrors{"avatar": "file is required"}, ErrPatientNotFound)
		return
	}
	defer file.Close()

	path, err := h.files.Save("avatars", claims.ProfileID.String(), header.Filename, file)
	if err != nil {
		httpx.Error(w, err, ErrPatientNotFound)
		return
	}
	if err := h.service.SetPatientAvatar(r.Context(), claims.ProfileID, path); err != nil {
		httpx.Error(w, err, ErrPatientNotFound)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, map[string]string{"avatar": path})
}
