package notification

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
	r.HandleFunc("/notifications", h.feed).Methods(http.MethodGet)
	r.HandleFunc("/notifications/unread-count", h.unreadCount).Methods(http.MethodGet)
	r.HandleFunc("/notifications/read-all", h.markAllRead).Methods(http.MethodPost)
	r.HandleFunc("/notifications/{id}/read", h.markRead).Methods(http.MethodPost)
	r.HandleFunc("/notification-preferences", h.getPreferences).Methods(http.MethodGet)
	r.HandleFunc("/notification-preferences", h.updatePreferences).Methods(http.MethodPut, http.MethodPost)
}

func (h *Handler) feed(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		httpx.Error(w, ErrNotificationNotFound, ErrNotificationNotFound)
		return
	}
	page := httpx.PageParam(r)
	unreadOnly := r.URL.Query().Get("unread") == "true"
	notifications, total, err := h.service.Feed(r.Context(), claims.Role, claims.ProfileID, unreadOnly, page, h.pageSize)
	if err != nil {
		httpx.Error(w, err, ErrNotificationNotFound)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, models.NewPage(notifications, page, h.pageSize, total))
}

func (h *Handler) unreadCount(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		httpx.Error(w, ErrNotificationNotFound, ErrNotificationNotFound)
		return
	}
	count, err := h.service.UnreadCount(r.Context(), claims.Role, claims.ProfileID)
	if err != nil {
		httpx.Error(w, err, ErrNotificationNotFound)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, map[string]int64{"unread": count})
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		httpx.Error(w, ErrNotificationNotFound, ErrNotificationNotFound)
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		httpx.Error(w, ErrNotificationNotFound, ErrNotificationNotFound)
		return
	}
	if err := h.service.MarkRead(r.Context(), claims.Role, claims.ProfileID, id); err != nil {
		httpx.Error(w, err, ErrNotificationNotFound)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

func (h *Handler) markAllRead(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		httpx.Error(w, ErrNotificationNotFound, ErrNotificationNotFound)
		return
	}
	if err := h.service.MarkAllRead(r.Context(), claims.Role, claims.ProfileID); err != nil {
		httpx.Error(w, err, ErrNotificationNotFound)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

func (h *Handler) getPreferences(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok || claims.Role != models.RolePatient {
		httpx.Error(w, ErrNotificationNotFound, ErrNotificationNotFound)
		return
	}
	prefs, err := h.service.GetPreferences(r.Context(), claims.ProfileID)
	if err != nil {
		httpx.Error(w, err, ErrNotificationNotFound)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, prefs)
}

type preferencesRequest struct {
	EmailAppointment bool `json:"email_appointment" schema:"email_appointment"`
	EmailHealthAlert bool `json:"email_health_alerts" schema:"email_health_alerts"`
	SMSAppointment   bool `json:"sms_appointment" schema:"sms_appointment"`
	SMSHealthAlert   bool `json:"sms_health_alerts" schema:"sms_health_alerts"`
}

func (h *Handler) updatePreferences(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok || claims.Role != models.RolePatient {
		httpx.Error(w, ErrNotificationNotFound, ErrNotificationNotFound)
		return
	}
	var req preferencesRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, models.FieldErrors{"body": err.Error()}, ErrNotificationNotFound)
		return
	}
	prefs, err := h.service.UpdatePreferences(r.Context(), claims.ProfileID, models.NotificationPreferences{
		EmailAppointment: req.EmailAppointment,
		EmailHealthAlert: req.EmailHealthAlert,
		SMSAppointment:   req.SMSAppointment,
		SMSHealthAlert:   req.SMSHealthAlert,
	})
	if err != nil {
		httpx.Error(w, err, ErrNotificationNotFound)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, prefs)
}
