package routes

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sfsf02/AcceessHealth/pkg/common/logger"
	"github.com/sfsf02/AcceessHealth/pkg/common/models"
	"github.com/sfsf02/AcceessHealth/pkg/gateway/auth"
	"github.com/sfsf02/AcceessHealth/pkg/gateway/httpx"
	"github.com/sfsf02/AcceessHealth/pkg/gateway/middleware"
	"github.com/sfsf02/AcceessHealth/pkg/identity"
)

// AuthHandler wires signup and login for both portals. A successful
// login issues a bearer token for API clients and a session cookie for
// browser form clients; either credential works on later requests.
type AuthHandler struct {
	identity   *identity.Service
	tokens     *auth.JWTManager
	sessions   *auth.SessionStore
	cookieName string
}

func NewAuthHandler(identityService *identity.Service, tokens *auth.JWTManager, sessions *auth.SessionStore, cookieName string) *AuthHandler {
	return &AuthHandler{
		identity:   identityService,
		tokens:     tokens,
		sessions:   sessions,
		cookieName: cookieName,
	}
}

func (h *AuthHandler) RegisterPublicRoutes(r *mux.Router) {
	r.HandleFunc("/auth/doctor/signup", h.doctorSignup).Methods(http.MethodPost)
	r.HandleFunc("/auth/patient/signup", h.patientSignup).Methods(http.MethodPost)
	r.HandleFunc("/auth/doctor/login", h.login(models.RoleDoctor)).Methods(http.MethodPost)
	r.HandleFunc("/auth/patient/login", h.login(models.RolePatient)).Methods(http.MethodPost)
}

func (h *AuthHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/auth/me", h.me).Methods(http.MethodGet)
	r.HandleFunc("/auth/logout", h.logout).Methods(http.MethodPost)
	r.HandleFunc("/auth/change-password", h.changePassword).Methods(http.MethodPost)
}

func (h *AuthHandler) doctorSignup(w http.ResponseWriter, r *http.Request) {
	var req models.DoctorSignupRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, models.FieldErrors{"body": err.Error()}, identity.ErrAccountNotFound)
		return
	}
	doctor, err := h.identity.SignupDoctor(r.Context(), req)
	if err != nil {
		httpx.Error(w, err, identity.ErrAccountNotFound)
		return
	}
	httpx.RespondJSON(w, http.StatusCreated, doctor)
}

func (h *AuthHandler) patientSignup(w http.ResponseWriter, r *http.Request) {
	var req models.PatientSignupRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, models.FieldErrors{"body": err.Error()}, identity.ErrAccountNotFound)
		return
	}
	patient, err := h.identity.SignupPatient(r.Context(), req)
	if err != nil {
		httpx.Error(w, err, identity.ErrAccountNotFound)
		return
	}
	httpx.RespondJSON(w, http.StatusCreated, patient)
}

func (h *AuthHandler) login(portal string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.Error(w, models.FieldErrors{"body": err.Error()}, identity.ErrAccountNotFound)
			return
		}

		account, profileID, err := h.identity.Authenticate(r.Context(), portal, req.Email, req.Password)
		if errors.Is(err, identity.ErrInvalidCredentials) {
			httpx.RespondJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
			return
		}
		if err != nil {
			httpx.Error(w, err, identity.ErrAccountNotFound)
			return
		}

		token, err := h.tokens.IssueToken(account, profileID)
		if err != nil {
			httpx.Error(w, err, identity.ErrAccountNotFound)
			return
		}

		claims, err := h.tokens.ValidateToken(token)
		if err != nil {
			httpx.Error(w, err, identity.ErrAccountNotFound)
			return
		}
		sessionToken, err := h.sessions.Create(r.Context(), *claims)
		if err != nil {
			logger.WithError(err).Warn("Session store unavailable, issuing token only")
		} else {
			http.SetCookie(w, &http.Cookie{
				Name:     h.cookieName,
				Value:    sessionToken,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		httpx.RespondJSON(w, http.StatusOK, models.AuthResponse{Token: token, Account: account})
	}
}

func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		httpx.RespondJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}
	account, err := h.identity.GetAccount(r.Context(), claims.AccountID)
	if err != nil {
		httpx.Error(w, err, identity.ErrAccountNotFound)
		return
	}

	response := map[string]interface{}{"account": account}
	switch claims.Role {
	case models.RoleDoctor:
		if doctor, err := h.identity.GetDoctor(r.Context(), claims.ProfileID); err == nil {
			response["doctor"] = doctor
		}
	case models.RolePatient:
		if patient, err := h.identity.GetPatient(r.Context(), claims.ProfileID); err == nil {
			response["patient"] = patient
		}
	}
	httpx.RespondJSON(w, http.StatusOK, response)
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.cookieName); err == nil {
		if err := h.sessions.Delete(r.Context(), cookie.Value); err != nil {
			logger.WithError(err).Warn("Failed to delete session")
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	httpx.RespondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (h *AuthHandler) changePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		httpx.RespondJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}
	var req models.ChangePasswordRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, models.FieldErrors{"body": err.Error()}, identity.ErrAccountNotFound)
		return
	}
	if err := h.identity.ChangePassword(r.Context(), claims.AccountID, req); err != nil {
		httpx.Error(w, err, identity.ErrAccountNotFound)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, map[string]string{"status": "password changed"})
}
