package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sfsf02/AcceessHealth/pkg/common/models"
	"github.com/sfsf02/AcceessHealth/pkg/gateway/auth"
)

// The router mirrors the server wiring: everything behind Authenticate,
// including the doctor directory, must reject anonymous requests.
func TestAuthenticateGatesProtectedRoutes(t *testing.T) {
	tokens, err := auth.NewJWTManager("test-secret-0123456789", "accesshealth", "portal", time.Hour)
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}

	router := mux.NewRouter()
	protected := router.PathPrefix("/api").Subrouter()
	protected.Use(Authenticate(tokens, nil, ""))
	protected.HandleFunc("/directory/doctors", func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ClaimsFrom(r.Context()); !ok {
			t.Error("handler reached without claims in context")
		}
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/directory/doctors", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous request: got %d, want 401", rec.Code)
	}

	account := models.Account{ID: uuid.New(), Email: "doc@example.com", Role: models.RoleDoctor}
	token, err := tokens.IssueToken(account, uuid.New())
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/directory/doctors", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("authenticated request: got %d, want 200", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/directory/doctors", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: got %d, want 401", rec.Code)
	}
}
