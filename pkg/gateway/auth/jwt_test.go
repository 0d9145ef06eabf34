package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sfsf02/AcceessHealth/pkg/common/models"
)

func testManager(t *testing.T) *JWTManager {
	t.Helper()
	m, err := NewJWTManager("0123456789abcdef", "accesshealth", "accesshealth-portal", time.Hour)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	return m
}

func TestIssueAndValidate(t *testing.T) {
	m := testManager(t)
	account := models.Account{
		ID:    uuid.New(),
		Email: "dr.mugisha@example.com",
		Role:  models.RoleDoctor,
	}
	profileID := uuid.New()

	token, err := m.IssueToken(account, profileID)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.AccountID != account.ID {
		t.Fatalf("account id mismatch: %s", claims.AccountID)
	}
	if claims.ProfileID != profileID {
		t.Fatalf("profile id mismatch: %s", claims.ProfileID)
	}
	if claims.Role != models.RoleDoctor {
		t.Fatalf("role mismatch: %s", claims.Role)
	}
}

func TestRejectsTamperedToken(t *testing.T) {
	m := testManager(t)
	token, err := m.IssueToken(models.Account{ID: uuid.New(), Role: models.RolePatient}, uuid.New())
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]
	if _, err := m.ValidateToken(tampered); err == nil {
		t.Fatal("expected tampered token to fail validation")
	}
}

func TestRejectsExpiredToken(t *testing.T) {
	m := testManager(t)
	m.nowFunc = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := m.IssueToken(models.Account{ID: uuid.New(), Role: models.RolePatient}, uuid.New())
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	m.nowFunc = time.Now
	if _, err := m.ValidateToken(token); err == nil {
		t.Fatal("expected expired token to fail validation")
	}
}

func TestShortSecretRejected(t *testing.T) {
	if _, err := NewJWTManager("short", "iss", "aud", time.Hour); err == nil {
		t.Fatal("expected error for short secret")
	}
}
