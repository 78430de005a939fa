package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"elfportal/internal/models"
	"elfportal/internal/repositories"
)

func TestSessionRoundTrip(t *testing.T) {
	t.Parallel()
	svc := NewAuthService(nil, "test-secret", time.Hour)

	user := &models.User{ID: 7, Name: "Alice"}
	token, err := svc.IssueSession(user)
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}

	claims, err := svc.ParseSession(token)
	if err != nil {
		t.Fatalf("ParseSession: %v", err)
	}
	if claims.UserID != 7 || claims.Name != "Alice" {
		t.Errorf("claims: got user_id=%d name=%q, want 7/Alice", claims.UserID, claims.Name)
	}
	if claims.CSRF == "" {
		t.Error("session must carry a CSRF token")
	}
}

func TestParseSessionRejectsWrongSecret(t *testing.T) {
	t.Parallel()
	issuer := NewAuthService(nil, "secret-a", time.Hour)
	verifier := NewAuthService(nil, "secret-b", time.Hour)

	token, err := issuer.IssueSession(&models.User{ID: 1, Name: "X"})
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}
	if _, err := verifier.ParseSession(token); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong secret: got %v, want ErrInvalidCredentials", err)
	}
}

func TestParseSessionRejectsExpired(t *testing.T) {
	t.Parallel()
	svc := NewAuthService(nil, "test-secret", -time.Minute)

	token, err := svc.IssueSession(&models.User{ID: 1, Name: "X"})
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}
	if _, err := svc.ParseSession(token); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expired session: got %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginChecksCredentials(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	ctx := context.Background()

	users := repositories.NewUserRepository(conn)
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	if err := users.Store(ctx, &models.User{
		Name: "Alice", Email: "alice@elf-ai.co.za",
		PasswordHash: string(hash), CreatedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("store user: %v", err)
	}

	svc := NewAuthService(users, "test-secret", time.Hour)

	if _, _, err := svc.Login(ctx, "alice@elf-ai.co.za", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("bad password: got %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@elf-ai.co.za", "correct horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: got %v, want ErrInvalidCredentials", err)
	}

	user, token, err := svc.Login(ctx, "alice@elf-ai.co.za", "correct horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.Name != "Alice" || token == "" {
		t.Errorf("login result: got user=%q token set=%t", user.Name, token != "")
	}
}
