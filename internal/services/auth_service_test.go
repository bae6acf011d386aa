package services

import (
	"context"
	"testing"

	"github.com/aptihub/aptitude-service/internal/auth"
	"github.com/aptihub/aptitude-service/internal/models"
	"github.com/aptihub/aptitude-service/internal/validator"
)

func newTestAuthService(t *testing.T) (*DefaultAuthService, *fakeRepository) {
	t.Helper()
	repo := newFakeRepository()
	tokens, err := auth.NewTokenManager("test-secret", auth.DefaultTokenTTL)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	return NewAuthService(repo, tokens, validator.New(), testLogger()), repo
}

func TestSignup(t *testing.T) {
	svc, _ := newTestAuthService(t)

	response, err := svc.Signup(context.Background(), &validator.SignupRequest{
		Name:     "Ada",
		Email:    "Ada@Example.com",
		Password: "secret123",
		Role:     "student",
	})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if response.Token == "" {
		t.Error("expected a token")
	}
	if response.User.Email != "ada@example.com" {
		t.Errorf("email = %q, want lowercased", response.User.Email)
	}
	if response.User.Role != models.RoleStudent {
		t.Errorf("role = %q, want %q", response.User.Role, models.RoleStudent)
	}
}

func TestSignupRoleNormalization(t *testing.T) {
	tests := []struct {
		name string
		role string
		want models.UserRole
	}{
		{name: "admin", role: "admin", want: models.RoleAdmin},
		{name: "empty defaults to student", role: "", want: models.RoleStudent},
		{name: "unknown defaults to student", role: "wizard", want: models.RoleStudent},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestAuthService(t)
			response, err := svc.Signup(context.Background(), &validator.SignupRequest{
				Name:     "Ada",
				Email:    "ada@example.com",
				Password: "secret123",
				Role:     tt.role,
			})
			if err != nil {
				t.Fatalf("Signup: %v", err)
			}
			if response.User.Role != tt.want {
				t.Errorf("case %d: role = %q, want %q", i, response.User.Role, tt.want)
			}
		})
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService(t)
	req := &validator.SignupRequest{Name: "Ada", Email: "ada@example.com", Password: "secret123"}

	if _, err := svc.Signup(context.Background(), req); err != nil {
		t.Fatalf("first Signup: %v", err)
	}

	_, err := svc.Signup(context.Background(), req)
	if err == nil {
		t.Fatal("expected conflict for a duplicate email")
	}
	if CodeOf(err) != ErrCodeConflict {
		t.Errorf("error code = %q, want %q", CodeOf(err), ErrCodeConflict)
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newTestAuthService(t)
	if _, err := svc.Signup(context.Background(), &validator.SignupRequest{
		Name: "Ada", Email: "ada@example.com", Password: "secret123", Role: "student",
	}); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
		role     string
		wantCode ErrorCode
	}{
		{name: "valid student login", email: "ada@example.com", password: "secret123", role: "student"},
		{name: "wrong password", email: "ada@example.com", password: "nope12", role: "student", wantCode: ErrCodeUnauthenticated},
		{name: "unknown email", email: "bob@example.com", password: "secret123", role: "student", wantCode: ErrCodeUnauthenticated},
		{name: "role mismatch", email: "ada@example.com", password: "secret123", role: "admin", wantCode: ErrCodeForbidden},
		{name: "case-insensitive email", email: "ADA@example.com", password: "secret123", role: "student"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response, err := svc.Login(context.Background(), &validator.LoginRequest{
				Email:    tt.email,
				Password: tt.password,
				Role:     tt.role,
			})
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("Login: %v", err)
				}
				if response.Token == "" {
					t.Error("expected a token")
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if CodeOf(err) != tt.wantCode {
				t.Errorf("error code = %q, want %q", CodeOf(err), tt.wantCode)
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	svc, repo := newTestAuthService(t)
	response, err := svc.Signup(context.Background(), &validator.SignupRequest{
		Name: "Ada", Email: "ada@example.com", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	user, err := svc.Authenticate(context.Background(), response.Token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if user.Email != "ada@example.com" {
		t.Errorf("email = %q", user.Email)
	}

	if _, err := svc.Authenticate(context.Background(), "garbage"); err == nil {
		t.Error("expected error for a garbage token")
	}

	// Tokens stop working once the account is gone.
	delete(repo.users.byID, user.ID)
	if _, err := svc.Authenticate(context.Background(), response.Token); err == nil {
		t.Error("expected error for a deleted user")
	}
}
