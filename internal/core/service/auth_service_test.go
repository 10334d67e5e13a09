package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/clearport/clearance-system/internal/core/domain"
	"github.com/clearport/clearance-system/internal/core/ports"
)

type authFixture struct {
	svc    *AuthService
	users  *stubUserRepo
	owners *stubOwnerRepo
	agents *stubAgentRepo
}

func newAuthFixture() *authFixture {
	users := newStubUserRepo()
	owners := newStubOwnerRepo()
	agents := newStubAgentRepo()
	return &authFixture{
		svc:    NewAuthService(users, owners, agents, "secret", time.Hour),
		users:  users,
		owners: owners,
		agents: agents,
	}
}

func TestAuthService_Register_CargoOwner(t *testing.T) {
	f := newAuthFixture()

	user, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Email:       "owner@example.com",
		Password:    "pass123",
		Role:        domain.RoleCargoOwner,
		CompanyName: "Acme Imports",
		TaxID:       "NL001",
		City:        "Rotterdam",
		Country:     "NL",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if !user.IsActive || user.IsVerified {
		t.Fatalf("unexpected flags: active=%v verified=%v", user.IsActive, user.IsVerified)
	}

	owner, err := f.owners.FindByUserID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("owner profile not created: %v", err)
	}
	if owner.CompanyName != "Acme Imports" {
		t.Fatalf("profile fields not stored: %+v", owner)
	}
}

func TestAuthService_Register_Agent(t *testing.T) {
	f := newAuthFixture()

	user, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Email:           "agent@example.com",
		Password:        "pass123",
		Role:            domain.RoleAgent,
		CompanyName:     "FastClear",
		LicenseNumber:   "LIC-42",
		YearsExperience: 7,
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	agent, err := f.agents.FindByUserID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("agent profile not created: %v", err)
	}
	if agent.LicenseNumber != "LIC-42" || agent.YearsExperience != 7 {
		t.Fatalf("profile fields not stored: %+v", agent)
	}
	if agent.IsVerified {
		t.Fatalf("new agents must start unverified")
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	f := newAuthFixture()

	cases := []ports.RegisterInput{
		{Email: "", Password: "x", Role: domain.RoleCargoOwner},
		{Email: "a@b.c", Password: "", Role: domain.RoleCargoOwner},
		{Email: "a@b.c", Password: "x", Role: "wrong"},
		{Email: "a@b.c", Password: "x", Role: domain.RoleAdmin}, // admins are not self-service
	}
	for i, input := range cases {
		if _, err := f.svc.Register(context.Background(), input); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("case %d: expected ErrInvalidCredentials, got %v", i, err)
		}
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	f := newAuthFixture()
	input := ports.RegisterInput{Email: "dup@example.com", Password: "x", Role: domain.RoleCargoOwner}

	if _, err := f.svc.Register(context.Background(), input); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := f.svc.Register(context.Background(), input); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	f := newAuthFixture()
	registered, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Email: "carol@example.com", Password: "s3cret", Role: domain.RoleAgent,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	token, user, err := f.svc.Login(context.Background(), "carol@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if user.ID != registered.ID {
		t.Fatalf("wrong user returned")
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	if claims["user_id"] != registered.ID {
		t.Fatalf("user_id claim missing: %v", claims)
	}
	if claims["role"] != domain.RoleAgent {
		t.Fatalf("role claim missing: %v", claims)
	}

	if _, _, err := f.svc.Login(context.Background(), "carol@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := f.svc.Login(context.Background(), "ghost@example.com", "s3cret"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
