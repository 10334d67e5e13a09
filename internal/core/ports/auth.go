package ports

import (
	"context"

	"github.com/clearport/clearance-system/internal/core/domain"
)

// RegisterInput carries registration data for a user and its role profile.
// Profile fields are interpreted according to Role: cargo owners use TaxID,
// agents use LicenseNumber and YearsExperience.
type RegisterInput struct {
	Email           string
	Password        string
	Role            string
	CompanyName     string
	TaxID           string
	LicenseNumber   string
	City            string
	Country         string
	YearsExperience int
}

// AuthService implements registration and login.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

// UserRepository defines persistence operations for user identities.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// SetVerified flips the user-level verified flag. Callers that verify
	// agents must pair this with AgentRepository.SetVerified so the two
	// flags never drift.
	SetVerified(ctx context.Context, id string, verified bool) error
}
