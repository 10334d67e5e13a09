package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/clearport/clearance-system/internal/core/domain"
	"github.com/clearport/clearance-system/internal/core/ports"
)

// AuthService implements registration and login. Registration creates the
// user identity and its role profile in sequence.
type AuthService struct {
	users     ports.UserRepository
	owners    ports.CargoOwnerRepository
	agents    ports.AgentRepository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(
	users ports.UserRepository,
	owners ports.CargoOwnerRepository,
	agents ports.AgentRepository,
	jwtSecret string,
	tokenTTL time.Duration,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		users:     users,
		owners:    owners,
		agents:    agents,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	if input.Email == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if !domain.ValidRole(input.Role) {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         input.Role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.createProfile(ctx, created, input, now); err != nil {
		return nil, err
	}
	return created, nil
}

// createProfile attaches the role profile matching the user's role. The
// profile type is kept in lockstep with the role here; the store only
// enforces one profile per user.
func (s *AuthService) createProfile(ctx context.Context, user *domain.User, input ports.RegisterInput, now time.Time) error {
	switch user.Role {
	case domain.RoleCargoOwner:
		_, err := s.owners.Create(ctx, &domain.CargoOwner{
			UserID:      user.ID,
			CompanyName: input.CompanyName,
			TaxID:       input.TaxID,
			City:        input.City,
			Country:     input.Country,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		return err
	case domain.RoleAgent:
		_, err := s.agents.Create(ctx, &domain.Agent{
			UserID:          user.ID,
			CompanyName:     input.CompanyName,
			LicenseNumber:   input.LicenseNumber,
			City:            input.City,
			Country:         input.Country,
			YearsExperience: input.YearsExperience,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
		return err
	}
	return nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"exp":     time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
