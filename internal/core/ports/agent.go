package ports

import (
	"context"

	"github.com/clearport/clearance-system/internal/core/domain"
)

// ListAgentsFilter carries the query parameters for the agent directory.
type ListAgentsFilter struct {
	City         string
	Country      string
	VerifiedOnly bool
	MinRating    float64
	Page         int
	Limit        int
}

// AgentPage is a single page of agent directory results.
type AgentPage struct {
	Items      []*domain.Agent
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// AgentService exposes the agent directory and the admin user-management
// verification path.
type AgentService interface {
	Search(ctx context.Context, filter ListAgentsFilter) (*AgentPage, error)
	Get(ctx context.Context, agentID string) (*domain.Agent, error)
	// SetUserVerified flips a user's verified flag directly (admin path).
	// When the user is an agent, the profile flag is updated in the same
	// call so the two flags stay in sync.
	SetUserVerified(ctx context.Context, targetUserID string, verified bool) error
}

// AgentRepository defines persistence operations for agent profiles.
type AgentRepository interface {
	Create(ctx context.Context, a *domain.Agent) (*domain.Agent, error)
	FindByID(ctx context.Context, id string) (*domain.Agent, error)
	FindByUserID(ctx context.Context, userID string) (*domain.Agent, error)
	List(ctx context.Context, filter ListAgentsFilter) ([]*domain.Agent, int64, error)
	// UpdateRatingStats writes the recomputed denormalized aggregates.
	UpdateRatingStats(ctx context.Context, id string, average float64, total int64) error
	// IncrementCompleted adds one to the completed-requests counter.
	IncrementCompleted(ctx context.Context, id string) error
	SetVerified(ctx context.Context, id string, verified bool) error
}

// CargoOwnerRepository defines persistence operations for cargo owner
// profiles.
type CargoOwnerRepository interface {
	Create(ctx context.Context, o *domain.CargoOwner) (*domain.CargoOwner, error)
	FindByID(ctx context.Context, id string) (*domain.CargoOwner, error)
	FindByUserID(ctx context.Context, userID string) (*domain.CargoOwner, error)
}
