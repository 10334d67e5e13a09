package ports

import (
	"context"

	"github.com/clearport/clearance-system/internal/core/domain"
)

// CreateRequestInput carries all data needed to post a new clearance request.
// OwnerUserID is the acting user's id; the service resolves it to a cargo
// owner profile.
type CreateRequestInput struct {
	OwnerUserID   string
	Title         string
	Description   string
	CargoType     string
	Origin        string
	Destination   string
	DeclaredValue float64
	Currency      string
}

// UpdateRequestInput is a partial update: empty strings and nil values leave
// the stored field untouched.
type UpdateRequestInput struct {
	Title         string
	Description   string
	CargoType     string
	Origin        string
	Destination   string
	DeclaredValue *float64
	Currency      string
}

// SearchRequestsInput carries all parameters for the request search endpoint.
type SearchRequestsInput struct {
	Status       string
	CargoType    string
	Origin       string
	Destination  string
	CargoOwnerID string
	AgentID      string
	Search       string // free text across title/description/cargo type
	UserID       string // non-empty: restrict to requests the user owns or is assigned to
	Page         int
	Limit        int
}

// RequestPage is a single page of search results.
type RequestPage struct {
	Items      []*domain.Request
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// RequestService defines the use-case operations of the request lifecycle.
type RequestService interface {
	Create(ctx context.Context, input CreateRequestInput) (*domain.Request, error)
	Get(ctx context.Context, requestID string) (*domain.Request, error)
	Update(ctx context.Context, requestID string, input UpdateRequestInput, actingUserID string) (*domain.Request, error)
	AssignAgent(ctx context.Context, requestID, agentID, actingUserID string) (*domain.Request, error)
	UpdateStatus(ctx context.Context, requestID string, status domain.RequestStatus, actingUserID string) (*domain.Request, error)
	Delete(ctx context.Context, requestID, actingUserID string) error
	Search(ctx context.Context, input SearchRequestsInput) (*RequestPage, error)
}

// ListRequestsFilter carries the query parameters passed down to the
// repository. UserID scoping means "owner OR assigned agent matches".
type ListRequestsFilter struct {
	Status       string
	CargoType    string
	Origin       string
	Destination  string
	CargoOwnerID string
	AgentID      string
	Search       string
	ScopeOwnerID string // owner profile id for UserID scoping, may be empty
	ScopeAgentID string // agent profile id for UserID scoping, may be empty
	Scoped       bool   // true when UserID scoping applies
	Page         int
	Limit        int
}

// RequestRepository defines persistence operations for clearance requests.
type RequestRepository interface {
	Create(ctx context.Context, r *domain.Request) (*domain.Request, error)
	FindByID(ctx context.Context, id string) (*domain.Request, error)
	// Update replaces the stored document with r.
	Update(ctx context.Context, r *domain.Request) error
	Delete(ctx context.Context, id string) error
	// List returns a page of requests matching filter and the total count.
	List(ctx context.Context, filter ListRequestsFilter) ([]*domain.Request, int64, error)
}
