package ports

import (
	"context"

	"github.com/clearport/clearance-system/internal/core/domain"
)

// ListVerificationsFilter carries the query parameters for the admin review
// queue.
type ListVerificationsFilter struct {
	Status string
	Page   int
	Limit  int
}

// VerificationPage is a single page of verification requests.
type VerificationPage struct {
	Items      []*domain.Verification
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// VerificationService implements the agent verification workflow.
type VerificationService interface {
	// Submit files a verification request for the agent owned by the acting
	// user. At most one pending request per agent.
	Submit(ctx context.Context, agentUserID, notes string) (*domain.Verification, error)
	Approve(ctx context.Context, verificationID, adminUserID, notes string) error
	Reject(ctx context.Context, verificationID, adminUserID, notes string) error
	List(ctx context.Context, filter ListVerificationsFilter) (*VerificationPage, error)
}

// VerificationRepository defines persistence operations for verification
// requests.
type VerificationRepository interface {
	Create(ctx context.Context, v *domain.Verification) (*domain.Verification, error)
	FindByID(ctx context.Context, id string) (*domain.Verification, error)
	Update(ctx context.Context, v *domain.Verification) error
	List(ctx context.Context, filter ListVerificationsFilter) ([]*domain.Verification, int64, error)
	HasPendingForAgent(ctx context.Context, agentID string) (bool, error)
}
