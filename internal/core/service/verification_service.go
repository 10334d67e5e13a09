package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/clearport/clearance-system/internal/core/domain"
	"github.com/clearport/clearance-system/internal/core/ports"
)

// VerificationService implements the admin-reviewed agent verification
// workflow: pending → approved | rejected, terminal once reviewed.
type VerificationService struct {
	verifications ports.VerificationRepository
	agents        ports.AgentRepository
	users         ports.UserRepository
	logger        zerolog.Logger
}

func NewVerificationService(
	verifications ports.VerificationRepository,
	agents ports.AgentRepository,
	users ports.UserRepository,
	logger zerolog.Logger,
) *VerificationService {
	return &VerificationService{verifications: verifications, agents: agents, users: users, logger: logger}
}

// Submit files a verification request for the agent owned by the acting user.
// An agent may have at most one open pending request.
func (s *VerificationService) Submit(ctx context.Context, agentUserID, notes string) (*domain.Verification, error) {
	agent, err := s.agents.FindByUserID(ctx, agentUserID)
	if err != nil {
		return nil, err
	}

	pending, err := s.verifications.HasPendingForAgent(ctx, agent.ID)
	if err != nil {
		return nil, fmt.Errorf("submit verification: %w", err)
	}
	if pending {
		return nil, domain.ErrVerificationPending
	}

	created, err := s.verifications.Create(ctx, &domain.Verification{
		AgentID:     agent.ID,
		Status:      domain.VerificationPending,
		Notes:       notes,
		SubmittedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("submit verification: %w", err)
	}

	s.logger.Info().Str("verification_id", created.ID).Str("agent_id", agent.ID).Msg("verification submitted")
	return created, nil
}

// Approve closes a pending verification and marks the agent trusted. The
// agent profile flag and the user flag are flipped together through
// markVerified so they cannot drift.
func (s *VerificationService) Approve(ctx context.Context, verificationID, adminUserID, notes string) error {
	verification, err := s.review(ctx, verificationID, adminUserID, notes, domain.VerificationApproved)
	if err != nil {
		return err
	}

	agent, err := s.agents.FindByID(ctx, verification.AgentID)
	if err != nil {
		return err
	}
	if err := markVerified(ctx, s.users, s.agents, agent, true); err != nil {
		return fmt.Errorf("approve verification: %w", err)
	}

	s.logger.Info().
		Str("verification_id", verificationID).
		Str("agent_id", agent.ID).
		Str("reviewed_by", adminUserID).
		Msg("verification approved")
	return nil
}

// Reject closes a pending verification without touching the verified flags.
func (s *VerificationService) Reject(ctx context.Context, verificationID, adminUserID, notes string) error {
	if _, err := s.review(ctx, verificationID, adminUserID, notes, domain.VerificationRejected); err != nil {
		return err
	}

	s.logger.Info().
		Str("verification_id", verificationID).
		Str("reviewed_by", adminUserID).
		Msg("verification rejected")
	return nil
}

// review moves a pending verification into a terminal state and records the
// reviewer. A verification that already left pending is refused untouched.
func (s *VerificationService) review(ctx context.Context, verificationID, adminUserID, notes string, outcome domain.VerificationStatus) (*domain.Verification, error) {
	verification, err := s.verifications.FindByID(ctx, verificationID)
	if err != nil {
		return nil, err
	}
	if verification.Status != domain.VerificationPending {
		return nil, domain.ErrVerificationClosed
	}

	now := time.Now().UTC()
	verification.Status = outcome
	verification.ReviewedBy = adminUserID
	verification.ReviewedAt = &now
	if notes != "" {
		verification.Notes = notes
	}

	if err := s.verifications.Update(ctx, verification); err != nil {
		return nil, fmt.Errorf("review verification: %w", err)
	}
	return verification, nil
}

// List returns a page of verification requests for the admin review queue.
func (s *VerificationService) List(ctx context.Context, filter ports.ListVerificationsFilter) (*ports.VerificationPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}

	items, total, err := s.verifications.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list verifications: %w", err)
	}

	return &ports.VerificationPage{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

// markVerified is the single write path for the mirrored verified flags: the
// user record and the agent profile are always updated in the same call.
func markVerified(ctx context.Context, users ports.UserRepository, agents ports.AgentRepository, agent *domain.Agent, verified bool) error {
	if err := agents.SetVerified(ctx, agent.ID, verified); err != nil {
		return err
	}
	return users.SetVerified(ctx, agent.UserID, verified)
}
