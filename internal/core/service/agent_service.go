package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/clearport/clearance-system/internal/core/domain"
	"github.com/clearport/clearance-system/internal/core/ports"
)

// AgentService exposes the public agent directory and the admin
// user-management verification path.
type AgentService struct {
	agents ports.AgentRepository
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewAgentService(agents ports.AgentRepository, users ports.UserRepository, logger zerolog.Logger) *AgentService {
	return &AgentService{agents: agents, users: users, logger: logger}
}

// Search lists agent profiles matching the directory filter.
func (s *AgentService) Search(ctx context.Context, filter ports.ListAgentsFilter) (*ports.AgentPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}

	items, total, err := s.agents.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search agents: %w", err)
	}

	return &ports.AgentPage{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

// Get retrieves a single agent profile with its aggregates.
func (s *AgentService) Get(ctx context.Context, agentID string) (*domain.Agent, error) {
	return s.agents.FindByID(ctx, agentID)
}

// SetUserVerified flips a user's verified flag directly (admin path). When
// the target user is an agent, the profile flag is synced through the same
// markVerified helper the verification workflow uses.
func (s *AgentService) SetUserVerified(ctx context.Context, targetUserID string, verified bool) error {
	user, err := s.users.FindByID(ctx, targetUserID)
	if err != nil {
		return err
	}

	agent, err := s.agents.FindByUserID(ctx, targetUserID)
	switch {
	case err == nil:
		if err := markVerified(ctx, s.users, s.agents, agent, verified); err != nil {
			return fmt.Errorf("set user verified: %w", err)
		}
	case errors.Is(err, domain.ErrAgentNotFound):
		if err := s.users.SetVerified(ctx, user.ID, verified); err != nil {
			return fmt.Errorf("set user verified: %w", err)
		}
	default:
		return err
	}

	s.logger.Info().Str("user_id", user.ID).Bool("verified", verified).Msg("user verified flag updated")
	return nil
}
