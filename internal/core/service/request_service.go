package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/clearport/clearance-system/internal/core/domain"
	"github.com/clearport/clearance-system/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// RequestService implements the clearance-request lifecycle: create, edit,
// agent assignment, status transitions, deletion and search.
type RequestService struct {
	requests ports.RequestRepository
	owners   ports.CargoOwnerRepository
	agents   ports.AgentRepository
	logger   zerolog.Logger
}

func NewRequestService(
	requests ports.RequestRepository,
	owners ports.CargoOwnerRepository,
	agents ports.AgentRepository,
	logger zerolog.Logger,
) *RequestService {
	return &RequestService{requests: requests, owners: owners, agents: agents, logger: logger}
}

// Create posts a new clearance request with status pending. The acting user
// must own a cargo owner profile.
func (s *RequestService) Create(ctx context.Context, input ports.CreateRequestInput) (*domain.Request, error) {
	owner, err := s.owners.FindByUserID(ctx, input.OwnerUserID)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	now := time.Now().UTC()
	request := &domain.Request{
		CargoOwnerID:  owner.ID,
		Title:         input.Title,
		Description:   input.Description,
		CargoType:     input.CargoType,
		Origin:        input.Origin,
		Destination:   input.Destination,
		DeclaredValue: input.DeclaredValue,
		Currency:      input.Currency,
		Status:        domain.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	created, err := s.requests.Create(ctx, request)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create request")
		return nil, err
	}

	s.logger.Info().Str("request_id", created.ID).Str("cargo_owner_id", owner.ID).Msg("request created")
	return created, nil
}

// Get retrieves a single request. Reads are open to any authenticated user so
// agents can browse posted work.
func (s *RequestService) Get(ctx context.Context, requestID string) (*domain.Request, error) {
	return s.requests.FindByID(ctx, requestID)
}

// Update applies a partial field edit. Only the owning cargo owner may edit;
// empty input fields leave the stored values untouched.
func (s *RequestService) Update(ctx context.Context, requestID string, input ports.UpdateRequestInput, actingUserID string) (*domain.Request, error) {
	request, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwner(ctx, request, actingUserID); err != nil {
		return nil, err
	}

	if input.Title != "" {
		request.Title = input.Title
	}
	if input.Description != "" {
		request.Description = input.Description
	}
	if input.CargoType != "" {
		request.CargoType = input.CargoType
	}
	if input.Origin != "" {
		request.Origin = input.Origin
	}
	if input.Destination != "" {
		request.Destination = input.Destination
	}
	if input.DeclaredValue != nil {
		request.DeclaredValue = *input.DeclaredValue
	}
	if input.Currency != "" {
		request.Currency = input.Currency
	}
	request.UpdatedAt = time.Now().UTC()

	if err := s.requests.Update(ctx, request); err != nil {
		return nil, fmt.Errorf("update request: %w", err)
	}
	return request, nil
}

// AssignAgent binds a verified agent to the request and forces the status to
// in_progress, regardless of the current status. Reassignment of an already
// assigned request is permitted.
func (s *RequestService) AssignAgent(ctx context.Context, requestID, agentID, actingUserID string) (*domain.Request, error) {
	request, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwner(ctx, request, actingUserID); err != nil {
		return nil, err
	}

	agent, err := s.agents.FindByID(ctx, agentID)
	if err != nil {
		return nil, err
	}
	if !agent.IsVerified {
		return nil, domain.ErrAgentNotVerified
	}

	request.AgentID = agent.ID
	request.Status = domain.StatusInProgress
	request.UpdatedAt = time.Now().UTC()

	if err := s.requests.Update(ctx, request); err != nil {
		return nil, fmt.Errorf("assign agent: %w", err)
	}

	s.logger.Info().
		Str("request_id", request.ID).
		Str("agent_id", agent.ID).
		Msg("agent assigned")
	return request, nil
}

// UpdateStatus sets the request status. Either the owning cargo owner or the
// currently assigned agent may call it, and any known status may be set from
// any other; there is no transition table. Entering completed stamps
// CompletedAt and increments the assigned agent's completed counter.
func (s *RequestService) UpdateStatus(ctx context.Context, requestID string, status domain.RequestStatus, actingUserID string) (*domain.Request, error) {
	if !status.Known() {
		return nil, domain.ErrInvalidStatus
	}

	request, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwnerOrAgent(ctx, request, actingUserID); err != nil {
		return nil, err
	}

	entering := status == domain.StatusCompleted && request.Status != domain.StatusCompleted
	request.Status = status
	request.UpdatedAt = time.Now().UTC()
	if entering {
		now := time.Now().UTC()
		request.CompletedAt = &now
	}

	if err := s.requests.Update(ctx, request); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	// Completion bumps the agent's counter; an unassigned completion is a
	// silent no-op.
	if entering && request.AgentID != "" {
		if err := s.agents.IncrementCompleted(ctx, request.AgentID); err != nil {
			s.logger.Warn().Err(err).
				Str("request_id", request.ID).
				Str("agent_id", request.AgentID).
				Msg("failed to increment completed counter")
		}
	}

	s.logger.Info().
		Str("request_id", request.ID).
		Str("status", string(status)).
		Msg("request status updated")
	return request, nil
}

// Delete removes a request permanently. Only the owning cargo owner may
// delete, and only while the request is not in progress or completed.
func (s *RequestService) Delete(ctx context.Context, requestID, actingUserID string) error {
	request, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return err
	}
	if err := s.requireOwner(ctx, request, actingUserID); err != nil {
		return err
	}
	if !request.Status.Deletable() {
		return domain.ErrRequestNotDeletable
	}

	if err := s.requests.Delete(ctx, requestID); err != nil {
		return fmt.Errorf("delete request: %w", err)
	}

	s.logger.Info().Str("request_id", requestID).Msg("request deleted")
	return nil
}

// Search lists requests matching the filter. When UserID is supplied the
// results are restricted to requests the user owns or is assigned to.
func (s *RequestService) Search(ctx context.Context, input ports.SearchRequestsInput) (*ports.RequestPage, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	filter := ports.ListRequestsFilter{
		Status:       input.Status,
		CargoType:    input.CargoType,
		Origin:       input.Origin,
		Destination:  input.Destination,
		CargoOwnerID: input.CargoOwnerID,
		AgentID:      input.AgentID,
		Search:       input.Search,
		Page:         page,
		Limit:        limit,
	}

	if input.UserID != "" {
		filter.Scoped = true
		if owner, err := s.owners.FindByUserID(ctx, input.UserID); err == nil {
			filter.ScopeOwnerID = owner.ID
		}
		if agent, err := s.agents.FindByUserID(ctx, input.UserID); err == nil {
			filter.ScopeAgentID = agent.ID
		}
	}

	items, total, err := s.requests.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search requests: %w", err)
	}

	return &ports.RequestPage{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

// requireOwner resolves the acting user's cargo owner profile and checks it
// against the request's owner.
func (s *RequestService) requireOwner(ctx context.Context, request *domain.Request, actingUserID string) error {
	owner, err := s.owners.FindByUserID(ctx, actingUserID)
	if err != nil {
		if errors.Is(err, domain.ErrOwnerNotFound) {
			return domain.ErrForbidden
		}
		return err
	}
	if owner.ID != request.CargoOwnerID {
		return domain.ErrForbidden
	}
	return nil
}

// requireOwnerOrAgent permits the owning cargo owner or the currently
// assigned agent.
func (s *RequestService) requireOwnerOrAgent(ctx context.Context, request *domain.Request, actingUserID string) error {
	if owner, err := s.owners.FindByUserID(ctx, actingUserID); err == nil && owner.ID == request.CargoOwnerID {
		return nil
	}
	if request.AgentID != "" {
		if agent, err := s.agents.FindByUserID(ctx, actingUserID); err == nil && agent.ID == request.AgentID {
			return nil
		}
	}
	return domain.ErrForbidden
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return pages
}
