package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/clearport/clearance-system/internal/core/domain"
	"github.com/clearport/clearance-system/internal/core/ports"
)

type activityService struct {
	repo ports.ActivityRepository
	log  zerolog.Logger
}

// NewActivityService returns an ActivityService that persists audit entries.
func NewActivityService(repo ports.ActivityRepository, log zerolog.Logger) ports.ActivityService {
	return &activityService{repo: repo, log: log}
}

// Process persists one audit entry. Callers run on the dispatcher side
// channel; a failure here is logged by the worker and never reaches a
// request path.
func (s *activityService) Process(ctx context.Context, entry domain.ActivityEntry) error {
	if err := s.repo.Insert(ctx, &entry); err != nil {
		return err
	}

	s.log.Debug().
		Str("actor_id", entry.ActorID).
		Str("action", entry.Action).
		Str("subject", entry.Subject).
		Msg("activity recorded")
	return nil
}
