package ports

import (
	"context"

	"github.com/clearport/clearance-system/internal/core/domain"
)

// ActivityService persists a single audit-trail entry.
type ActivityService interface {
	Process(ctx context.Context, entry domain.ActivityEntry) error
}

// ActivityRepository stores audit-trail entries.
type ActivityRepository interface {
	Insert(ctx context.Context, entry *domain.ActivityEntry) error
}
