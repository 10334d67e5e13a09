package handler

import (
	"time"

	"github.com/clearport/clearance-system/internal/core/domain"
)

// ActivityRecorder enqueues audit-trail entries off the request path.
// Implemented by queue.Dispatcher.
type ActivityRecorder interface {
	Record(entry domain.ActivityEntry)
}

// recordActivity writes one audit entry. A nil recorder disables auditing.
func recordActivity(rec ActivityRecorder, actorID, action, subject, detail string) {
	if rec == nil {
		return
	}
	rec.Record(domain.ActivityEntry{
		ActorID:    actorID,
		Action:     action,
		Subject:    subject,
		Detail:     detail,
		RecordedAt: time.Now().UTC(),
	})
}
