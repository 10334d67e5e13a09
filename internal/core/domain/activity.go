package domain

import "time"

// ActivityEntry is a single audit-trail record. Entries are written on a
// best-effort side channel; no operation depends on their presence.
type ActivityEntry struct {
	ActorID    string    `json:"actor_id"`
	Action     string    `json:"action"`
	Subject    string    `json:"subject"`
	Detail     string    `json:"detail,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}
