package domain

import (
	"errors"
	"time"
)

// VerificationStatus represents the review state of an agent verification
// request. Pending is the initial state; approved and rejected are terminal.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

var ErrVerificationNotFound = errors.New("verification request not found")
var ErrVerificationClosed = errors.New("verification request already reviewed")
var ErrVerificationPending = errors.New("a pending verification request already exists")

// Verification is an admin-reviewed request to mark an agent as trusted.
// Approval flips both the agent profile's and the underlying user's verified
// flags.
type Verification struct {
	ID          string             `json:"id"`
	AgentID     string             `json:"agent_id"`
	Status      VerificationStatus `json:"status"`
	Notes       string             `json:"notes,omitempty"`
	ReviewedBy  string             `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time         `json:"reviewed_at,omitempty"`
	SubmittedAt time.Time          `json:"submitted_at"`
}
