package domain

import (
	"errors"
	"time"
)

// RequestStatus represents the lifecycle state of a clearance request.
type RequestStatus string

const (
	StatusPending    RequestStatus = "pending"
	StatusInProgress RequestStatus = "in_progress"
	StatusCompleted  RequestStatus = "completed"
	StatusCancelled  RequestStatus = "cancelled"
	StatusRejected   RequestStatus = "rejected"
)

var ErrRequestNotFound = errors.New("request not found")
var ErrInvalidStatus = errors.New("invalid request status")
var ErrRequestNotDeletable = errors.New("request cannot be deleted in its current status")

// Known reports whether s is one of the enumerated statuses. There is no
// transition table: either permitted party may set any known status from any
// other, matching the marketplace's deliberately loose workflow.
func (s RequestStatus) Known() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled, StatusRejected:
		return true
	}
	return false
}

// Deletable reports whether a request in status s may be hard-deleted by its
// owner. Only in-flight and finished work is protected; cancelled and
// rejected requests stay deletable.
func (s RequestStatus) Deletable() bool {
	return s != StatusInProgress && s != StatusCompleted
}

// Request is a single clearance job posted by a cargo owner, optionally
// assigned to one agent. CargoOwnerID is immutable after creation; AgentID is
// empty until assignment.
type Request struct {
	ID            string        `json:"id"`
	CargoOwnerID  string        `json:"cargo_owner_id"`
	AgentID       string        `json:"agent_id,omitempty"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	CargoType     string        `json:"cargo_type"`
	Origin        string        `json:"origin"`
	Destination   string        `json:"destination"`
	DeclaredValue float64       `json:"declared_value"`
	Currency      string        `json:"currency"`
	Status        RequestStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	CompletedAt   *time.Time    `json:"completed_at,omitempty"`
}
