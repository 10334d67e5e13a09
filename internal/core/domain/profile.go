package domain

import (
	"errors"
	"time"
)

var ErrOwnerNotFound = errors.New("cargo owner profile not found")
var ErrAgentNotFound = errors.New("agent profile not found")
var ErrAgentNotVerified = errors.New("agent is not verified")
var ErrProfileExists = errors.New("profile already exists for user")

// CargoOwner is the client-side profile: the party that posts clearance
// requests. Owned 1:1 by a User.
type CargoOwner struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	CompanyName string    `json:"company_name"`
	TaxID       string    `json:"tax_id"`
	City        string    `json:"city"`
	Country     string    `json:"country"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Agent is the provider-side profile: a licensed clearance agent. Owned 1:1
// by a User.
//
// AverageRating and TotalRatings are derived state: their source of truth is
// the ratings collection, and they are refreshed by a synchronous full
// recompute after every rating write. CompletedRequests is incremented when
// an assigned request transitions into the completed status.
type Agent struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	CompanyName       string    `json:"company_name"`
	LicenseNumber     string    `json:"license_number"`
	City              string    `json:"city"`
	Country           string    `json:"country"`
	YearsExperience   int       `json:"years_experience"`
	AverageRating     float64   `json:"average_rating"`
	TotalRatings      int64     `json:"total_ratings"`
	CompletedRequests int64     `json:"completed_requests"`
	IsVerified        bool      `json:"is_verified"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
