package handler

import (
	"time"

	"github.com/clearport/clearance-system/internal/core/domain"
)

// --- Auth ---

type registerRequest struct {
	Email           string `json:"email"            validate:"required,email"`
	Password        string `json:"password"         validate:"required,min=8"`
	Role            string `json:"role"             validate:"required,oneof=cargo_owner clearance_agent"`
	CompanyName     string `json:"company_name"     validate:"required"`
	TaxID           string `json:"tax_id"`
	LicenseNumber   string `json:"license_number"`
	City            string `json:"city"`
	Country         string `json:"country"`
	YearsExperience int    `json:"years_experience" validate:"gte=0"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user"`
}

// --- Clearance requests ---

type createRequestRequest struct {
	Title         string  `json:"title"          validate:"required"`
	Description   string  `json:"description"`
	CargoType     string  `json:"cargo_type"     validate:"required"`
	Origin        string  `json:"origin"         validate:"required"`
	Destination   string  `json:"destination"    validate:"required"`
	DeclaredValue float64 `json:"declared_value" validate:"gte=0"`
	Currency      string  `json:"currency"`
}

// updateRequestRequest is a partial update: absent fields keep their stored
// values.
type updateRequestRequest struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	CargoType     string   `json:"cargo_type"`
	Origin        string   `json:"origin"`
	Destination   string   `json:"destination"`
	DeclaredValue *float64 `json:"declared_value"`
	Currency      string   `json:"currency"`
}

type assignAgentRequest struct {
	AgentID string `json:"agent_id" validate:"required"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in_progress completed cancelled rejected"`
}

type requestResponse struct {
	ID            string     `json:"id"`
	CargoOwnerID  string     `json:"cargo_owner_id"`
	AgentID       string     `json:"agent_id,omitempty"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	CargoType     string     `json:"cargo_type"`
	Origin        string     `json:"origin"`
	Destination   string     `json:"destination"`
	DeclaredValue float64    `json:"declared_value"`
	Currency      string     `json:"currency"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listRequestsResponse struct {
	Data       []requestResponse  `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

// --- Agents ---

type agentResponse struct {
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
}

type listAgentsResponse struct {
	Data       []agentResponse    `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

// --- Ratings ---

type createRatingRequest struct {
	AgentID   string `json:"agent_id"   validate:"required"`
	RequestID string `json:"request_id"`
	Score     int    `json:"score"      validate:"required,min=1,max=5"`
	Comment   string `json:"comment"`
}

type updateRatingRequest struct {
	Score   *int    `json:"score"   validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment"`
}

type ratingResponse struct {
	ID        string    `json:"id"`
	AgentID   string    `json:"agent_id"`
	RaterID   string    `json:"rater_id"`
	RequestID string    `json:"request_id,omitempty"`
	Score     int       `json:"score"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ratingSummaryResponse struct {
	AgentID   string           `json:"agent_id"`
	Average   float64          `json:"average"`
	Total     int64            `json:"total"`
	Histogram map[int]int64    `json:"histogram"`
	Recent    []ratingResponse `json:"recent"`
}

// --- Verifications ---

type submitVerificationRequest struct {
	Notes string `json:"notes"`
}

type reviewVerificationRequest struct {
	Notes string `json:"notes"`
}

type verificationResponse struct {
	ID          string     `json:"id"`
	AgentID     string     `json:"agent_id"`
	Status      string     `json:"status"`
	Notes       string     `json:"notes,omitempty"`
	ReviewedBy  string     `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
	SubmittedAt time.Time  `json:"submitted_at"`
}

type listVerificationsResponse struct {
	Data       []verificationResponse `json:"data"`
	Pagination paginationResponse     `json:"pagination"`
}

// --- Admin ---

type verifyUserRequest struct {
	Verified bool `json:"verified"`
}
