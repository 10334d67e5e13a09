package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/clearport/clearance-system/internal/core/domain"
	"github.com/clearport/clearance-system/internal/core/ports"
)

type stubRatingService struct {
	createFn  func(ctx context.Context, input ports.CreateRatingInput) (*domain.Rating, error)
	updateFn  func(ctx context.Context, ratingID string, input ports.UpdateRatingInput, raterID string) (*domain.Rating, error)
	deleteFn  func(ctx context.Context, ratingID, raterID string) error
	summaryFn func(ctx context.Context, agentID string) (*ports.RatingSummary, error)
}

func (s *stubRatingService) Create(ctx context.Context, input ports.CreateRatingInput) (*domain.Rating, error) {
	return s.createFn(ctx, input)
}

func (s *stubRatingService) Update(ctx context.Context, ratingID string, input ports.UpdateRatingInput, raterID string) (*domain.Rating, error) {
	return s.updateFn(ctx, ratingID, input, raterID)
}

func (s *stubRatingService) Delete(ctx context.Context, ratingID, raterID string) error {
	return s.deleteFn(ctx, ratingID, raterID)
}

func (s *stubRatingService) Summary(ctx context.Context, agentID string) (*ports.RatingSummary, error) {
	return s.summaryFn(ctx, agentID)
}

func TestRatingHandler_Create_Success(t *testing.T) {
	stub := &stubRatingService{
		createFn: func(ctx context.Context, input ports.CreateRatingInput) (*domain.Rating, error) {
			if input.RaterID != "u1" || input.AgentID != "a1" || input.Score != 5 {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &domain.Rating{ID: "rt1", AgentID: input.AgentID, RaterID: input.RaterID, Score: input.Score}, nil
		},
	}
	audit := &recorderStub{}
	h := NewRatingHandler(stub, audit)

	c, rec := newTestContext(t, http.MethodPost, "/v1/ratings",
		`{"agent_id":"a1","request_id":"r1","score":5,"comment":"smooth clearance"}`)
	withClaims(c, "u1", domain.RoleCargoOwner)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if len(audit.entries) != 1 || audit.entries[0].Action != "rating.created" {
		t.Fatalf("expected one rating audit entry, got %+v", audit.entries)
	}
}

func TestRatingHandler_Create_RejectsOutOfRangeScore(t *testing.T) {
	stub := &stubRatingService{
		createFn: func(ctx context.Context, input ports.CreateRatingInput) (*domain.Rating, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewRatingHandler(stub, nil)

	c, _ := newTestContext(t, http.MethodPost, "/v1/ratings", `{"agent_id":"a1","score":9}`)
	withClaims(c, "u1", domain.RoleCargoOwner)

	if err := h.Create(c); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestRatingHandler_Create_DuplicatePassesThrough(t *testing.T) {
	stub := &stubRatingService{
		createFn: func(ctx context.Context, input ports.CreateRatingInput) (*domain.Rating, error) {
			return nil, domain.ErrDuplicateRating
		},
	}
	h := NewRatingHandler(stub, nil)

	c, _ := newTestContext(t, http.MethodPost, "/v1/ratings", `{"agent_id":"a1","request_id":"r1","score":4}`)
	withClaims(c, "u1", domain.RoleCargoOwner)

	if err := h.Create(c); !errors.Is(err, domain.ErrDuplicateRating) {
		t.Fatalf("expected ErrDuplicateRating, got %v", err)
	}
}

func TestRatingHandler_Summary(t *testing.T) {
	stub := &stubRatingService{
		summaryFn: func(ctx context.Context, agentID string) (*ports.RatingSummary, error) {
			if agentID != "a1" {
				t.Fatalf("unexpected agent id %q", agentID)
			}
			return &ports.RatingSummary{
				AgentID:   agentID,
				Average:   4.5,
				Total:     2,
				Histogram: map[int]int64{1: 0, 2: 0, 3: 0, 4: 1, 5: 1},
				Recent:    []*domain.Rating{{ID: "rt1", AgentID: agentID, Score: 5}},
			}, nil
		},
	}
	h := NewRatingHandler(stub, nil)

	c, rec := newTestContext(t, http.MethodGet, "/v1/agents/a1/ratings", "")
	c.SetParamNames("id")
	c.SetParamValues("a1")

	if err := h.Summary(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["average"] != 4.5 || resp["total"] != float64(2) {
		t.Fatalf("unexpected summary payload: %+v", resp)
	}
	recent, ok := resp["recent"].([]any)
	if !ok || len(recent) != 1 {
		t.Fatalf("expected one recent rating, got %+v", resp)
	}
}

func TestRatingHandler_Delete_Forbidden(t *testing.T) {
	stub := &stubRatingService{
		deleteFn: func(ctx context.Context, ratingID, raterID string) error {
			return domain.ErrForbidden
		},
	}
	h := NewRatingHandler(stub, nil)

	c, _ := newTestContext(t, http.MethodDelete, "/v1/ratings/rt1", "")
	withClaims(c, "u2", domain.RoleCargoOwner)
	c.SetParamNames("id")
	c.SetParamValues("rt1")

	if err := h.Delete(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
