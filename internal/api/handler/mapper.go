package handler

import (
	"github.com/clearport/clearance-system/internal/core/domain"
	"github.com/clearport/clearance-system/internal/core/ports"
)

// --- Domain → HTTP response ---

func toRequestResponse(r *domain.Request) requestResponse {
	return requestResponse{
		ID:            r.ID,
		CargoOwnerID:  r.CargoOwnerID,
		AgentID:       r.AgentID,
		Title:         r.Title,
		Description:   r.Description,
		CargoType:     r.CargoType,
		Origin:        r.Origin,
		Destination:   r.Destination,
		DeclaredValue: r.DeclaredValue,
		Currency:      r.Currency,
		Status:        string(r.Status),
		CreatedAt:     r.CreatedAt.UTC(),
		UpdatedAt:     r.UpdatedAt.UTC(),
		CompletedAt:   r.CompletedAt,
	}
}

func toListRequestsResponse(page *ports.RequestPage) listRequestsResponse {
	items := make([]requestResponse, len(page.Items))
	for i, r := range page.Items {
		items[i] = toRequestResponse(r)
	}
	return listRequestsResponse{
		Data:       items,
		Pagination: toPagination(page.Total, page.Page, page.Limit, page.TotalPages),
	}
}

func toAgentResponse(a *domain.Agent) agentResponse {
	return agentResponse{
		ID:                a.ID,
		UserID:            a.UserID,
		CompanyName:       a.CompanyName,
		LicenseNumber:     a.LicenseNumber,
		City:              a.City,
		Country:           a.Country,
		YearsExperience:   a.YearsExperience,
		AverageRating:     a.AverageRating,
		TotalRatings:      a.TotalRatings,
		CompletedRequests: a.CompletedRequests,
		IsVerified:        a.IsVerified,
		CreatedAt:         a.CreatedAt.UTC(),
	}
}

func toListAgentsResponse(page *ports.AgentPage) listAgentsResponse {
	items := make([]agentResponse, len(page.Items))
	for i, a := range page.Items {
		items[i] = toAgentResponse(a)
	}
	return listAgentsResponse{
		Data:       items,
		Pagination: toPagination(page.Total, page.Page, page.Limit, page.TotalPages),
	}
}

func toRatingResponse(r *domain.Rating) ratingResponse {
	return ratingResponse{
		ID:        r.ID,
		AgentID:   r.AgentID,
		RaterID:   r.RaterID,
		RequestID: r.RequestID,
		Score:     r.Score,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

func toRatingSummaryResponse(s *ports.RatingSummary) ratingSummaryResponse {
	recent := make([]ratingResponse, len(s.Recent))
	for i, r := range s.Recent {
		recent[i] = toRatingResponse(r)
	}
	return ratingSummaryResponse{
		AgentID:   s.AgentID,
		Average:   s.Average,
		Total:     s.Total,
		Histogram: s.Histogram,
		Recent:    recent,
	}
}

func toVerificationResponse(v *domain.Verification) verificationResponse {
	return verificationResponse{
		ID:          v.ID,
		AgentID:     v.AgentID,
		Status:      string(v.Status),
		Notes:       v.Notes,
		ReviewedBy:  v.ReviewedBy,
		ReviewedAt:  v.ReviewedAt,
		SubmittedAt: v.SubmittedAt.UTC(),
	}
}

func toListVerificationsResponse(page *ports.VerificationPage) listVerificationsResponse {
	items := make([]verificationResponse, len(page.Items))
	for i, v := range page.Items {
		items[i] = toVerificationResponse(v)
	}
	return listVerificationsResponse{
		Data:       items,
		Pagination: toPagination(page.Total, page.Page, page.Limit, page.TotalPages),
	}
}

func toPagination(total int64, page, limit, totalPages int) paginationResponse {
	return paginationResponse{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}
