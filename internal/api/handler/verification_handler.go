package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clearport/clearance-system/internal/api/metrics"
	"github.com/clearport/clearance-system/internal/core/ports"
)

// VerificationHandler handles the agent verification workflow.
type VerificationHandler struct {
	service  ports.VerificationService
	activity ActivityRecorder
}

func NewVerificationHandler(service ports.VerificationService, activity ActivityRecorder) *VerificationHandler {
	return &VerificationHandler{service: service, activity: activity}
}

// Submit handles POST /v1/verifications.
//
// @Summary      Submit a verification request (agent)
// @Tags         verifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      submitVerificationRequest  true  "Supporting notes"
// @Success      201   {object}  verificationResponse
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/verifications [post]
func (h *VerificationHandler) Submit(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req submitVerificationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	created, err := h.service.Submit(c.Request().Context(), userID, req.Notes)
	if err != nil {
		return err
	}

	recordActivity(h.activity, userID, "verification.submitted", created.ID, "")

	return c.JSON(http.StatusCreated, toVerificationResponse(created))
}

// List handles GET /v1/admin/verifications.
//
// @Summary      List verification requests (admin)
// @Tags         verifications
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status"
// @Param        page    query     int     false  "Page number (1-based)"
// @Param        limit   query     int     false  "Page size (max 100)"
// @Success      200     {object}  listVerificationsResponse
// @Failure      403     {object}  map[string]string
// @Router       /v1/admin/verifications [get]
func (h *VerificationHandler) List(c echo.Context) error {
	page, err := h.service.List(c.Request().Context(), ports.ListVerificationsFilter{
		Status: c.QueryParam("status"),
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListVerificationsResponse(page))
}

// Approve handles POST /v1/admin/verifications/:id/approve.
//
// @Summary      Approve a pending verification request (admin)
// @Tags         verifications
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  string                     true  "Verification id"
// @Param        body  body  reviewVerificationRequest  true  "Review notes"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /v1/admin/verifications/{id}/approve [post]
func (h *VerificationHandler) Approve(c echo.Context) error {
	return h.review(c, "approved")
}

// Reject handles POST /v1/admin/verifications/:id/reject.
//
// @Summary      Reject a pending verification request (admin)
// @Tags         verifications
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  string                     true  "Verification id"
// @Param        body  body  reviewVerificationRequest  true  "Review notes"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /v1/admin/verifications/{id}/reject [post]
func (h *VerificationHandler) Reject(c echo.Context) error {
	return h.review(c, "rejected")
}

func (h *VerificationHandler) review(c echo.Context, decision string) error {
	adminID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req reviewVerificationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	verificationID := c.Param("id")
	ctx := c.Request().Context()
	if decision == "approved" {
		err = h.service.Approve(ctx, verificationID, adminID, req.Notes)
	} else {
		err = h.service.Reject(ctx, verificationID, adminID, req.Notes)
	}
	if err != nil {
		return err
	}

	metrics.VerificationsReviewedTotal.WithLabelValues(decision).Inc()
	recordActivity(h.activity, adminID, "verification."+decision, verificationID, req.Notes)

	return c.NoContent(http.StatusNoContent)
}
