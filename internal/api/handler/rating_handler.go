package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/clearport/clearance-system/internal/api/metrics"
	"github.com/clearport/clearance-system/internal/core/ports"
)

// RatingHandler handles HTTP requests for agent ratings.
type RatingHandler struct {
	service  ports.RatingService
	activity ActivityRecorder
}

func NewRatingHandler(service ports.RatingService, activity ActivityRecorder) *RatingHandler {
	return &RatingHandler{service: service, activity: activity}
}

// Create handles POST /v1/ratings.
//
// @Summary      Rate an agent
// @Tags         ratings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createRatingRequest  true  "Rating details"
// @Success      201   {object}  ratingResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/ratings [post]
func (h *RatingHandler) Create(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req createRatingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.service.Create(c.Request().Context(), ports.CreateRatingInput{
		RaterID:   userID,
		AgentID:   req.AgentID,
		RequestID: req.RequestID,
		Score:     req.Score,
		Comment:   req.Comment,
	})
	if err != nil {
		return err
	}

	metrics.RatingsRecordedTotal.WithLabelValues(strconv.Itoa(created.Score)).Inc()
	recordActivity(h.activity, userID, "rating.created", created.AgentID, strconv.Itoa(created.Score))

	return c.JSON(http.StatusCreated, toRatingResponse(created))
}

// Update handles PATCH /v1/ratings/:id.
//
// @Summary      Update a rating (rater only)
// @Tags         ratings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Rating id"
// @Param        body  body      updateRatingRequest  true  "Fields to update"
// @Success      200   {object}  ratingResponse
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/ratings/{id} [patch]
func (h *RatingHandler) Update(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req updateRatingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.UpdateRatingInput{
		Score:   req.Score,
		Comment: req.Comment,
	}, userID)
	if err != nil {
		return err
	}

	recordActivity(h.activity, userID, "rating.updated", updated.AgentID, "")

	return c.JSON(http.StatusOK, toRatingResponse(updated))
}

// Delete handles DELETE /v1/ratings/:id.
//
// @Summary      Delete a rating (rater only)
// @Tags         ratings
// @Security     BearerAuth
// @Param        id  path  string  true  "Rating id"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/ratings/{id} [delete]
func (h *RatingHandler) Delete(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	ratingID := c.Param("id")
	if err := h.service.Delete(c.Request().Context(), ratingID, userID); err != nil {
		return err
	}

	recordActivity(h.activity, userID, "rating.deleted", ratingID, "")

	return c.NoContent(http.StatusNoContent)
}

// Summary handles GET /v1/agents/:id/ratings.
//
// @Summary      Get an agent's rating summary
// @Tags         ratings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Agent id"
// @Success      200  {object}  ratingSummaryResponse
// @Failure      404  {object}  map[string]string
// @Router       /v1/agents/{id}/ratings [get]
func (h *RatingHandler) Summary(c echo.Context) error {
	summary, err := h.service.Summary(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRatingSummaryResponse(summary))
}
