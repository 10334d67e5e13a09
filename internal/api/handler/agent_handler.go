package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/clearport/clearance-system/internal/core/ports"
)

// AgentHandler handles the agent directory and the admin user-verification
// path.
type AgentHandler struct {
	service  ports.AgentService
	activity ActivityRecorder
}

func NewAgentHandler(service ports.AgentService, activity ActivityRecorder) *AgentHandler {
	return &AgentHandler{service: service, activity: activity}
}

// List handles GET /v1/agents.
//
// @Summary      Search the agent directory
// @Tags         agents
// @Produce      json
// @Security     BearerAuth
// @Param        city        query     string   false  "Filter by city (case-insensitive)"
// @Param        country     query     string   false  "Filter by country (case-insensitive)"
// @Param        verified    query     bool     false  "Only verified agents"
// @Param        min_rating  query     number   false  "Minimum average rating"
// @Param        page        query     int      false  "Page number (1-based)"
// @Param        limit       query     int      false  "Page size (max 100)"
// @Success      200         {object}  listAgentsResponse
// @Router       /v1/agents [get]
func (h *AgentHandler) List(c echo.Context) error {
	verifiedOnly, _ := strconv.ParseBool(c.QueryParam("verified"))
	minRating, _ := strconv.ParseFloat(c.QueryParam("min_rating"), 64)

	page, err := h.service.Search(c.Request().Context(), ports.ListAgentsFilter{
		City:         c.QueryParam("city"),
		Country:      c.QueryParam("country"),
		VerifiedOnly: verifiedOnly,
		MinRating:    minRating,
		Page:         queryInt(c, "page"),
		Limit:        queryInt(c, "limit"),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toListAgentsResponse(page))
}

// Get handles GET /v1/agents/:id.
//
// @Summary      Get an agent profile by id
// @Tags         agents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Agent id"
// @Success      200  {object}  agentResponse
// @Failure      404  {object}  map[string]string
// @Router       /v1/agents/{id} [get]
func (h *AgentHandler) Get(c echo.Context) error {
	agent, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAgentResponse(agent))
}

// VerifyUser handles PATCH /v1/admin/users/:id/verified.
//
// @Summary      Set a user's verified flag directly (admin)
// @Tags         admin
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  string             true  "User id"
// @Param        body  body  verifyUserRequest  true  "Verified flag"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/admin/users/{id}/verified [patch]
func (h *AgentHandler) VerifyUser(c echo.Context) error {
	adminID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req verifyUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	targetID := c.Param("id")
	if err := h.service.SetUserVerified(c.Request().Context(), targetID, req.Verified); err != nil {
		return err
	}

	recordActivity(h.activity, adminID, "user.verified_set", targetID, strconv.FormatBool(req.Verified))

	return c.NoContent(http.StatusNoContent)
}
