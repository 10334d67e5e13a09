package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/clearport/clearance-system/internal/api/metrics"
	"github.com/clearport/clearance-system/internal/core/domain"
	"github.com/clearport/clearance-system/internal/core/ports"
)

// RequestHandler handles HTTP requests for the clearance request lifecycle.
type RequestHandler struct {
	service  ports.RequestService
	activity ActivityRecorder
}

func NewRequestHandler(service ports.RequestService, activity ActivityRecorder) *RequestHandler {
	return &RequestHandler{service: service, activity: activity}
}

// Create handles POST /v1/requests.
//
// @Summary      Post a new clearance request
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createRequestRequest  true  "Request details"
// @Success      201   {object}  requestResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /v1/requests [post]
func (h *RequestHandler) Create(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req createRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.service.Create(c.Request().Context(), ports.CreateRequestInput{
		OwnerUserID:   userID,
		Title:         req.Title,
		Description:   req.Description,
		CargoType:     req.CargoType,
		Origin:        req.Origin,
		Destination:   req.Destination,
		DeclaredValue: req.DeclaredValue,
		Currency:      req.Currency,
	})
	if err != nil {
		return err
	}

	metrics.RequestsCreatedTotal.WithLabelValues(created.Destination).Inc()
	recordActivity(h.activity, userID, "request.created", created.ID, created.Title)

	return c.JSON(http.StatusCreated, toRequestResponse(created))
}

// Get handles GET /v1/requests/:id.
//
// @Summary      Get a clearance request by id
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request id"
// @Success      200  {object}  requestResponse
// @Failure      404  {object}  map[string]string
// @Router       /v1/requests/{id} [get]
func (h *RequestHandler) Get(c echo.Context) error {
	request, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRequestResponse(request))
}

// Update handles PATCH /v1/requests/:id.
//
// @Summary      Update a clearance request (owner only)
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Request id"
// @Param        body  body      updateRequestRequest  true  "Fields to update"
// @Success      200   {object}  requestResponse
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/requests/{id} [patch]
func (h *RequestHandler) Update(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req updateRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	updated, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.UpdateRequestInput{
		Title:         req.Title,
		Description:   req.Description,
		CargoType:     req.CargoType,
		Origin:        req.Origin,
		Destination:   req.Destination,
		DeclaredValue: req.DeclaredValue,
		Currency:      req.Currency,
	}, userID)
	if err != nil {
		return err
	}

	recordActivity(h.activity, userID, "request.updated", updated.ID, "")

	return c.JSON(http.StatusOK, toRequestResponse(updated))
}

// AssignAgent handles POST /v1/requests/:id/assign.
//
// @Summary      Assign a verified agent to a request (owner only)
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Request id"
// @Param        body  body      assignAgentRequest  true  "Agent to assign"
// @Success      200   {object}  requestResponse
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/requests/{id}/assign [post]
func (h *RequestHandler) AssignAgent(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req assignAgentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.service.AssignAgent(c.Request().Context(), c.Param("id"), req.AgentID, userID)
	if err != nil {
		return err
	}

	metrics.AssignmentsTotal.Inc()
	recordActivity(h.activity, userID, "request.assigned", updated.ID, req.AgentID)

	return c.JSON(http.StatusOK, toRequestResponse(updated))
}

// UpdateStatus handles PATCH /v1/requests/:id/status.
//
// @Summary      Change a request's status (owner or assigned agent)
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Request id"
// @Param        body  body      updateStatusRequest  true  "New status"
// @Success      200   {object}  requestResponse
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/requests/{id}/status [patch]
func (h *RequestHandler) UpdateStatus(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.service.UpdateStatus(c.Request().Context(), c.Param("id"), domain.RequestStatus(req.Status), userID)
	if err != nil {
		return err
	}

	metrics.StatusTransitionsTotal.WithLabelValues(req.Status).Inc()
	recordActivity(h.activity, userID, "request.status_changed", updated.ID, req.Status)

	return c.JSON(http.StatusOK, toRequestResponse(updated))
}

// Delete handles DELETE /v1/requests/:id.
//
// @Summary      Delete a request (owner only, not in progress or completed)
// @Tags         requests
// @Security     BearerAuth
// @Param        id  path  string  true  "Request id"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /v1/requests/{id} [delete]
func (h *RequestHandler) Delete(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	requestID := c.Param("id")
	if err := h.service.Delete(c.Request().Context(), requestID, userID); err != nil {
		return err
	}

	recordActivity(h.activity, userID, "request.deleted", requestID, "")

	return c.NoContent(http.StatusNoContent)
}

// List handles GET /v1/requests.
//
// @Summary      Search clearance requests
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        status       query     string  false  "Filter by status"
// @Param        cargo_type   query     string  false  "Filter by cargo type"
// @Param        origin       query     string  false  "Filter by origin"
// @Param        destination  query     string  false  "Filter by destination"
// @Param        search       query     string  false  "Free text across title, description and cargo type"
// @Param        mine         query     bool    false  "Restrict to requests the caller owns or is assigned to"
// @Param        page         query     int     false  "Page number (1-based)"
// @Param        limit        query     int     false  "Page size (max 100)"
// @Success      200          {object}  listRequestsResponse
// @Router       /v1/requests [get]
func (h *RequestHandler) List(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	input := ports.SearchRequestsInput{
		Status:       c.QueryParam("status"),
		CargoType:    c.QueryParam("cargo_type"),
		Origin:       c.QueryParam("origin"),
		Destination:  c.QueryParam("destination"),
		CargoOwnerID: c.QueryParam("cargo_owner_id"),
		AgentID:      c.QueryParam("agent_id"),
		Search:       c.QueryParam("search"),
		Page:         queryInt(c, "page"),
		Limit:        queryInt(c, "limit"),
	}
	if mine, _ := strconv.ParseBool(c.QueryParam("mine")); mine {
		input.UserID = userID
	}

	page, err := h.service.Search(c.Request().Context(), input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toListRequestsResponse(page))
}

// queryInt parses an integer query parameter, returning 0 when absent or
// malformed. Services apply their own defaults and caps.
func queryInt(c echo.Context, name string) int {
	n, _ := strconv.Atoi(c.QueryParam(name))
	return n
}
