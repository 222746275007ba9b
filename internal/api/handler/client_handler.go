package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/inverland/estate-crm/internal/core/domain"
	"github.com/inverland/estate-crm/internal/core/ports"
)

type ClientHandler struct {
	clients ports.ClientService
}

func NewClientHandler(clients ports.ClientService) *ClientHandler {
	return &ClientHandler{clients: clients}
}

type clientRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"omitempty,email"`
	Phone           string `json:"phone"`
	LeadSource      string `json:"lead_source"`
	Status          string `json:"status"`
	AssignedAgentID string `json:"assigned_agent_id"`
	Notes           string `json:"notes"`
}

func (r *clientRequest) toDomain() *domain.Client {
	return &domain.Client{
		Name:            r.Name,
		Email:           r.Email,
		Phone:           r.Phone,
		LeadSource:      r.LeadSource,
		Status:          domain.ClientStatus(r.Status),
		AssignedAgentID: r.AssignedAgentID,
		Notes:           r.Notes,
	}
}

type clientPageResponse struct {
	Items      []*domain.Client `json:"items"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
}

// List returns the client pipeline with filters and pagination.
//
// @Summary      List clients
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        status       query  string  false  "Pipeline stage"
// @Param        lead_source  query  string  false  "Lead source"
// @Param        agent_id     query  string  false  "Assigned agent"
// @Param        search       query  string  false  "Partial name or email"
// @Param        page         query  int     false  "Page number"
// @Param        limit        query  int     false  "Page size, capped at 100"
// @Success      200  {object}  clientPageResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/clients [get]
func (h *ClientHandler) List(c echo.Context) error {
	f := ports.ClientFilter{
		Status:          c.QueryParam("status"),
		LeadSource:      c.QueryParam("lead_source"),
		AssignedAgentID: c.QueryParam("agent_id"),
		Search:          c.QueryParam("search"),
	}
	f.Page, _ = strconv.Atoi(c.QueryParam("page"))
	f.Limit, _ = strconv.Atoi(c.QueryParam("limit"))

	page, err := h.clients.List(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clientPageResponse{
		Items:      page.Items,
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
	})
}

// Get returns one client with its activity log.
//
// @Summary      Get a client
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Client ID"
// @Success      200  {object}  domain.Client
// @Failure      404  {object}  errorResponse
// @Router       /v1/clients/{id} [get]
func (h *ClientHandler) Get(c echo.Context) error {
	client, err := h.clients.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, client)
}

// Create adds a client. A missing status defaults to the first pipeline stage.
//
// @Summary      Create a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      clientRequest  true  "Client"
// @Success      201   {object}  domain.Client
// @Failure      400   {object}  errorResponse
// @Router       /v1/clients [post]
func (h *ClientHandler) Create(c echo.Context) error {
	var req clientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	client, err := h.clients.Create(c.Request().Context(), req.toDomain())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, client)
}

// Update replaces a client's editable fields.
//
// @Summary      Update a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Client ID"
// @Param        body  body      clientRequest  true  "Client"
// @Success      200   {object}  domain.Client
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/clients/{id} [put]
func (h *ClientHandler) Update(c echo.Context) error {
	var req clientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	client := req.toDomain()
	client.ID = c.Param("id")
	updated, err := h.clients.Update(c.Request().Context(), client)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete removes a client.
//
// @Summary      Delete a client
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Client ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/clients/{id} [delete]
func (h *ClientHandler) Delete(c echo.Context) error {
	if err := h.clients.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// AddActivity appends an entry to a client's activity log.
//
// @Summary      Log client activity
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Client ID"
// @Param        body  body      activityRequest  true  "Activity"
// @Success      201   {object}  domain.ActivityEntry
// @Failure      404   {object}  errorResponse
// @Router       /v1/clients/{id}/activities [post]
func (h *ClientHandler) AddActivity(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req activityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	entry, err := h.clients.AddActivity(c.Request().Context(), c.Param("id"), ports.ActivityInput{
		Type:        req.Type,
		Description: req.Description,
		Actor:       actor.Username,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, entry)
}
