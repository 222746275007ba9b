package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inverland/estate-crm/internal/api/metrics"
	"github.com/inverland/estate-crm/internal/core/ports"
)

type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type createUserRequest struct {
	Username       string  `json:"username" validate:"required,min=3"`
	Password       string  `json:"password" validate:"required,min=4"`
	Role           string  `json:"role" validate:"required,oneof=admin agent referrer user"`
	Name           string  `json:"name" validate:"required"`
	CommissionRate float64 `json:"commission_rate" validate:"gte=0"`
}

type updateUserRequest struct {
	Username       string  `json:"username" validate:"required,min=3"`
	Password       string  `json:"password"`
	Role           string  `json:"role" validate:"required,oneof=admin agent referrer user"`
	Name           string  `json:"name" validate:"required"`
	CommissionRate float64 `json:"commission_rate" validate:"gte=0"`
}

type deduplicateResponse struct {
	Removed int `json:"removed"`
}

// List returns every account.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.User
// @Failure      401  {object}  errorResponse
// @Router       /v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, h.users.List(c.Request().Context()))
}

// Create registers an account with an explicit role.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "Account details"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.users.Register(c.Request().Context(), ports.RegisterUserInput{
		Username:       req.Username,
		Password:       req.Password,
		Role:           req.Role,
		Name:           req.Name,
		CommissionRate: req.CommissionRate,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// Update modifies an account. An empty password keeps the current one.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User ID"
// @Param        body  body      updateUserRequest  true  "Account details"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.users.Update(c.Request().Context(), ports.UpdateUserInput{
		ID:             c.Param("id"),
		Username:       req.Username,
		Password:       req.Password,
		Role:           req.Role,
		Name:           req.Name,
		CommissionRate: req.CommissionRate,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Delete removes an account, subject to the deletion guards.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "User ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if err := h.users.Delete(c.Request().Context(), c.Param("id"), actor); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Deduplicate removes accounts sharing a username, keeping the oldest.
//
// @Summary      Remove duplicate accounts
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  deduplicateResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/users/deduplicate [post]
func (h *UserHandler) Deduplicate(c echo.Context) error {
	removed, err := h.users.ForceCleanDuplicates(c.Request().Context())
	if err != nil {
		return err
	}
	metrics.DuplicateUsersRemoved.Add(float64(removed))
	return c.JSON(http.StatusOK, deduplicateResponse{Removed: removed})
}
