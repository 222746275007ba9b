package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inverland/estate-crm/internal/core/domain"
)

// ctxActor extracts the auth claims injected by the Auth middleware into a
// Session value. Role presence proves the middleware ran; without it the
// request never passed authentication.
func ctxActor(c echo.Context) (*domain.Session, error) {
	role, _ := c.Get("role").(string)
	if role == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	userID, _ := c.Get("user_id").(string)
	username, _ := c.Get("username").(string)

	return &domain.Session{UserID: userID, Username: username, Role: role}, nil
}
