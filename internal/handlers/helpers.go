package handlers

import (
	"errors"
	"net/http"

	"github.com/connectly/backend/internal/models"
	"github.com/connectly/backend/internal/pagination"
	"github.com/connectly/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// getPrincipal builds the principal from the JWT claims placed in the context
// by the auth middleware. Returns nil for anonymous requests.
func getPrincipal(c echo.Context) *models.Principal {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok || claims == nil {
		return nil
	}
	return &models.Principal{ID: claims.UserID, Username: claims.Username}
}

// httpError maps service-layer errors onto HTTP status codes.
func httpError(err error) error {
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	case errors.Is(err, services.ErrTargetNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	case errors.Is(err, services.ErrSelfFollow):
		return echo.NewHTTPError(http.StatusBadRequest, "You cannot follow yourself")
	case errors.Is(err, pagination.ErrInvalidCursor):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid pagination cursor")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
