package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/service"
)

// httpError maps the service error taxonomy onto HTTP statuses. Anything
// outside the taxonomy is a store or infrastructure failure and comes
// back as an opaque 500.
func httpError(err error) error {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrTooManyTags):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrSelfActionDenied):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrDuplicateIdentity),
		errors.Is(err, service.ErrNotPromotable):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
