package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/middleware"
	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/service"
)

type UserHandler struct {
	Users *service.UserService
}

func (h *UserHandler) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.Users.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Promote(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.Users.Promote(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Block(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	actor := middleware.CurrentUser(c)
	if actor == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "could not validate credentials")
	}
	user, err := h.Users.Block(c.Request().Context(), actor, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Unblock(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.Users.Unblock(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

func paramID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}
