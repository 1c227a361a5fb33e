package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/logging"
	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/middleware"
	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/service"
)

type AuthHandler struct {
	Auth *service.AuthService
}

func (h *AuthHandler) Signup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_signup")

	var req struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("signup_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Auth.Signup(ctx, req.Email, req.Username, req.Password)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Signin(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_signin")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("signin_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	pair, err := h.Auth.Signin(ctx, req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pair)
}

// Refresh takes the refresh token as an explicit body parameter, not a
// cookie or header.
func (h *AuthHandler) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("refresh_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	accessToken, err := h.Auth.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access_token": accessToken,
		"token_type":   "bearer",
	})
}

func (h *AuthHandler) Signout(c echo.Context) error {
	ctx := c.Request().Context()

	user := middleware.CurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "could not validate credentials")
	}

	if err := h.Auth.Signout(ctx, user); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "successfully signed out",
	})
}
