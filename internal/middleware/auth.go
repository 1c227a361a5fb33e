package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/logging"
	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/models"
	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/service"
	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/tokens"
)

const userContextKey = "current_user"

// Auth resolves the caller from a bearer access token. A blocked user
// holds a structurally valid token and is still turned away from every
// gated route.
type Auth struct {
	Tokens *tokens.Issuer
	Store  service.UserStore
}

func (m *Auth) RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("mw", "auth")

		header := c.Request().Header.Get(echo.HeaderAuthorization)
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "could not validate credentials")
		}

		claims, err := m.Tokens.Parse(raw)
		if err != nil {
			l.Warn("auth_failed", "reason", "token_invalid", "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "could not validate credentials")
		}
		if claims.Scope != tokens.ScopeAccess {
			l.Warn("auth_failed", "reason", "wrong_scope")
			return echo.NewHTTPError(http.StatusUnauthorized, "could not validate credentials")
		}

		user, err := m.Store.FindUserByEmail(ctx, claims.Subject)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				l.Warn("auth_failed", "reason", "unknown_subject")
				return echo.NewHTTPError(http.StatusUnauthorized, "could not validate credentials")
			}
			l.Error("auth_failed", "reason", "store_error", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}

		if user.IsBlocked {
			l.Warn("auth_denied", "reason", "blocked", "user_id", user.ID)
			return echo.NewHTTPError(http.StatusForbidden, "your account is blocked")
		}

		c.Set(userContextKey, user)
		return next(c)
	}
}

// RequireRoles admits only callers whose role is in the declared set.
// Membership is exact, allowing admin does not admit moderator.
func RequireRoles(roles ...models.Role) echo.MiddlewareFunc {
	allowed := make(map[models.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "could not validate credentials")
			}
			if !user.Role.Valid() || !allowed[user.Role] {
				return echo.NewHTTPError(http.StatusForbidden, "you do not have permission to perform this action")
			}
			return next(c)
		}
	}
}

// CurrentUser returns the user resolved by RequireUser, or nil on
// ungated routes.
func CurrentUser(c echo.Context) *models.User {
	if u, ok := c.Get(userContextKey).(*models.User); ok {
		return u
	}
	return nil
}
