package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/handlers"
	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/middleware"
	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/models"
)

type Deps struct {
	AuthMW         *middleware.Auth
	AuthHandler    *handlers.AuthHandler
	UserHandler    *handlers.UserHandler
	PhotoHandler   *handlers.PhotoHandler
	CommentHandler *handlers.CommentHandler
	SearchHandler  *handlers.SearchHandler
}

// Register declares every route together with its allowed role set. The
// authentication gate resolves the caller, RequireRoles checks exact
// membership before the handler body runs.
func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	v1.POST("/auth/signup", d.AuthHandler.Signup)
	v1.POST("/auth/signin", d.AuthHandler.Signin)
	v1.POST("/auth/refresh", d.AuthHandler.Refresh)

	v1.GET("/photos/:photo_id/comments", d.CommentHandler.ListByPhoto)
	v1.GET("/users/:user_id/comments", d.CommentHandler.ListByUser)
	v1.GET("/search", d.SearchHandler.Handler)

	authed := v1.Group("", d.AuthMW.RequireUser)
	authed.POST("/auth/signout", d.AuthHandler.Signout)

	anyRole := middleware.RequireRoles(models.RoleAdmin, models.RoleModerator, models.RoleUser)

	photos := authed.Group("/photos", anyRole)
	photos.POST("", d.PhotoHandler.Create)
	photos.GET("/:id", d.PhotoHandler.Get)
	photos.PUT("/:id", d.PhotoHandler.Update)
	photos.DELETE("/:id", d.PhotoHandler.Delete)
	photos.GET("/:id/transform", d.PhotoHandler.Transform)
	photos.POST("/:photo_id/comments", d.CommentHandler.Create)

	authed.GET("/users/:id/photos", d.PhotoHandler.ListByUser, anyRole)
	authed.PUT("/comments/:id", d.CommentHandler.Update, anyRole)
	authed.DELETE("/comments/:id", d.CommentHandler.Delete,
		middleware.RequireRoles(models.RoleAdmin, models.RoleModerator))

	admin := authed.Group("/admin", middleware.RequireRoles(models.RoleAdmin))
	admin.GET("/users/:id", d.UserHandler.Get)
	admin.POST("/users/:id/promote", d.UserHandler.Promote)
	admin.POST("/users/:id/block", d.UserHandler.Block)
	admin.POST("/users/:id/unblock", d.UserHandler.Unblock)
}
