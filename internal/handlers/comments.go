package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/middleware"
	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/service"
	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/util"
)

type CommentHandler struct {
	Comments *service.CommentService
}

func (h *CommentHandler) Create(c echo.Context) error {
	photoID, err := paramID(c, "photo_id")
	if err != nil {
		return err
	}
	user := middleware.CurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "could not validate credentials")
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	comment, err := h.Comments.Create(c.Request().Context(), user, photoID, req.Text)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, comment)
}

func (h *CommentHandler) Update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	user := middleware.CurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "could not validate credentials")
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	comment, err := h.Comments.Update(c.Request().Context(), user, id, req.Text)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, comment)
}

func (h *CommentHandler) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Comments.Delete(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CommentHandler) ListByPhoto(c echo.Context) error {
	photoID, err := paramID(c, "photo_id")
	if err != nil {
		return err
	}
	limit, offset := listParams(c)

	comments, err := h.Comments.ListByPhoto(c.Request().Context(), photoID, limit, offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, comments)
}

func (h *CommentHandler) ListByUser(c echo.Context) error {
	userID, err := paramID(c, "user_id")
	if err != nil {
		return err
	}
	limit, offset := listParams(c)

	comments, err := h.Comments.ListByUser(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, comments)
}

func listParams(c echo.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	offset, _ = strconv.Atoi(c.QueryParam("offset"))
	return util.LimitOffset(limit, offset)
}
