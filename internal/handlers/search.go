package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/service"
	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/util"
)

type SearchHandler struct {
	Search *service.SearchService
}

func (h *SearchHandler) Handler(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing query")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	from, size := util.Calculate(page, size)

	total, photos, err := h.Search.Search(c.Request().Context(), q, from, size)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, echo.Map{"total": total, "photos": photos})
}
