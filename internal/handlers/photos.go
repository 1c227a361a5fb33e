package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/imagehost"
	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/logging"
	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/middleware"
	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/service"
	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/util"
)

type PhotoHandler struct {
	Photos *service.PhotoService
}

// Create accepts a multipart form: the image under "file", an optional
// "description" and a comma-separated "tags" field.
func (h *PhotoHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "photos_create")

	user := middleware.CurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "could not validate credentials")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		l.Warn("create_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "missing file")
	}
	src, err := fileHeader.Open()
	if err != nil {
		l.Error("create_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	defer src.Close()

	photo, err := h.Photos.Create(
		ctx,
		user,
		fileHeader.Filename,
		src,
		c.FormValue("description"),
		splitTags(c.FormValue("tags")),
	)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, photo)
}

func (h *PhotoHandler) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	photo, err := h.Photos.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, photo)
}

func (h *PhotoHandler) ListByUser(c echo.Context) error {
	ownerID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = util.LimitOffset(limit, offset)

	photos, err := h.Photos.ListByOwner(c.Request().Context(), ownerID, limit, offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, photos)
}

func (h *PhotoHandler) Update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	user := middleware.CurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "could not validate credentials")
	}

	var req struct {
		Description string `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	photo, err := h.Photos.UpdateDescription(c.Request().Context(), user, id, req.Description)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, photo)
}

func (h *PhotoHandler) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	user := middleware.CurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "could not validate credentials")
	}

	if err := h.Photos.Delete(c.Request().Context(), user, id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Transform returns a derived URL for the photo, the host does the work.
func (h *PhotoHandler) Transform(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	width, _ := strconv.Atoi(c.QueryParam("width"))
	height, _ := strconv.Atoi(c.QueryParam("height"))
	t := imagehost.Transformation{
		Width:  width,
		Height: height,
		Crop:   c.QueryParam("crop"),
		Effect: c.QueryParam("effect"),
	}

	url, err := h.Photos.Transform(c.Request().Context(), id, t)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"url": url})
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}
