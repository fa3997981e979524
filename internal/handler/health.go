package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HandleHealth answers liveness probes.
func (h *Handler) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}
