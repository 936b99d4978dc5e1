package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"reelscope/internal/version"
)

// Health reports liveness and the build version.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.Version,
	})
}
