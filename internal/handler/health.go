package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health reports service liveness for load balancers and monitoring.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "healthy"})
}

// HelloWorld is the canonical smoke-test endpoint.
func HelloWorld(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "Hello, world."})
}
