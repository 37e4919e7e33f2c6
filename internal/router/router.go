// Package router wires HTTP routes to their handlers.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/user-session-service/internal/handler"
)

// RegisterRoutes registers the unauthenticated utility endpoints.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.Health)
	e.GET("/v1/helloworld", handler.HelloWorld)
}

// RegisterAuth registers the auth endpoints under /v1, wrapped in the given
// middleware (the Redis rate limiter in production, nothing in tests).
// Session state travels exclusively in the `sessionid` header, so logout and
// validate-session take no body.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mw...)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/logout", a.Logout)
	g.GET("/validate-session", a.ValidateSession)
}
