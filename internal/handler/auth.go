package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/user-session-service/internal/config"
	"github.com/iliyamo/user-session-service/internal/model"
	"github.com/iliyamo/user-session-service/internal/queue"
	"github.com/iliyamo/user-session-service/internal/service"
)

// sessionHeader is the request/response header carrying the session token.
const sessionHeader = "sessionid"

// AuthHandler bundles dependencies for the auth endpoints. Events may be nil
// (e.g. in tests); audit events are then skipped.
type AuthHandler struct {
	Cfg    config.Config
	Auth   *service.Auth
	Events *queue.Publisher
}

func NewAuthHandler(cfg config.Config, auth *service.Auth, events *queue.Publisher) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Auth: auth, Events: events}
}

// ----- DTOs -----

// RegisterRequest is the JSON body of POST /v1/register. Title is optional;
// every other field is required.
type RegisterRequest struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Title     string `json:"title"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        uint64  `json:"id"`
	Firstname string  `json:"firstname"`
	Lastname  string  `json:"lastname"`
	Title     *string `json:"title"`
	Username  string  `json:"username"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

// toUserResponse converts a user row to its public shape. The password hash
// has no field here, so it can never leak into a response body.
func toUserResponse(u model.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Firstname: u.Firstname,
		Lastname:  u.Lastname,
		Title:     u.Title,
		Username:  u.Username,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.Format(time.RFC3339),
	}
}

// Register creates a user: validate the payload, hash the password, insert.
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid payload"})
	}
	if errs := ValidateRegistration(req); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":   "Validation failed",
			"details": validationDetails(errs),
		})
	}

	var title *string
	if t := strings.TrimSpace(req.Title); t != "" {
		title = &t
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Auth.Register(ctx, service.RegisterInput{
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		Title:     title,
		Username:  req.Username,
		Password:  req.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrDuplicateUsername) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "Registration failed"})
		}
		log.Printf("register: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}

	h.publish(queue.NewAuthEvent(queue.EventUserRegistered, u.ID, u.Username, ""))

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User registered successfully",
		"user":    toUserResponse(u),
	})
}

// Login checks credentials and issues a session. The token travels back in
// the sessionid response header, not in the body.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing credentials"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Auth.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Authentication failed"})
		}
		log.Printf("login: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}

	s, err := h.Auth.CreateSession(ctx, u.ID)
	if err != nil {
		log.Printf("login: create session: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}

	h.publish(queue.NewAuthEvent(queue.EventUserLogin, u.ID, u.Username, s.SessionID))

	c.Response().Header().Set(sessionHeader, s.SessionID)
	return c.JSON(http.StatusOK, echo.Map{
		"message":      "Login successful",
		"user":         toUserResponse(u),
		"redirect_url": h.Cfg.LoginRedirectURL,
	})
}

// ValidateSession resolves the sessionid header to its user. Expired
// sessions are deactivated on the spot and reported exactly like unknown
// ones.
func (h *AuthHandler) ValidateSession(c echo.Context) error {
	sid := c.Request().Header.Get(sessionHeader)
	if sid == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "No session found"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, u, err := h.Auth.ValidateSession(ctx, sid)
	if err != nil {
		if errors.Is(err, service.ErrSessionInvalid) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid session"})
		}
		log.Printf("validate-session: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":    "Session is valid",
		"user":       toUserResponse(u),
		"session_id": s.SessionID,
	})
}

// Logout deactivates the session named by the sessionid header. A session
// that was already inactive still logs out successfully; only a token with
// no row at all is a 404.
func (h *AuthHandler) Logout(c echo.Context) error {
	sid := c.Request().Header.Get(sessionHeader)
	if sid == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "No session found"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Auth.InvalidateSession(ctx, sid)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Session not found"})
		}
		log.Printf("logout: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}

	h.publish(queue.NewAuthEvent(queue.EventUserLogout, s.UserID, "", s.SessionID))

	return c.JSON(http.StatusOK, echo.Map{"message": "Logout successful"})
}

// publish sends an audit event in the background. The request must not wait
// on the broker, and a publish failure is already logged by the publisher.
func (h *AuthHandler) publish(ev queue.AuthEvent) {
	if h.Events == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = h.Events.Publish(ctx, ev)
	}()
}
