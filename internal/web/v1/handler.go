package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/session-auth-service/internal/core/domain"
	"github.com/duynhne/session-auth-service/internal/logger"
	logicv1 "github.com/duynhne/session-auth-service/internal/logic/v1"
	"github.com/duynhne/session-auth-service/middleware"
)

// CookieOptions controls the session cookie issued on login.
type CookieOptions struct {
	Name string
	// MaxAge is the cookie lifetime; zero or less issues a browser-session cookie.
	MaxAge time.Duration
	Secure bool
}

// Handler groups HTTP handlers for the auth API v1.
// Dependencies are injected via the constructor — no global state.
type Handler struct {
	auth   *logicv1.AuthService
	cookie CookieOptions
}

// NewHandler creates a new Handler with the given AuthService.
func NewHandler(auth *logicv1.AuthService, cookie CookieOptions) *Handler {
	return &Handler{auth: auth, cookie: cookie}
}

// RegisterRoutes registers all auth API v1 routes on the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/users", h.Register)
	rg.POST("/auth/login", h.Login)
	rg.GET("/auth/me", h.GetMe)
}

// startSpan starts the web-layer span and stores its context on c.Request.
func startSpan(c *gin.Context) trace.Span {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	c.Request = c.Request.WithContext(ctx)
	return span
}

// Register handles HTTP request for user registration.
// POST /api/v1/users
func (h *Handler) Register(c *gin.Context) {
	span := startSpan(c)
	defer span.End()
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)

	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		span.RecordError(err)
		log.Warn().Err(err).Msg("Invalid request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
		return
	}
	span.SetAttributes(attribute.Bool("request.valid", true))

	user, err := h.auth.RegisterUser(ctx, req.Email, req.Password)
	if err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, logicv1.ErrUserExists):
			log.Info().Err(err).Msg("Registration rejected")
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		case errors.Is(err, logicv1.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
		default:
			log.Error().Err(err).Msg("Registration failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	log.Info().Str("user_id", user.ID).Msg("Registration successful")
	c.JSON(http.StatusCreated, gin.H{"email": user.Email, "message": "user created"})
}

// Login handles HTTP request for user login. On success the session id is
// returned in the body and set as the session cookie.
// POST /api/v1/auth/login
func (h *Handler) Login(c *gin.Context) {
	span := startSpan(c)
	defer span.End()
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)

	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		span.RecordError(err)
		log.Warn().Err(err).Msg("Invalid request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
		return
	}
	span.SetAttributes(attribute.Bool("request.valid", true))

	response, err := h.auth.Login(ctx, req)
	if err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, logicv1.ErrInvalidCredentials), errors.Is(err, logicv1.ErrUserNotFound):
			// Don't reveal that user doesn't exist
			log.Info().Err(err).Msg("Login rejected")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		default:
			log.Error().Err(err).Msg("Login failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	maxAge := 0
	if h.cookie.MaxAge > 0 {
		maxAge = int(h.cookie.MaxAge / time.Second)
	}
	c.SetCookie(h.cookie.Name, response.Token, maxAge, "/", "", h.cookie.Secure, true)

	log.Info().Str("user_id", response.User.ID).Msg("Login successful")
	c.JSON(http.StatusOK, response)
}

// GetMe returns the user owning the presented session.
// GET /api/v1/auth/me
// Cookie: <session name>=<id> or Authorization: Bearer <id>
func (h *Handler) GetMe(c *gin.Context) {
	span := startSpan(c)
	defer span.End()
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)

	sessionID := middleware.SessionID(c, h.cookie.Name)
	span.SetAttributes(attribute.Bool("auth.present", sessionID != ""))
	if sessionID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session required"})
		return
	}

	user, err := h.auth.CurrentUser(ctx, sessionID)
	if err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, logicv1.ErrSessionNotFound), errors.Is(err, logicv1.ErrUserNotFound):
			log.Info().Err(err).Msg("Session rejected")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
		default:
			log.Error().Err(err).Msg("Session lookup failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	log.Debug().Str("user_id", user.ID).Msg("Session validated")
	c.JSON(http.StatusOK, user)
}
