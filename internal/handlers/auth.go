package handlers

import (
	"net/http"
	"time"

	"github.com/anonto42/ideahub/backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// AuthHandler exchanges Firebase ID tokens for local session tokens
type AuthHandler struct {
	profiles     middleware.ProfileResolver
	firebaseAuth middleware.TokenVerifier
	jwtSecret    string
	tokenTTL     time.Duration
}

// NewAuthHandler creates a new AuthHandler. firebaseAuth may be nil when
// Firebase is not configured.
func NewAuthHandler(profiles middleware.ProfileResolver, firebaseAuth middleware.TokenVerifier, jwtSecret string, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		profiles:     profiles,
		firebaseAuth: firebaseAuth,
		jwtSecret:    jwtSecret,
		tokenTTL:     tokenTTL,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/firebase-login", h.FirebaseLogin)
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// FirebaseLogin verifies a Firebase ID token, creates the profile on first
// login and issues a local JWT
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	if h.firebaseAuth == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Firebase login is not configured")
	}

	var req FirebaseLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, err := h.firebaseAuth.VerifyIDToken(c.Request().Context(), req.IDToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Firebase ID token")
	}

	email, name := middleware.FirebaseIdentity(token)
	profile, err := h.profiles.EnsureFirebaseProfile(c.Request().Context(), token.UID, email, name)
	if err != nil {
		return err
	}

	localJWT, err := middleware.GenerateToken(h.jwtSecret, profile, h.tokenTTL)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate local JWT")
	}

	return ok(c, http.StatusOK, echo.Map{"token": localJWT, "profile": profile})
}
