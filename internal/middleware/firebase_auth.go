package middleware

import (
	"context"
	"fmt"
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/ideahub/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// TokenVerifier verifies Firebase ID tokens. *auth.Client satisfies it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// ProfileResolver maps a Firebase account to its profile, creating it on first use.
type ProfileResolver interface {
	EnsureFirebaseProfile(ctx context.Context, firebaseUID, email, displayName string) (*models.Profile, error)
}

// FirebaseAuthenticator accepts Firebase ID tokens directly, so clients can
// skip the local token exchange.
func FirebaseAuthenticator(verifier TokenVerifier, profiles ProfileResolver) Authenticator {
	return func(c echo.Context, idToken string) (string, error) {
		token, err := verifier.VerifyIDToken(c.Request().Context(), idToken)
		if err != nil {
			return "", echo.NewHTTPError(http.StatusUnauthorized, fmt.Sprintf("Invalid or expired ID token: %v", err))
		}

		email, name := FirebaseIdentity(token)
		profile, err := profiles.EnsureFirebaseProfile(c.Request().Context(), token.UID, email, name)
		if err != nil {
			return "", err
		}

		c.Set("firebaseUID", token.UID)
		return profile.ID, nil
	}
}

// FirebaseIdentity extracts the email and display name claims of a token.
func FirebaseIdentity(token *auth.Token) (email, name string) {
	if v, ok := token.Claims["email"].(string); ok {
		email = v
	}
	if v, ok := token.Claims["name"].(string); ok {
		name = v
	}
	return email, name
}
