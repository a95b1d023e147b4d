package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/anonto42/ideahub/backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

// JWTAuthenticator accepts HS256 tokens issued by GenerateToken.
func JWTAuthenticator(secret string) Authenticator {
	return func(c echo.Context, tokenString string) (string, error) {
		claims := &models.JwtCustomClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, echo.NewHTTPError(http.StatusUnauthorized, "Unexpected signing method")
			}
			return []byte(secret), nil
		})

		if err != nil {
			if errors.Is(err, jwt.ErrSignatureInvalid) {
				return "", echo.NewHTTPError(http.StatusUnauthorized, "Invalid token signature")
			}
			return "", echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		}
		if !token.Valid || claims.UserID == "" {
			return "", echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		}

		c.Set("user", claims)
		return claims.UserID, nil
	}
}

// GenerateToken signs a local session token for a profile.
func GenerateToken(secret string, profile *models.Profile, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &models.JwtCustomClaims{
		UserID: profile.ID,
		Email:  profile.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
