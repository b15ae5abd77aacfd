package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// CustomClaims contains the custom claims from the OIDC JWT
type CustomClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Validate implements validator.CustomClaims
func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// ClaimsKey is the context key for JWT claims
	ClaimsKey contextKey = "claims"
	// UserIDKey is the context key for the OIDC subject
	UserIDKey contextKey = "user_id"
	// ProfileIDKey is the context key for the resolved profile ID
	ProfileIDKey contextKey = "profile_id"
)

// ProfileProvider provides profile lookup by OIDC subject
type ProfileProvider interface {
	GetProfileByUserID(userID string) (profileID uuid.UUID, err error)
}

// AuthMiddleware provides JWT validation middleware
type AuthMiddleware struct {
	validator       *validator.Validator
	profileProvider ProfileProvider
}

// NewAuthMiddleware creates a new AuthMiddleware for the OIDC tenant.
// When profileProvider is nil the middleware validates the token but skips
// profile resolution; the sign-in sync route uses that mode because the
// profile may not exist yet.
func NewAuthMiddleware(domain, audience string, profileProvider ProfileProvider) (*AuthMiddleware, error) {
	issuerURL, err := url.Parse("https://" + domain + "/")
	if err != nil {
		return nil, err
	}

	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{audience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &CustomClaims{}
		}),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, err
	}

	return &AuthMiddleware{
		validator:       jwtValidator,
		profileProvider: profileProvider,
	}, nil
}

// Authenticate returns an Echo middleware that validates JWT tokens and
// resolves the caller's profile
func (m *AuthMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header format")
			}

			token := parts[1]

			claims, err := m.validator.ValidateToken(c.Request().Context(), token)
			if err != nil {
				log.Debug().Err(err).Msg("Token validation failed")
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			validatedClaims, ok := claims.(*validator.ValidatedClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid claims")
			}

			userID := validatedClaims.RegisteredClaims.Subject

			ctx := context.WithValue(c.Request().Context(), ClaimsKey, validatedClaims)
			ctx = context.WithValue(ctx, UserIDKey, userID)

			if m.profileProvider != nil {
				profileID, err := m.profileProvider.GetProfileByUserID(userID)
				if err != nil {
					log.Debug().Err(err).Str("user_id", userID).Msg("Profile lookup failed")
					return echo.NewHTTPError(http.StatusUnauthorized, "profile not found")
				}
				ctx = context.WithValue(ctx, ProfileIDKey, profileID)
			}

			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// GetUserID extracts the OIDC subject from the context
func GetUserID(c echo.Context) string {
	if id, ok := c.Request().Context().Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}

// GetClaims extracts the validated claims from the context
func GetClaims(c echo.Context) *validator.ValidatedClaims {
	if claims, ok := c.Request().Context().Value(ClaimsKey).(*validator.ValidatedClaims); ok {
		return claims
	}
	return nil
}

// GetCustomClaims extracts the custom claims from the context
func GetCustomClaims(c echo.Context) *CustomClaims {
	claims := GetClaims(c)
	if claims == nil {
		return nil
	}
	if custom, ok := claims.CustomClaims.(*CustomClaims); ok {
		return custom
	}
	return nil
}

// GetProfileID extracts the resolved profile ID from the context
func GetProfileID(c echo.Context) uuid.UUID {
	if id, ok := c.Request().Context().Value(ProfileIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}
