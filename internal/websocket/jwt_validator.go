package websocket

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned when JWT validation fails
var ErrInvalidToken = errors.New("invalid token")

// ErrProfileNotFound is returned when profile lookup fails
var ErrProfileNotFound = errors.New("profile not found")

// ProfileLookup provides profile lookup by authenticated subject.
// Browsers cannot attach an Authorization header to the upgrade request,
// so WebSocket connections carry the token in a query parameter and are
// validated here instead of in the HTTP auth middleware.
type ProfileLookup interface {
	GetProfileByUserID(userID string) (profileID uuid.UUID, err error)
}

// CustomClaims contains the custom claims from the OIDC JWT
type CustomClaims struct{}

// Validate implements validator.CustomClaims
func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// JWTValidator validates OIDC JWT tokens for WebSocket connections
type JWTValidator struct {
	validator     *validator.Validator
	profileLookup ProfileLookup
}

// NewJWTValidator creates a new JWTValidator
func NewJWTValidator(domain, audience string, profileLookup ProfileLookup) (*JWTValidator, error) {
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

	return &JWTValidator{
		validator:     jwtValidator,
		profileLookup: profileLookup,
	}, nil
}

// ValidateToken validates a JWT and resolves the owning profile
func (v *JWTValidator) ValidateToken(token string) (uuid.UUID, error) {
	claims, err := v.validator.ValidateToken(context.Background(), token)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}

	profileID, err := v.profileLookup.GetProfileByUserID(validatedClaims.RegisteredClaims.Subject)
	if err != nil {
		return uuid.Nil, ErrProfileNotFound
	}

	return profileID, nil
}
