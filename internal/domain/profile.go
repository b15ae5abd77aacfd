package domain

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the tenant scope: every financial entity belongs to exactly
// one profile. UserID is the OIDC subject of the authenticated user.
type Profile struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	AvatarURL *string   `json:"avatarUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ProfileRepository interface {
	GetByID(id uuid.UUID) (*Profile, error)
	GetByUserID(userID string) (*Profile, error)
	// CreateOrGetByUserID provisions a profile idempotently; safe to call
	// after every sign-in regardless of whether a row already exists
	CreateOrGetByUserID(userID, email, name string) (*Profile, error)
	UpdateName(id uuid.UUID, name string) (*Profile, error)
	UpdateAvatarURL(id uuid.UUID, avatarURL string) (*Profile, error)
}
