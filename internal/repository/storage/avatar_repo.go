package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
)

// AvatarRepository defines the interface for avatar object storage
type AvatarRepository interface {
	Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error)
	Delete(ctx context.Context, objectPath string) error
	GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error)
}

// AvatarObjectPath creates a unique object path for a profile's avatar
func AvatarObjectPath(profileID uuid.UUID, ext string) string {
	return path.Join("avatars", profileID.String(), fmt.Sprintf("%s%s", uuid.New().String(), ext))
}
