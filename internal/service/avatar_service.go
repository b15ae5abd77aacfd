package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/jpeg"
	"path/filepath"
	"strings"
	"time"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/centsible/centsible-backend/internal/repository/storage"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	MaxAvatarSize     = 5 * 1024 * 1024 // 5MB
	MinAvatarWidth    = 50
	MinAvatarHeight   = 50
	AvatarWidth       = 256
	AvatarJPEGQuality = 85
	AvatarURLExpiry   = 24 * time.Hour
)

var (
	ErrAvatarTooLarge            = errors.New("file too large. Maximum size is 5MB")
	ErrAvatarInvalidFormat       = errors.New("invalid format. Supported: JPEG, PNG, WebP")
	ErrAvatarTooSmall            = errors.New("image too small. Minimum 50x50 pixels")
	ErrAvatarInvalidData         = errors.New("invalid image data")
	ErrAvatarStorageNotConfigured = errors.New("avatar storage not configured")
)

// allowedAvatarExtensions maps extensions to content types
var allowedAvatarExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// AvatarService handles avatar processing and storage
type AvatarService struct {
	storage     storage.AvatarRepository
	profileRepo domain.ProfileRepository
}

// NewAvatarService creates a new AvatarService
func NewAvatarService(storage storage.AvatarRepository, profileRepo domain.ProfileRepository) *AvatarService {
	return &AvatarService{storage: storage, profileRepo: profileRepo}
}

// IsEnabled indicates whether uploads are supported (storage configured)
func (s *AvatarService) IsEnabled() bool {
	return s != nil && s.storage != nil
}

// UploadAvatar validates, resizes, and stores a profile avatar, then
// records the object path on the profile
func (s *AvatarService) UploadAvatar(ctx context.Context, profileID uuid.UUID, data []byte, filename string) (*domain.Profile, error) {
	if !s.IsEnabled() {
		return nil, ErrAvatarStorageNotConfigured
	}

	img, err := s.validateAndDecode(data, filename)
	if err != nil {
		return nil, err
	}

	// Square crop then downscale to the display size
	resized := imaging.Fill(img, AvatarWidth, AvatarWidth, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: AvatarJPEGQuality}); err != nil {
		return nil, err
	}

	objectPath := storage.AvatarObjectPath(profileID, ".jpg")
	if _, err := s.storage.Upload(ctx, objectPath, bytes.NewReader(buf.Bytes()), "image/jpeg", int64(buf.Len())); err != nil {
		return nil, err
	}

	return s.profileRepo.UpdateAvatarURL(profileID, objectPath)
}

// GetAvatarURL returns a presigned URL for the profile's stored avatar, or
// an empty string when no avatar is set
func (s *AvatarService) GetAvatarURL(ctx context.Context, profileID uuid.UUID) (string, error) {
	if !s.IsEnabled() {
		return "", ErrAvatarStorageNotConfigured
	}

	profile, err := s.profileRepo.GetByID(profileID)
	if err != nil {
		return "", err
	}
	if profile.AvatarURL == nil || *profile.AvatarURL == "" {
		return "", nil
	}

	return s.storage.GeneratePresignedURL(ctx, *profile.AvatarURL, AvatarURLExpiry)
}

// DeleteAvatar removes the stored avatar object and clears the profile field
func (s *AvatarService) DeleteAvatar(ctx context.Context, profileID uuid.UUID) error {
	if !s.IsEnabled() {
		return ErrAvatarStorageNotConfigured
	}

	profile, err := s.profileRepo.GetByID(profileID)
	if err != nil {
		return err
	}
	if profile.AvatarURL == nil || *profile.AvatarURL == "" {
		return nil
	}

	if err := s.storage.Delete(ctx, *profile.AvatarURL); err != nil {
		return err
	}

	_, err = s.profileRepo.UpdateAvatarURL(profileID, "")
	return err
}

// validateAndDecode validates the image and returns the decoded image
func (s *AvatarService) validateAndDecode(data []byte, filename string) (image.Image, error) {
	if len(data) > MaxAvatarSize {
		return nil, ErrAvatarTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedAvatarExtensions[ext]; !ok {
		return nil, ErrAvatarInvalidFormat
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrAvatarInvalidData
	}

	bounds := img.Bounds()
	if bounds.Dx() < MinAvatarWidth || bounds.Dy() < MinAvatarHeight {
		return nil, ErrAvatarTooSmall
	}

	return img, nil
}
