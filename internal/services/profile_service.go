package services

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/saeid-a/CoachLogBack/internal/models"
)

const maxFullNameLength = 120

var ErrStorageNotConfigured = errors.New("object storage is not configured")

type profileWriter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	UpdateFullName(ctx context.Context, id uuid.UUID, fullName string) (*models.Profile, error)
	UpdateAvatarURL(ctx context.Context, id uuid.UUID, avatarURL string) (*models.Profile, error)
}

type ProfileService struct {
	profiles profileWriter
	storage  StorageService
	now      func() time.Time
}

func NewProfileService(profiles profileWriter, storage StorageService) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		storage:  storage,
		now:      time.Now,
	}
}

func (s *ProfileService) Get(ctx context.Context, actor models.Identity) (*models.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, actor.UserID)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, storageError("load profile", err)
	}
	return profile, nil
}

func (s *ProfileService) UpdateName(ctx context.Context, actor models.Identity, fullName string) (*models.Profile, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, validationError("full_name is required")
	}
	if utf8.RuneCountInString(fullName) > maxFullNameLength {
		return nil, validationError("full_name must be at most %d characters", maxFullNameLength)
	}

	profile, err := s.profiles.UpdateFullName(ctx, actor.UserID, fullName)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, storageError("update name", err)
	}
	return profile, nil
}

// UploadAvatar overwrites the caller's avatar object and stores its public URL
// with a version suffix so clients drop cached copies.
func (s *ProfileService) UploadAvatar(ctx context.Context, actor models.Identity, content io.Reader, contentType string) (*models.Profile, error) {
	if s.storage == nil {
		return nil, ErrStorageNotConfigured
	}

	publicURL, err := s.storage.UploadObject(ctx, content, AvatarObjectPath(actor.UserID), contentType)
	if err != nil {
		return nil, storageError("upload avatar", err)
	}

	versioned, err := VersionedURL(publicURL, s.now())
	if err != nil {
		return nil, storageError("version avatar url", err)
	}

	profile, err := s.profiles.UpdateAvatarURL(ctx, actor.UserID, versioned)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, storageError("update avatar", err)
	}
	return profile, nil
}

func AvatarObjectPath(userID uuid.UUID) string {
	return userID.String() + "/avatar"
}

// VersionedURL sets v=<unix millis> on rawURL, replacing any earlier version.
func VersionedURL(rawURL string, at time.Time) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	query := parsed.Query()
	query.Set("v", strconv.FormatInt(at.UnixMilli(), 10))
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}
