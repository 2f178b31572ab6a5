package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/saeid-a/CoachLogBack/internal/models"
	"github.com/saeid-a/CoachLogBack/internal/repository"
	"github.com/saeid-a/CoachLogBack/pkg/utils"
)

const minPasswordLength = 8

type accountRegistrar interface {
	Register(ctx context.Context, account *models.Account, profile *models.Profile) error
}

type accountReader interface {
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
}

type profileReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
}

type SignUpInput struct {
	Email    string
	Password string
	FullName string
	Role     string
}

type AuthResult struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Profile   *models.Profile `json:"profile"`
}

type AuthService struct {
	registrar accountRegistrar
	accounts  accountReader
	profiles  profileReader
	sessions  SessionStore
	notifier  Notifier
	jwtSecret string
	tokenTTL  time.Duration
	logger    *log.Logger
}

func NewAuthService(
	registrar accountRegistrar,
	accounts accountReader,
	profiles profileReader,
	sessions SessionStore,
	notifier Notifier,
	jwtSecret string,
	tokenTTL time.Duration,
	logger *log.Logger,
) *AuthService {
	if logger == nil {
		logger = log.Default()
	}
	return &AuthService{
		registrar: registrar,
		accounts:  accounts,
		profiles:  profiles,
		sessions:  sessions,
		notifier:  notifierOrNoop(notifier),
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

func NormalizeEmail(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", validationError("email is required")
	}
	parsed, err := mail.ParseAddress(trimmed)
	if err != nil || parsed.Address != trimmed {
		return "", validationError("invalid email format")
	}
	return strings.ToLower(parsed.Address), nil
}

func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (*AuthResult, error) {
	email, err := NormalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if len(input.Password) < minPasswordLength {
		return nil, validationError("password must be at least %d characters", minPasswordLength)
	}
	role := strings.ToLower(strings.TrimSpace(input.Role))
	if !models.ValidRole(role) {
		return nil, validationError("role must be student or coach")
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &models.Account{Email: email, PasswordHash: hashed}
	profile := &models.Profile{Role: role, Email: email}
	if fullName := strings.TrimSpace(input.FullName); fullName != "" {
		profile.FullName = &fullName
	}

	if err := s.registrar.Register(ctx, account, profile); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, storageError("register account", err)
	}

	return s.issue(profile)
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.GetByEmail(ctx, normalized)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, storageError("lookup account", err)
	}
	if !utils.CheckPassword(password, account.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	profile, err := s.profiles.GetByID(ctx, account.ID)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, storageError("load profile", err)
	}

	return s.issue(profile)
}

func (s *AuthService) issue(profile *models.Profile) (*AuthResult, error) {
	token, claims, err := utils.GenerateToken(profile.ID.String(), profile.Role, profile.Email, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(models.NewEvent(models.EventSignedIn, profile.ID, nil), profile.ID)

	return &AuthResult{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		Profile:   profile,
	}, nil
}

// Authenticate resolves a bearer token to the identity it was issued for.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.Identity, error) {
	claims, err := utils.ValidateToken(token, s.jwtSecret)
	if err != nil {
		return nil, ErrUnauthorized
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrUnauthorized
	}

	if s.sessions != nil {
		revoked, err := s.sessions.IsRevoked(ctx, claims.ID)
		if err != nil {
			s.logger.Printf("[Session] revocation check failed for %s: %v", userID, err)
		}
		if revoked {
			return nil, ErrSessionRevoked
		}
	}

	identity := &models.Identity{
		UserID:  userID,
		Role:    claims.Role,
		Email:   claims.Email,
		TokenID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		identity.ExpiresAt = claims.ExpiresAt.Time
	}
	return identity, nil
}

func (s *AuthService) SignOut(ctx context.Context, identity models.Identity) error {
	if s.sessions != nil {
		ttl := time.Until(identity.ExpiresAt)
		if err := s.sessions.Revoke(ctx, identity.TokenID, ttl); err != nil {
			if !errors.Is(err, context.Canceled) {
				s.logger.Printf("[Session] revoke token for %s: %v", identity.UserID, err)
			}
		}
	}

	s.notifier.Notify(models.NewEvent(models.EventSignedOut, identity.UserID, nil), identity.UserID)
	return nil
}

// CurrentSession restores the profile behind an authenticated identity.
func (s *AuthService) CurrentSession(ctx context.Context, identity models.Identity) (*models.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, identity.UserID)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, storageError("load profile", err)
	}
	return profile, nil
}
