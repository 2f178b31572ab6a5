package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/saeid-a/CoachLogBack/internal/models"
)

const profileColumns = `id, full_name, avatar_url, role, email, updated_at`

type ProfileRepository struct {
	db DBTX
}

func NewProfileRepository(db DBTX) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (id, full_name, role, email, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING ` + profileColumns
	return scanProfile(r.db.QueryRow(ctx, query, profile.ID, profile.FullName, profile.Role, profile.Email), profile)
}

func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	var profile models.Profile
	if err := scanProfile(r.db.QueryRow(ctx, query, id), &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE email = $1`
	var profile models.Profile
	if err := scanProfile(r.db.QueryRow(ctx, query, email), &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) UpdateFullName(ctx context.Context, id uuid.UUID, fullName string) (*models.Profile, error) {
	query := `
		UPDATE profiles
		SET full_name = $1,
			updated_at = NOW()
		WHERE id = $2
		RETURNING ` + profileColumns
	var profile models.Profile
	if err := scanProfile(r.db.QueryRow(ctx, query, fullName, id), &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) UpdateAvatarURL(ctx context.Context, id uuid.UUID, avatarURL string) (*models.Profile, error) {
	query := `
		UPDATE profiles
		SET avatar_url = $1,
			updated_at = NOW()
		WHERE id = $2
		RETURNING ` + profileColumns
	var profile models.Profile
	if err := scanProfile(r.db.QueryRow(ctx, query, avatarURL, id), &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner, profile *models.Profile) error {
	return row.Scan(
		&profile.ID,
		&profile.FullName,
		&profile.AvatarURL,
		&profile.Role,
		&profile.Email,
		&profile.UpdatedAt,
	)
}
