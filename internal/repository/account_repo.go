package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/CoachLogBack/internal/models"
)

type AccountRepository struct {
	db DBTX
}

func NewAccountRepository(db DBTX) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (email, password_hash)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	return r.db.QueryRow(ctx, query, account.Email, account.PasswordHash).
		Scan(&account.ID, &account.CreatedAt)
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `
		SELECT id, email, password_hash, created_at
		FROM accounts
		WHERE email = $1
	`
	var account models.Account
	err := r.db.QueryRow(ctx, query, email).
		Scan(&account.ID, &account.Email, &account.PasswordHash, &account.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	query := `
		SELECT id, email, password_hash, created_at
		FROM accounts
		WHERE id = $1
	`
	var account models.Account
	err := r.db.QueryRow(ctx, query, id).
		Scan(&account.ID, &account.Email, &account.PasswordHash, &account.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

type TxStarter interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Registrar creates an account and its profile atomically.
type Registrar struct {
	db TxStarter
}

func NewRegistrar(db TxStarter) *Registrar {
	return &Registrar{db: db}
}

func (r *Registrar) Register(ctx context.Context, account *models.Account, profile *models.Profile) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := NewAccountRepository(tx).Create(ctx, account); err != nil {
		return err
	}

	profile.ID = account.ID
	profile.Email = account.Email
	if err := NewProfileRepository(tx).Create(ctx, profile); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
