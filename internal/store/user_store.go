package store

import (
	"context"

	"stocksim/internal/models"
)

type UserStore struct {
	db DB
}

func NewUserStore(db DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, tx Execer, id, username, passwordHash string, cashMinor int64) error {
	query := `
		INSERT INTO users (id, username, password_hash, cash_minor)
		VALUES ($1, $2, $3, $4)
	`
	_, err := tx.ExecContext(ctx, query, id, username, passwordHash, cashMinor)
	return err
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, `
		SELECT id, username, password_hash, cash_minor, created_at
		FROM users
		WHERE username = $1
	`, username)
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *UserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, `
		SELECT id, username, password_hash, cash_minor, created_at
		FROM users
		WHERE id = $1
	`, userID)
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// GetForUpdate locks the user's row for the remainder of the transaction
// so two trades cannot both read the same cash balance.
func (s *UserStore) GetForUpdate(ctx context.Context, tx Getter, userID string) (models.User, error) {
	var user models.User
	err := tx.GetContext(ctx, &user, `
		SELECT id, username, password_hash, cash_minor, created_at
		FROM users
		WHERE id = $1
		FOR UPDATE
	`, userID)
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *UserStore) UpdateCash(ctx context.Context, tx Execer, userID string, cashMinor int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE users
		SET cash_minor = $1
		WHERE id = $2
	`, cashMinor, userID)
	return err
}

func (s *UserStore) UpdatePasswordHash(ctx context.Context, tx Execer, userID, passwordHash string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE users
		SET password_hash = $1
		WHERE id = $2
	`, passwordHash, userID)
	return err
}
