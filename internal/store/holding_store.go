package store

import (
	"context"

	"stocksim/internal/models"
)

type HoldingStore struct {
	db DB
}

func NewHoldingStore(db DB) *HoldingStore {
	return &HoldingStore{db: db}
}

func (s *HoldingStore) GetByUser(ctx context.Context, userID string) ([]models.Holding, error) {
	var rows []models.Holding
	err := s.db.SelectContext(ctx, &rows, `
		SELECT user_id, symbol, name, shares, updated_at
		FROM holdings
		WHERE user_id = $1
		ORDER BY symbol
	`, userID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *HoldingStore) Get(ctx context.Context, userID, symbol string) (models.Holding, error) {
	var row models.Holding
	err := s.db.GetContext(ctx, &row, `
		SELECT user_id, symbol, name, shares, updated_at
		FROM holdings
		WHERE user_id = $1 AND symbol = $2
	`, userID, symbol)
	if err != nil {
		return models.Holding{}, err
	}
	return row, nil
}

// GetForUpdate locks the holding row so a concurrent trade on the same
// symbol waits instead of reading a stale share count. Returns
// sql.ErrNoRows when the user holds none of the symbol.
func (s *HoldingStore) GetForUpdate(ctx context.Context, tx Getter, userID, symbol string) (models.Holding, error) {
	var row models.Holding
	err := tx.GetContext(ctx, &row, `
		SELECT user_id, symbol, name, shares
		FROM holdings
		WHERE user_id = $1 AND symbol = $2
		FOR UPDATE
	`, userID, symbol)
	if err != nil {
		return models.Holding{}, err
	}
	return row, nil
}

// Upsert creates the holding on a first buy or adds delta shares to an
// existing one.
func (s *HoldingStore) Upsert(ctx context.Context, tx Execer, userID, symbol, name string, delta int64) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO holdings (user_id, symbol, name, shares)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, symbol)
		DO UPDATE SET shares = holdings.shares + EXCLUDED.shares, name = EXCLUDED.name, updated_at = NOW()
	`, userID, symbol, name, delta)
	return err
}

func (s *HoldingStore) UpdateShares(ctx context.Context, tx Execer, userID, symbol string, shares int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE holdings
		SET shares = $1, updated_at = NOW()
		WHERE user_id = $2 AND symbol = $3
	`, shares, userID, symbol)
	return err
}

func (s *HoldingStore) Delete(ctx context.Context, tx Execer, userID, symbol string) error {
	_, err := tx.ExecContext(ctx, `
		DELETE FROM holdings
		WHERE user_id = $1 AND symbol = $2
	`, userID, symbol)
	return err
}
