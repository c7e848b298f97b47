package store

import (
	"context"

	"stocksim/internal/models"
)

// TradeStore is the append-only ledger. Rows are inserted inside the trade
// transaction and never updated or deleted.
type TradeStore struct {
	db DB
}

func NewTradeStore(db DB) *TradeStore {
	return &TradeStore{db: db}
}

type TradeInput struct {
	ID         string
	UserID     string
	Symbol     string
	Name       string
	Shares     int64
	PriceMinor int64
	TotalMinor int64
}

func (s *TradeStore) Insert(ctx context.Context, tx Execer, input TradeInput) error {
	query := `
		INSERT INTO trades (id, user_id, symbol, name, shares, price_minor, total_minor)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.UserID, input.Symbol, input.Name, input.Shares, input.PriceMinor, input.TotalMinor,
	)
	return err
}

func (s *TradeStore) ListByUser(ctx context.Context, userID string) ([]models.Trade, error) {
	var rows []models.Trade
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, symbol, name, shares, price_minor, total_minor, created_at
		FROM trades
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
