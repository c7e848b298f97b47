package handlers

import (
	"context"
	"time"

	"stocksim/internal/models"
	"stocksim/internal/quote"
	"stocksim/internal/services"
	"stocksim/internal/store"
)

type UserStore interface {
	Create(ctx context.Context, tx store.Execer, id, username, passwordHash string, cashMinor int64) error
	GetByUsername(ctx context.Context, username string) (models.User, error)
	GetByID(ctx context.Context, userID string) (models.User, error)
	UpdatePasswordHash(ctx context.Context, tx store.Execer, userID, passwordHash string) error
}

type HoldingStore interface {
	GetByUser(ctx context.Context, userID string) ([]models.Holding, error)
}

type TradeStore interface {
	ListByUser(ctx context.Context, userID string) ([]models.Trade, error)
}

type SessionStore interface {
	Create(ctx context.Context, id, userID string, expiresAt time.Time) error
	Get(ctx context.Context, id string) (models.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) error
}

type QuoteLookup interface {
	Lookup(ctx context.Context, symbol string) (quote.Quote, error)
}

type TradeService interface {
	Buy(ctx context.Context, userID string, q quote.Quote, shares int64) (services.TradeResult, error)
	Sell(ctx context.Context, userID string, q quote.Quote, shares int64) (services.TradeResult, error)
}
