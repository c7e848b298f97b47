package services

import (
	"context"
	"database/sql"
	"errors"
	"math"

	"stocksim/internal/db"
	"stocksim/internal/models"
	"stocksim/internal/money"
	"stocksim/internal/quote"
	"stocksim/internal/store"
	"stocksim/internal/websocket"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrInvalidShareCount  = errors.New("share count must be a positive number")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrNoHolding          = errors.New("no shares of this symbol held")
	ErrInsufficientShares = errors.New("insufficient shares")
)

type UserStore interface {
	GetForUpdate(ctx context.Context, tx store.Getter, userID string) (models.User, error)
	UpdateCash(ctx context.Context, tx store.Execer, userID string, cashMinor int64) error
}

type HoldingStore interface {
	GetForUpdate(ctx context.Context, tx store.Getter, userID, symbol string) (models.Holding, error)
	Upsert(ctx context.Context, tx store.Execer, userID, symbol, name string, delta int64) error
	UpdateShares(ctx context.Context, tx store.Execer, userID, symbol string, shares int64) error
	Delete(ctx context.Context, tx store.Execer, userID, symbol string) error
}

type TradeStore interface {
	Insert(ctx context.Context, tx store.Execer, input store.TradeInput) error
}

type PortfolioHub interface {
	BroadcastPortfolio(userID string, update websocket.PortfolioUpdate)
}

// TradeService holds the ledger logic: each Buy or Sell validates the
// request, then applies the trade row, the holding change and the cash
// move as one serializable transaction. The user row is always locked
// before the holding row so concurrent trades cannot deadlock.
type TradeService struct {
	txRunner db.TxRunner
	users    UserStore
	holdings HoldingStore
	trades   TradeStore
	hub      PortfolioHub
}

func NewTradeService(txRunner db.TxRunner, users UserStore, holdings HoldingStore, trades TradeStore, hub PortfolioHub) *TradeService {
	return &TradeService{
		txRunner: txRunner,
		users:    users,
		holdings: holdings,
		trades:   trades,
		hub:      hub,
	}
}

// TradeResult reports the ledger state after a committed trade.
type TradeResult struct {
	TradeID    string
	CashMinor  int64
	Shares     int64
	TotalMinor int64
}

// tradeTotal computes price*shares in minor units. A share count large
// enough to wrap int64 would otherwise slip past the affordability check
// as a tiny positive total.
func tradeTotal(priceMinor, shares int64) (int64, error) {
	if priceMinor > 0 && shares > math.MaxInt64/priceMinor {
		return 0, ErrInvalidShareCount
	}
	return priceMinor * shares, nil
}

func (s *TradeService) Buy(ctx context.Context, userID string, q quote.Quote, shares int64) (TradeResult, error) {
	if shares <= 0 {
		return TradeResult{}, ErrInvalidShareCount
	}
	priceMinor, err := money.FromDecimal(q.Price)
	if err != nil {
		return TradeResult{}, err
	}
	total, err := tradeTotal(priceMinor, shares)
	if err != nil {
		return TradeResult{}, err
	}

	var result TradeResult
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		user, err := s.users.GetForUpdate(ctx, tx, userID)
		if err != nil {
			return err
		}
		if total > user.CashMinor {
			return ErrInsufficientFunds
		}

		newShares := shares
		holding, err := s.holdings.GetForUpdate(ctx, tx, userID, q.Symbol)
		switch {
		case err == nil:
			newShares = holding.Shares + shares
		case errors.Is(err, sql.ErrNoRows):
			// first buy of this symbol
		default:
			return err
		}

		tradeID := uuid.NewString()
		if err := s.trades.Insert(ctx, tx, store.TradeInput{
			ID:         tradeID,
			UserID:     userID,
			Symbol:     q.Symbol,
			Name:       q.Name,
			Shares:     shares,
			PriceMinor: priceMinor,
			TotalMinor: total,
		}); err != nil {
			return err
		}
		if err := s.holdings.Upsert(ctx, tx, userID, q.Symbol, q.Name, shares); err != nil {
			return err
		}
		if err := s.users.UpdateCash(ctx, tx, userID, user.CashMinor-total); err != nil {
			return err
		}
		result = TradeResult{
			TradeID:    tradeID,
			CashMinor:  user.CashMinor - total,
			Shares:     newShares,
			TotalMinor: total,
		}
		return nil
	})
	if err != nil {
		return TradeResult{}, err
	}
	s.broadcast(userID, q.Symbol, result)
	return result, nil
}

func (s *TradeService) Sell(ctx context.Context, userID string, q quote.Quote, shares int64) (TradeResult, error) {
	if shares <= 0 {
		return TradeResult{}, ErrInvalidShareCount
	}
	priceMinor, err := money.FromDecimal(q.Price)
	if err != nil {
		return TradeResult{}, err
	}
	total, err := tradeTotal(priceMinor, shares)
	if err != nil {
		return TradeResult{}, err
	}

	var result TradeResult
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		user, err := s.users.GetForUpdate(ctx, tx, userID)
		if err != nil {
			return err
		}
		holding, err := s.holdings.GetForUpdate(ctx, tx, userID, q.Symbol)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNoHolding
		}
		if err != nil {
			return err
		}
		if shares > holding.Shares {
			return ErrInsufficientShares
		}

		tradeID := uuid.NewString()
		if err := s.trades.Insert(ctx, tx, store.TradeInput{
			ID:         tradeID,
			UserID:     userID,
			Symbol:     q.Symbol,
			Name:       q.Name,
			Shares:     -shares,
			PriceMinor: priceMinor,
			TotalMinor: total,
		}); err != nil {
			return err
		}
		if shares == holding.Shares {
			if err := s.holdings.Delete(ctx, tx, userID, q.Symbol); err != nil {
				return err
			}
		} else {
			if err := s.holdings.UpdateShares(ctx, tx, userID, q.Symbol, holding.Shares-shares); err != nil {
				return err
			}
		}
		if err := s.users.UpdateCash(ctx, tx, userID, user.CashMinor+total); err != nil {
			return err
		}
		result = TradeResult{
			TradeID:    tradeID,
			CashMinor:  user.CashMinor + total,
			Shares:     holding.Shares - shares,
			TotalMinor: total,
		}
		return nil
	})
	if err != nil {
		return TradeResult{}, err
	}
	s.broadcast(userID, q.Symbol, result)
	return result, nil
}

func (s *TradeService) broadcast(userID, symbol string, result TradeResult) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastPortfolio(userID, websocket.PortfolioUpdate{
		Symbol: symbol,
		Shares: result.Shares,
		Cash:   money.USD(result.CashMinor),
	})
}
