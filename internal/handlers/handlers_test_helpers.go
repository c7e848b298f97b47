package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"stocksim/internal/auth"
	"stocksim/internal/config"
	"stocksim/internal/middleware"
	"stocksim/internal/models"
	"stocksim/internal/quote"
	"stocksim/internal/services"
	"stocksim/internal/store"
	"stocksim/internal/websocket"

	"github.com/jmoiron/sqlx"
)

const testSecret = "test-secret"

type fakeTxRunner struct {
	withTxFn func(ctx context.Context, fn func(*sqlx.Tx) error) error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.withTxFn != nil {
		return f.withTxFn(ctx, fn)
	}
	return fn(nil)
}

type stubUserStore struct {
	createFn             func(ctx context.Context, tx store.Execer, id, username, passwordHash string, cashMinor int64) error
	getByUsernameFn      func(ctx context.Context, username string) (models.User, error)
	getByIDFn            func(ctx context.Context, userID string) (models.User, error)
	updatePasswordHashFn func(ctx context.Context, tx store.Execer, userID, passwordHash string) error
}

func (s stubUserStore) Create(ctx context.Context, tx store.Execer, id, username, passwordHash string, cashMinor int64) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, id, username, passwordHash, cashMinor)
}

func (s stubUserStore) GetByUsername(ctx context.Context, username string) (models.User, error) {
	if s.getByUsernameFn == nil {
		return models.User{}, nil
	}
	return s.getByUsernameFn(ctx, username)
}

func (s stubUserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	if s.getByIDFn == nil {
		return models.User{}, nil
	}
	return s.getByIDFn(ctx, userID)
}

func (s stubUserStore) UpdatePasswordHash(ctx context.Context, tx store.Execer, userID, passwordHash string) error {
	if s.updatePasswordHashFn == nil {
		return nil
	}
	return s.updatePasswordHashFn(ctx, tx, userID, passwordHash)
}

type stubHoldingStore struct {
	getByUserFn func(ctx context.Context, userID string) ([]models.Holding, error)
}

func (s stubHoldingStore) GetByUser(ctx context.Context, userID string) ([]models.Holding, error) {
	if s.getByUserFn == nil {
		return nil, nil
	}
	return s.getByUserFn(ctx, userID)
}

type stubTradeStore struct {
	listByUserFn func(ctx context.Context, userID string) ([]models.Trade, error)
}

func (s stubTradeStore) ListByUser(ctx context.Context, userID string) ([]models.Trade, error) {
	if s.listByUserFn == nil {
		return nil, nil
	}
	return s.listByUserFn(ctx, userID)
}

type stubSessionStore struct {
	createFn        func(ctx context.Context, id, userID string, expiresAt time.Time) error
	getFn           func(ctx context.Context, id string) (models.Session, error)
	deleteFn        func(ctx context.Context, id string) error
	deleteExpiredFn func(ctx context.Context) error
}

func (s stubSessionStore) Create(ctx context.Context, id, userID string, expiresAt time.Time) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, id, userID, expiresAt)
}

func (s stubSessionStore) Get(ctx context.Context, id string) (models.Session, error) {
	if s.getFn == nil {
		return models.Session{ID: id, UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour)}, nil
	}
	return s.getFn(ctx, id)
}

func (s stubSessionStore) Delete(ctx context.Context, id string) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, id)
}

func (s stubSessionStore) DeleteExpired(ctx context.Context) error {
	if s.deleteExpiredFn == nil {
		return nil
	}
	return s.deleteExpiredFn(ctx)
}

type stubQuotes struct {
	lookupFn func(ctx context.Context, symbol string) (quote.Quote, error)
}

func (s stubQuotes) Lookup(ctx context.Context, symbol string) (quote.Quote, error) {
	return s.lookupFn(ctx, symbol)
}

type stubService struct {
	buyFn  func(ctx context.Context, userID string, q quote.Quote, shares int64) (services.TradeResult, error)
	sellFn func(ctx context.Context, userID string, q quote.Quote, shares int64) (services.TradeResult, error)
}

func (s stubService) Buy(ctx context.Context, userID string, q quote.Quote, shares int64) (services.TradeResult, error) {
	if s.buyFn == nil {
		return services.TradeResult{}, nil
	}
	return s.buyFn(ctx, userID, q, shares)
}

func (s stubService) Sell(ctx context.Context, userID string, q quote.Quote, shares int64) (services.TradeResult, error) {
	if s.sellFn == nil {
		return services.TradeResult{}, nil
	}
	return s.sellFn(ctx, userID, q, shares)
}

func newTestHandler(txRunner fakeTxRunner, users stubUserStore, holdings stubHoldingStore, trades stubTradeStore, sessions stubSessionStore, quotes stubQuotes, service stubService) *Handler {
	cfg := config.Config{
		SessionSecret: testSecret,
		SessionTTL:    time.Hour,
	}
	return New(cfg, txRunner, users, holdings, trades, sessions, quotes, service, websocket.NewHub())
}

func formRequest(t *testing.T, target string, form url.Values) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// withSession runs the handler behind the real session middleware, the way
// the router mounts it, using a valid signed cookie for session-1/user-1.
func withSession(t *testing.T, h *Handler, handlerFn http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	token, err := auth.GenerateToken(testSecret, "session-1", time.Hour)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	req.AddCookie(&http.Cookie{Name: middleware.CookieName, Value: token})
	rr := httptest.NewRecorder()
	middleware.Session(testSecret, h.sessions)(handlerFn).ServeHTTP(rr, req)
	return rr
}
