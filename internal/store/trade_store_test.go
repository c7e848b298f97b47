package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"stocksim/internal/models"
)

func TestTradeStoreInsert(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO trades") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 7 {
				t.Fatalf("unexpected args: %#v", args)
			}
			if args[4] != int64(-10) || args[5] != int64(12000) || args[6] != int64(120000) {
				t.Fatalf("unexpected trade values: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewTradeStore(stubDB{})
	err := store.Insert(ctx, execer, TradeInput{
		ID:         "trade-1",
		UserID:     "user-1",
		Symbol:     "NFLX",
		Name:       "Netflix Inc",
		Shares:     -10,
		PriceMinor: 12000,
		TotalMinor: 120000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTradeStoreListByUserNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewTradeStore(stubDB{
		selectFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "ORDER BY created_at DESC") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 1 || args[0] != "user-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			rows := dest.(*[]models.Trade)
			*rows = []models.Trade{{ID: "trade-2"}, {ID: "trade-1"}}
			return nil
		},
	})
	rows, err := store.ListByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 || rows[0].ID != "trade-2" {
		t.Fatalf("unexpected rows: %#v", rows)
	}
}
