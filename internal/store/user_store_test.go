package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"stocksim/internal/models"
)

func TestUserStoreCreate(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO users") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 4 || args[0] != "user-1" || args[1] != "alice" || args[3] != int64(1000000) {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewUserStore(stubDB{})
	if err := store.Create(ctx, execer, "user-1", "alice", "hash", 1000000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUserStoreGetByUsername(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore(stubDB{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "WHERE username = $1") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 1 || args[0] != "alice" {
				t.Fatalf("unexpected args: %#v", args)
			}
			user := dest.(*models.User)
			*user = models.User{ID: "user-1", Username: "alice", CashMinor: 1000000}
			return nil
		},
	})
	user, err := store.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != "user-1" || user.CashMinor != 1000000 {
		t.Fatalf("unexpected user: %#v", user)
	}
}

func TestUserStoreGetForUpdateLocksRow(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore(stubDB{})
	getter := stubGetter{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "FOR UPDATE") {
				t.Fatalf("expected row lock, got: %s", query)
			}
			user := dest.(*models.User)
			*user = models.User{ID: "user-1", CashMinor: 500}
			return nil
		},
	}
	user, err := store.GetForUpdate(ctx, getter, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.CashMinor != 500 {
		t.Fatalf("unexpected user: %#v", user)
	}
}

func TestUserStoreUpdateCash(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "SET cash_minor = $1") {
				t.Fatalf("unexpected query: %s", query)
			}
			if args[0] != int64(900000) || args[1] != "user-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewUserStore(stubDB{})
	if err := store.UpdateCash(ctx, execer, "user-1", 900000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUserStoreUpdatePasswordHash(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "SET password_hash = $1") {
				t.Fatalf("unexpected query: %s", query)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewUserStore(stubDB{})
	if err := store.UpdatePasswordHash(ctx, execer, "user-1", "new-hash"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
