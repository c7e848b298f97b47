package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"stocksim/internal/models"
)

func TestSessionStoreCreate(t *testing.T) {
	ctx := context.Background()
	expires := time.Now().Add(time.Hour)
	store := NewSessionStore(stubDB{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO sessions") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 3 || args[0] != "session-1" || args[1] != "user-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	})
	if err := store.Create(ctx, "session-1", "user-1", expires); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSessionStoreGet(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore(stubDB{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "FROM sessions") {
				t.Fatalf("unexpected query: %s", query)
			}
			session := dest.(*models.Session)
			*session = models.Session{ID: "session-1", UserID: "user-1"}
			return nil
		},
	})
	session, err := store.Get(ctx, "session-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.UserID != "user-1" {
		t.Fatalf("unexpected session: %#v", session)
	}
}

func TestSessionStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore(stubDB{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "DELETE FROM sessions WHERE id = $1") {
				t.Fatalf("unexpected query: %s", query)
			}
			return stubResult{rows: 1}, nil
		},
	})
	if err := store.Delete(ctx, "session-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSessionStoreDeleteExpired(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore(stubDB{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "expires_at < NOW()") {
				t.Fatalf("unexpected query: %s", query)
			}
			return stubResult{rows: 3}, nil
		},
	})
	if err := store.DeleteExpired(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
