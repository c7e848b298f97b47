package models

import "time"

type User struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	CashMinor    int64     `db:"cash_minor"`
	CreatedAt    time.Time `db:"created_at"`
}

// Holding is a user's current position in one symbol. The row exists only
// while shares > 0.
type Holding struct {
	UserID    string    `db:"user_id"`
	Symbol    string    `db:"symbol"`
	Name      string    `db:"name"`
	Shares    int64     `db:"shares"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Trade is one append-only ledger row. Shares are signed: positive for a
// buy, negative for a sell.
type Trade struct {
	ID         string    `db:"id"`
	UserID     string    `db:"user_id"`
	Symbol     string    `db:"symbol"`
	Name       string    `db:"name"`
	Shares     int64     `db:"shares"`
	PriceMinor int64     `db:"price_minor"`
	TotalMinor int64     `db:"total_minor"`
	CreatedAt  time.Time `db:"created_at"`
}

type Session struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
}
