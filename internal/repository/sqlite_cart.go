package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nikolayk812/cartsim/internal/domain"
	"github.com/nikolayk812/cartsim/internal/port"
	_ "modernc.org/sqlite"
)

const (
	selectSlot = `SELECT value FROM kv_slots WHERE key = ?`
	upsertSlot = `INSERT INTO kv_slots (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
)

type sqliteCartRepository struct {
	db *sql.DB
}

// OpenSQLite opens the slot database at path and applies its migrations.
func OpenSQLite(path string) (*sql.DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}

	// sqlite allows a single writer
	sqlDB.SetMaxOpenConns(1)

	if err := MigrateSQLite(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("MigrateSQLite: %w", err)
	}

	return sqlDB, nil
}

// NewSQLiteCart stores each cart as one JSON value keyed by owner, the same
// shape a browser keeps in localStorage.
func NewSQLiteCart(db *sql.DB) port.CartRepository {
	return &sqliteCartRepository{db: db}
}

func (r *sqliteCartRepository) GetCart(ctx context.Context, ownerID string) (domain.Cart, error) {
	if ownerID == "" {
		return domain.Cart{}, fmt.Errorf("ownerID is empty")
	}

	var value string
	err := r.db.QueryRowContext(ctx, selectSlot, ownerID).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Cart{OwnerID: ownerID, Lines: []domain.CartLine{}}, nil
	}
	if err != nil {
		return domain.Cart{}, fmt.Errorf("db.QueryRowContext: %w", err)
	}

	lines, err := decodeLines([]byte(value))
	if err != nil {
		return domain.Cart{}, fmt.Errorf("decodeLines: %w", err)
	}

	return domain.Cart{OwnerID: ownerID, Lines: lines}, nil
}

func (r *sqliteCartRepository) SaveCart(ctx context.Context, cart domain.Cart) error {
	if cart.OwnerID == "" {
		return fmt.Errorf("ownerID is empty")
	}

	data, err := encodeLines(cart.Lines)
	if err != nil {
		return fmt.Errorf("encodeLines: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, upsertSlot, cart.OwnerID, string(data)); err != nil {
		return fmt.Errorf("db.ExecContext: %w", err)
	}

	return nil
}
