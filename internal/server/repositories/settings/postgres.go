// Package settings provides a PostgreSQL-backed repository for persisted
// setting overrides.
package settings

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/backoffice/internal/common"
	"github.com/dmitrijs2005/backoffice/internal/dbx"
	"github.com/dmitrijs2005/backoffice/internal/server/models"
)

// PostgresRepository works over dbx.DBTX (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// All returns every persisted row ordered by key.
func (r *PostgresRepository) All(ctx context.Context) ([]models.Setting, error) {
	query := `SELECT key, value, updated_at FROM settings ORDER BY key`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.Setting
	for rows.Next() {
		var s models.Setting
		if err := rows.Scan(&s.Key, &s.Value, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return out, nil
}

// Upsert inserts key or overwrites its value.
func (r *PostgresRepository) Upsert(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO settings (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`
	if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Delete removes an override; the compiled default applies again afterwards.
func (r *PostgresRepository) Delete(ctx context.Context, key string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM settings WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
