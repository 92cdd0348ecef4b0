// Package users provides the PostgreSQL-backed user repository.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/backoffice/internal/common"
	"github.com/dmitrijs2005/backoffice/internal/dbx"
	"github.com/dmitrijs2005/backoffice/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (username, email, role, password_hash, profile_image)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.Email, user.Role, user.PasswordHash, user.ProfileImage).Scan(&user.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query :=
		`SELECT id, username, email, role, password_hash, profile_image FROM users
		 WHERE username = $1`

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, username).
		Scan(&user.ID, &user.Username, &user.Email, &user.Role, &user.PasswordHash, &user.ProfileImage)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// GetProfileByID is the single parameterised profile lookup keyed by the
// session identity.
func (r *PostgresRepository) GetProfileByID(ctx context.Context, id int64) (*models.Profile, error) {
	query :=
		`SELECT id, username, email, role, profile_image FROM users
		 WHERE id = $1`

	var (
		p     models.Profile
		image sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Username, &p.Email, &p.Role, &image)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	p.ProfileImage = image.String

	return &p, nil
}

func (r *PostgresRepository) SetPassword(ctx context.Context, username string, hash []byte) error {
	query := `UPDATE users SET password_hash = $2 WHERE username = $1`

	res, err := r.db.ExecContext(ctx, query, username, hash)
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
