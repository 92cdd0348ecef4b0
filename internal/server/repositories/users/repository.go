package users

import (
	"context"

	"github.com/dmitrijs2005/backoffice/internal/server/models"
)

// Repository is the user store. Lookups return common.ErrorNotFound for a
// zero-row result.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetProfileByID(ctx context.Context, id int64) (*models.Profile, error)
	SetPassword(ctx context.Context, username string, hash []byte) error
}
