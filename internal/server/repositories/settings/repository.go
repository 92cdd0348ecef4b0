package settings

import (
	"context"

	"github.com/dmitrijs2005/backoffice/internal/server/models"
)

// Repository stores key/value overrides for the compiled-in settings.
type Repository interface {
	All(ctx context.Context) ([]models.Setting, error)
	Upsert(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
