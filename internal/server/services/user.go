// Package services contains server-side business logic: session login and
// profile lookup (UserService) and the settings resolver (SettingsService).
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/backoffice/internal/common"
	"github.com/dmitrijs2005/backoffice/internal/logging"
	"github.com/dmitrijs2005/backoffice/internal/server/auth"
	"github.com/dmitrijs2005/backoffice/internal/server/models"
	"github.com/dmitrijs2005/backoffice/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer is the part of auth.TokenCodec used at login.
type TokenIssuer interface {
	Issue(id auth.Identity) (string, error)
}

// ImageURLSigner turns a stored profile image key into a temporary URL.
type ImageURLSigner interface {
	PresignGet(ctx context.Context, key string) (string, error)
}

// dummyHash is compared against when the username is unknown so both
// failure paths pay the bcrypt cost.
var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("backoffice-dummy-password"), bcrypt.DefaultCost)
	return h
})

// UserService provides the operations behind the session endpoints:
// - Login: verify credentials and issue a session token
// - Profile: fetch the profile row for an authenticated identity
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	issuer      TokenIssuer
	images      ImageURLSigner
	logger      logging.Logger
}

// NewUserService constructs a UserService. images may be nil when no object
// store is configured.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, issuer TokenIssuer, images ImageURLSigner, l logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		issuer:      issuer,
		images:      images,
		logger:      l.With("module", "users"),
	}
}

// Login checks username/password and returns a signed session token. Unknown
// users and wrong passwords both yield common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, username, password string) (string, auth.Identity, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
			return "", auth.Identity{}, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "user lookup failed", "err", err)
		return "", auth.Identity{}, common.ErrorInternal
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return "", auth.Identity{}, common.ErrorUnauthorized
	}

	id := auth.Identity{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     auth.Role(user.Role),
	}

	token, err := s.issuer.Issue(id)
	if err != nil {
		s.logger.Error(ctx, "token issue failed", "user_id", user.ID, "err", err)
		return "", auth.Identity{}, common.ErrorInternal
	}

	s.logger.Info(ctx, "login", "user_id", user.ID, "role", user.Role)
	return token, id, nil
}

// Profile returns the stored profile for id. A missing row is
// common.ErrorNotFound, distinct from an unauthenticated caller.
func (s *UserService) Profile(ctx context.Context, id auth.Identity) (*models.Profile, error) {
	p, err := s.repomanager.Users(s.db).GetProfileByID(ctx, id.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	if s.images != nil && p.ProfileImage != "" {
		url, err := s.images.PresignGet(ctx, p.ProfileImage)
		if err != nil {
			s.logger.Warn(ctx, "profile image url unavailable", "user_id", p.ID, "err", err)
		} else {
			p.ProfileImageURL = url
		}
	}

	return p, nil
}

// HashPassword hashes a plaintext password for storage.
func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}
