package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/backoffice/internal/common"
	"github.com/dmitrijs2005/backoffice/internal/dbx"
	"github.com/dmitrijs2005/backoffice/internal/server/models"
	settingsrepo "github.com/dmitrijs2005/backoffice/internal/server/repositories/settings"
	usersrepo "github.com/dmitrijs2005/backoffice/internal/server/repositories/users"
)

type fakeUsersRepo struct {
	byName    map[string]*models.User
	byNameErr error

	profile    *models.Profile
	profileErr error
	profileArg int64
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	return u, nil
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if f.byNameErr != nil {
		return nil, f.byNameErr
	}
	u, ok := f.byName[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) GetProfileByID(ctx context.Context, id int64) (*models.Profile, error) {
	f.profileArg = id
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	cp := *f.profile
	return &cp, nil
}

func (f *fakeUsersRepo) SetPassword(ctx context.Context, username string, hash []byte) error {
	return nil
}

type fakeSettingsRepo struct {
	rows   []models.Setting
	allErr error
	calls  int

	upserted  map[string]string
	upsertErr error
	deleteErr error
	sawCtx    context.Context
}

func (f *fakeSettingsRepo) All(ctx context.Context) ([]models.Setting, error) {
	f.calls++
	f.sawCtx = ctx
	if f.allErr != nil {
		return nil, f.allErr
	}
	return f.rows, nil
}

func (f *fakeSettingsRepo) Upsert(ctx context.Context, key, value string) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	if f.upserted == nil {
		f.upserted = map[string]string{}
	}
	f.upserted[key] = value
	return nil
}

func (f *fakeSettingsRepo) Delete(ctx context.Context, key string) error {
	return f.deleteErr
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	s *fakeSettingsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository { return m.u }

func (m *fakeRepoManager) Settings(db dbx.DBTX) settingsrepo.Repository { return m.s }

var errDBDown = errors.New("db down")
