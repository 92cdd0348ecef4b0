package maint

import (
	"context"
	"database/sql"
	"flag"
	"fmt"

	"github.com/dmitrijs2005/backoffice/internal/common"
	"github.com/dmitrijs2005/backoffice/internal/dbx"
	"github.com/dmitrijs2005/backoffice/internal/server/auth"
	"github.com/dmitrijs2005/backoffice/internal/server/models"
	"github.com/dmitrijs2005/backoffice/internal/server/services"
)

func (a *App) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

func (a *App) password(fromStdin bool) (string, error) {
	var (
		pw  string
		err error
	)
	if fromStdin {
		pw, err = readPasswordLine(a.in)
	} else {
		pw, err = promptPassword(a.out)
	}
	if err != nil {
		return "", err
	}
	if pw == "" {
		return "", fmt.Errorf("%w: empty password", ErrUsage)
	}
	return pw, nil
}

func (a *App) createUser(ctx context.Context, args []string) error {
	fs := a.newFlagSet("create-user")
	username := fs.String("username", "", "login name")
	email := fs.String("email", "", "email address")
	role := fs.String("role", string(auth.RoleViewer), "admin, staff or viewer")
	image := fs.String("image", "", "profile image object key")
	fromStdin := fs.Bool("password-stdin", false, "read the password from stdin")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	if *username == "" || *email == "" {
		return fmt.Errorf("%w: -username and -email are required", ErrUsage)
	}
	if !auth.KnownRole(auth.Role(*role)) {
		return fmt.Errorf("%w: unknown role %q", ErrUsage, *role)
	}

	pw, err := a.password(*fromStdin)
	if err != nil {
		return err
	}
	hash, err := services.HashPassword(pw)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	u, err := a.repomanager.Users(a.db).Create(ctx, &models.User{
		Username:     *username,
		Email:        *email,
		Role:         *role,
		PasswordHash: hash,
		ProfileImage: sql.NullString{String: *image, Valid: *image != ""},
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "created user %s (id=%d, role=%s)\n", u.Username, u.ID, u.Role)
	return nil
}

func (a *App) setPassword(ctx context.Context, args []string) error {
	fs := a.newFlagSet("set-password")
	username := fs.String("username", "", "login name")
	fromStdin := fs.Bool("password-stdin", false, "read the password from stdin")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if *username == "" {
		return fmt.Errorf("%w: -username is required", ErrUsage)
	}

	pw, err := a.password(*fromStdin)
	if err != nil {
		return err
	}
	hash, err := services.HashPassword(pw)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := a.repomanager.Users(a.db).SetPassword(ctx, *username, hash); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "password updated for %s\n", *username)
	return nil
}

// setSettings writes every pair in one transaction; one bad pair writes none.
func (a *App) setSettings(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: at least one KEY=VALUE is required", ErrUsage)
	}

	defaults := services.DefaultSettings()
	keys := make([]string, 0, len(args))
	values := make(map[string]string, len(args))
	for _, arg := range args {
		k, v, err := parsePair(arg)
		if err != nil {
			return err
		}
		if _, ok := defaults[k]; !ok {
			return fmt.Errorf("%w: unknown setting %q", ErrUsage, k)
		}
		if _, seen := values[k]; !seen {
			keys = append(keys, k)
		}
		values[k] = v
	}

	err := dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := a.repomanager.Settings(tx)
		for _, k := range keys {
			if err := repo.Upsert(ctx, k, values[k]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, k := range keys {
		fmt.Fprintf(a.out, "%s=%s\n", k, values[k])
	}
	return nil
}

func (a *App) deleteSetting(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: exactly one KEY is required", ErrUsage)
	}
	if err := a.repomanager.Settings(a.db).Delete(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s reset to default (%s)\n", args[0], services.DefaultSettings()[args[0]])
	return nil
}

// genSecret prints a random 256-bit key suitable for SECRET_KEY.
func (a *App) genSecret() error {
	s, err := common.MakeRandHexString(32)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, s)
	return nil
}
