// Package maint implements the backoffice maintenance commands: account
// creation, password resets, settings overrides and schema migrations. Each
// command runs once against the database and exits.
package maint

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/backoffice/internal/logging"
	"github.com/dmitrijs2005/backoffice/internal/server/repositories/repomanager"
)

// ErrUsage marks bad command-line input.
var ErrUsage = errors.New("usage error")

type App struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	in          io.Reader
	out         io.Writer
}

func NewApp(db *sql.DB, m repomanager.RepositoryManager, in io.Reader, out io.Writer, l logging.Logger) *App {
	return &App{db: db, repomanager: m, in: in, out: out, logger: l.With("module", "maint")}
}

const usage = `Commands:
  create-user -username NAME -email EMAIL [-role admin|staff|viewer] [-image KEY] [-password-stdin]
  set-password -username NAME [-password-stdin]
  set-setting KEY=VALUE [KEY=VALUE ...]
  delete-setting KEY
  gen-secret
  migrate`

// Run dispatches args[0] to the matching command.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, usage)
		return ErrUsage
	}

	cmd, rest := args[0], args[1:]

	var err error
	switch cmd {
	case "create-user":
		err = a.createUser(ctx, rest)
	case "set-password":
		err = a.setPassword(ctx, rest)
	case "set-setting":
		err = a.setSettings(ctx, rest)
	case "delete-setting":
		err = a.deleteSetting(ctx, rest)
	case "gen-secret":
		err = a.genSecret()
	case "migrate":
		err = a.repomanager.RunMigrations(ctx, a.db)
		if err == nil {
			fmt.Fprintln(a.out, "migrations applied")
		}
	case "help", "-h", "--help":
		fmt.Fprintln(a.out, usage)
		return nil
	default:
		fmt.Fprintf(a.out, "unknown command %q\n%s\n", cmd, usage)
		return ErrUsage
	}

	if err != nil {
		a.logger.Error(ctx, "command failed", "command", cmd, "err", err)
	}
	return err
}

func parsePair(s string) (string, string, error) {
	k, v, ok := strings.Cut(s, "=")
	if !ok || k == "" {
		return "", "", fmt.Errorf("%w: expected KEY=VALUE, got %q", ErrUsage, s)
	}
	return k, v, nil
}
