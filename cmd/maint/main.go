package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/backoffice/internal/logging"
	"github.com/dmitrijs2005/backoffice/internal/maint"
	"github.com/dmitrijs2005/backoffice/internal/server/config"
	"github.com/dmitrijs2005/backoffice/internal/server/repositories/repomanager"
)

func main() {
	os.Exit(run())
}

func run() int {
	defaults := &config.Config{}
	defaults.LoadDefaults()
	dsn := defaults.DatabaseDSN
	if v, ok := os.LookupEnv("DATABASE_DSN"); ok {
		dsn = v
	}

	fs := flag.NewFlagSet("maint", flag.ContinueOnError)
	fs.StringVar(&dsn, "d", dsn, "database DSN (env DATABASE_DSN)")
	level := fs.String("log-level", "info", "debug, info, warn or error")
	if err := fs.Parse(os.Args[1:]); err != nil {
		return 2
	}

	logger := logging.NewTextLogger(os.Stderr, logging.ParseLevel(*level))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := repomanager.Open(ctx, dsn, 10*time.Second)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer db.Close()

	app := maint.NewApp(db, repomanager.NewPostgresRepositoryManager(), os.Stdin, os.Stdout, logger)
	if err := app.Run(ctx, fs.Args()); err != nil {
		if errors.Is(err, maint.ErrUsage) {
			return 2
		}
		return 1
	}
	return 0
}
