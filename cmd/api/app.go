package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/fureverhome/fureverhome-go/internal/config"
	"github.com/fureverhome/fureverhome-go/internal/logger"
	"github.com/fureverhome/fureverhome-go/internal/repository"
)

// app holds the process-wide dependencies every command starts from.
type app struct {
	cfg config.Config
	log *zap.Logger
	db  *sql.DB
}

func newApp(ctx context.Context) (*app, error) {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	if envErr != nil {
		log.Debug("no .env file found, using environment variables")
	}

	db, err := repository.NewDB(ctx, cfg.DatabaseDSN, log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	return &app{cfg: cfg, log: log, db: db}, nil
}

func (a *app) Close() {
	a.db.Close()
	a.log.Sync()
}
