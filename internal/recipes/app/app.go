package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Leopold1975/recipes_control/internal/pkg/config"
	"github.com/Leopold1975/recipes_control/internal/pkg/pgtools"
	"github.com/Leopold1975/recipes_control/internal/recipes/api/server"
	"github.com/Leopold1975/recipes_control/internal/recipes/repository/catalogrepo"
	catalogpg "github.com/Leopold1975/recipes_control/internal/recipes/repository/catalogrepo/postgres"
	"github.com/Leopold1975/recipes_control/internal/recipes/repository/imagestore/disk"
	s3store "github.com/Leopold1975/recipes_control/internal/recipes/repository/imagestore/s3"
	recipepg "github.com/Leopold1975/recipes_control/internal/recipes/repository/reciperepo/postgres"
	userpg "github.com/Leopold1975/recipes_control/internal/recipes/repository/userrepo/postgres"
	"github.com/Leopold1975/recipes_control/internal/recipes/services/authservice"
	"github.com/Leopold1975/recipes_control/internal/recipes/services/catalogservice"
	"github.com/Leopold1975/recipes_control/internal/recipes/services/recipeservice"
	"github.com/Leopold1975/recipes_control/pkg/logger"
)

type Server interface {
	Start(context.Context) error
	Shutdown(context.Context) error
}

type RecipesApp struct {
	s   Server
	lg  logger.Logger
	cfg config.Config
}

func New(ctx context.Context, cfg config.Config) (RecipesApp, error) {
	lg, err := logger.New(cfg.Logger)
	if err != nil {
		return RecipesApp{}, fmt.Errorf("can't get logger error: %w", err)
	}

	db, err := pgtools.Connect(ctx, cfg.PostgresDB)
	if err != nil {
		return RecipesApp{}, fmt.Errorf("connect to db error: %w", err)
	}

	if err := pgtools.ApplyMigration(cfg.PostgresDB); err != nil {
		return RecipesApp{}, fmt.Errorf("apply migration error: %w", err)
	}

	authService := authservice.New(userpg.New(db))

	catalogService := catalogservice.New(
		catalogpg.New(db, catalogrepo.Tags),
		catalogpg.New(db, catalogrepo.Ingredients),
	)

	images, err := newImageStore(ctx, cfg.Storage)
	if err != nil {
		return RecipesApp{}, fmt.Errorf("image store initializing error: %w", err)
	}

	recipeService := recipeservice.New(recipepg.New(db), images, lg)

	s := server.New(cfg.Server, authService, catalogService, recipeService, lg)

	return RecipesApp{
		s:   s,
		lg:  lg,
		cfg: cfg,
	}, nil
}

func newImageStore(ctx context.Context, cfg config.Storage) (recipeservice.ImageStore, error) {
	if cfg.Backend == "s3" {
		return s3store.New(ctx, cfg.S3) //nolint:wrapcheck
	}

	return disk.New(cfg) //nolint:wrapcheck
}

func (ra *RecipesApp) Run(ctx context.Context) {
	ra.lg.Infof("STARTED SERVER ON %s", ra.cfg.Server.Addr)

	go func() {
		if err := ra.s.Start(ctx); err != nil {
			ra.lg.Errorf("server start error: %s", err.Error())
			ctx.Done()

			return
		}
	}()

	<-ctx.Done()

	ctxS, cancel := context.WithTimeout(context.Background(), time.Second*5) //nolint:gomnd
	defer cancel()

	if err := ra.Stop(ctxS); err != nil { //nolint:contextcheck
		ra.lg.Errorf("server shutdown error: %s", err.Error())
	}
}

func (ra *RecipesApp) Stop(ctx context.Context) error {
	if err := ra.s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	ra.lg.Info("Shutdowned successfully")

	return nil
}
