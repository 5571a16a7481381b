package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/docflow/docflow/config"
	"github.com/docflow/docflow/internal/api"
	"github.com/docflow/docflow/internal/api/handlers"
	"github.com/docflow/docflow/internal/core/approval"
	"github.com/docflow/docflow/internal/core/auth"
	"github.com/docflow/docflow/internal/core/document"
	"github.com/docflow/docflow/internal/core/listing"
	"github.com/docflow/docflow/internal/core/template"
	"github.com/docflow/docflow/internal/core/validation"
	"github.com/docflow/docflow/internal/fixtures"
	"github.com/docflow/docflow/internal/logging"
	"github.com/docflow/docflow/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	// Validate critical configuration
	if cfg.JWT.Secret == "" {
		return errors.New("JWT_SECRET environment variable is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, closeStore, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// Initialize services
	validator := validation.NewValidator()
	sorter := listing.NewSorter(cfg.Listing.Collation)
	authService := auth.NewService(repos.Users, &cfg.JWT, logger)
	templateService := template.NewService(repos.Templates, validator, sorter, logger)
	templateService.SetUsageCounter(repos.Documents)
	documentService := document.NewService(repos.Documents, templateService, validator, sorter, logger)
	approvalService := approval.NewService(repos.Approvals, documentService, authService, sorter, logger)

	// Initialize handlers
	views := listing.NewStore()
	router := api.NewRouter(
		authService,
		handlers.NewAuthHandler(authService, views, logger),
		handlers.NewDocumentHandler(documentService, logger),
		handlers.NewTemplateHandler(templateService, logger),
		handlers.NewApprovalHandler(approvalService, logger),
		handlers.NewViewHandler(views, documentService, templateService, approvalService, logger),
		logger,
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router.Setup(cfg.Server.Mode),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			zap.String("port", cfg.Server.Port),
			zap.String("storage", cfg.Storage.Driver),
			zap.String("collation", sorter.Language()),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (fixtures.Repositories, func(), error) {
	if cfg.Storage.Driver == config.StoragePostgres {
		db, err := postgres.NewClient(ctx, &cfg.Database)
		if err != nil {
			return fixtures.Repositories{}, nil, fmt.Errorf("connect to database: %w", err)
		}
		logger.Info("connected to database", zap.String("host", cfg.Database.Host), zap.String("name", cfg.Database.Name))

		repos := fixtures.Repositories{
			Users:     auth.NewRepository(db),
			Templates: template.NewRepository(db),
			Documents: document.NewRepository(db),
			Approvals: approval.NewRepository(db),
		}
		return repos, func() { db.Close() }, nil
	}

	repos := fixtures.Repositories{
		Users:     auth.NewMemoryRepository(),
		Templates: template.NewMemoryRepository(),
		Documents: document.NewMemoryRepository(),
		Approvals: approval.NewMemoryRepository(),
	}
	if cfg.Storage.Seed {
		n, err := fixtures.Seed(ctx, repos)
		if err != nil {
			return fixtures.Repositories{}, nil, err
		}
		logger.Info("seeded memory store",
			zap.Int("users", n.Users),
			zap.Int("templates", n.Templates),
			zap.Int("documents", n.Documents),
			zap.Int("approvals", n.Approvals),
		)
	}
	return repos, func() {}, nil
}
