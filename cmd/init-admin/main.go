package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/docflow/docflow/config"
	"github.com/docflow/docflow/internal/core/auth"
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

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		logger.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD environment variables are required")
	}
	name := os.Getenv("ADMIN_NAME")
	if name == "" {
		name = "Administrator"
	}

	ctx := context.Background()
	db, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	created, err := ensureAdmin(ctx, auth.NewRepository(db), email, password, name)
	if err != nil {
		logger.Fatal("failed to set up admin user", zap.String("email", email), zap.Error(err))
	}
	if created {
		logger.Info("created admin user", zap.String("email", email))
	} else {
		logger.Info("admin user ready", zap.String("email", email))
	}
}

// ensureAdmin creates the admin account, or promotes an existing account with
// the same email. It reports whether a new user was created.
func ensureAdmin(ctx context.Context, repo auth.Repository, email, password, name string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := repo.GetUserByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("check for existing user: %w", err)
	}

	if existing != nil {
		if existing.Role == auth.RoleAdmin && existing.Status == auth.UserStatusActive {
			return false, nil
		}
		existing.Role = auth.RoleAdmin
		existing.Status = auth.UserStatusActive
		if err := repo.UpdateUser(ctx, existing); err != nil {
			return false, fmt.Errorf("promote user: %w", err)
		}
		return false, nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	user := &auth.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         auth.RoleAdmin,
		Status:       auth.UserStatusActive,
	}
	if err := repo.CreateUser(ctx, user); err != nil {
		return false, fmt.Errorf("create user: %w", err)
	}
	return true, nil
}
