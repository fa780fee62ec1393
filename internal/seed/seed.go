// Package seed creates demo data for local development.
package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clicksapp/clicks/internal/app/models"
	"github.com/clicksapp/clicks/internal/app/repositories"
	"github.com/clicksapp/clicks/internal/pkg/auth"
	"github.com/clicksapp/clicks/internal/pkg/logger"
)

const (
	demoEmail    = "demo@clicks.local"
	demoPassword = "demo1234"
)

// CreateDefaultData seeds a demo account with one click. Running it twice
// is a no-op.
func CreateDefaultData(ctx context.Context, pool *pgxpool.Pool) error {
	repos := repositories.NewRepositories(pool)

	exists, err := repos.Users.EmailExists(ctx, demoEmail)
	if err != nil {
		return fmt.Errorf("failed to check demo user: %w", err)
	}
	if exists {
		logger.Debug().Msg("Seed data already present, skipping")
		return nil
	}

	hashed, err := auth.HashPassword(demoPassword)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}

	user := &models.User{
		Email:    demoEmail,
		Password: hashed,
		IsActive: true,
	}
	if _, err := repos.Users.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create demo user: %w", err)
	}

	description := "A demo click for trying things out"
	click := &models.Click{
		Name:        "Weekend Snapshots",
		Description: &description,
		CreatedBy:   user.ID,
	}
	if _, err := repos.Clicks.CreateWithAdmin(ctx, click); err != nil {
		return fmt.Errorf("failed to create demo click: %w", err)
	}

	logger.Info().Str("email", demoEmail).Int64("clickId", click.ID).Msg("Seed data created")
	return nil
}
