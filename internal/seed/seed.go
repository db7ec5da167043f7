// Package seed creates the initial data a fresh deployment needs.
package seed

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/deniz/regdesk/internal/app/models"
	appRepos "github.com/deniz/regdesk/internal/app/repositories"
	"github.com/deniz/regdesk/internal/pkg/auth"
)

const (
	defaultAdminEmail    = "admin@regdesk.local"
	defaultAdminName     = "Administrator"
	defaultAdminPassword = "changeme123"
)

// CreateDefaultData creates the initial admin account when no users exist yet.
// The default password is meant to be changed on first login.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)

	count, err := userRepo.Count(ctx)
	if err != nil {
		lgr.Error().Err(err).Msg("Error counting users during seed")
		return err
	}
	if count > 0 {
		lgr.Debug().Int64("users", count).Msg("Users already exist, skipping admin seed")
		return nil
	}

	hash, err := auth.HashPassword(defaultAdminPassword)
	if err != nil {
		return err
	}

	admin := &appModels.User{
		Email:        defaultAdminEmail,
		Name:         defaultAdminName,
		PasswordHash: hash,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		lgr.Error().Err(err).Msg("Error creating default admin account")
		return err
	}

	lgr.Info().Str("email", defaultAdminEmail).Msg("Default admin account created")
	return nil
}
