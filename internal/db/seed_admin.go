package db

import (
	"context"
	"errors"

	"github.com/geocoder89/billed/internal/config"
	"github.com/geocoder89/billed/internal/domain/user"
	"github.com/geocoder89/billed/internal/security"
	"github.com/geocoder89/billed/internal/store"
)

// EnsureAdminUser creates the configured admin account if it does not exist yet.
func EnsureAdminUser(ctx context.Context, users store.UserStore, cfg config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	_, err := users.GetUserByEmail(ctx, cfg.AdminEmail)

	if err == nil {
		return nil
	}

	if !errors.Is(err, user.ErrNotFound) {
		return err
	}

	hash, err := security.HashPassword(cfg.AdminPassword)

	if err != nil {
		return err
	}

	_, err = users.CreateUser(ctx, user.User{
		Type:         user.TypeAdmin,
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		Name:         cfg.AdminName,
	})

	if errors.Is(err, user.ErrEmailAlreadyUsed) {
		return nil
	}

	return err
}
