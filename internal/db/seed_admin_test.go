package db_test

import (
	"context"
	"testing"

	"github.com/geocoder89/billed/internal/config"
	"github.com/geocoder89/billed/internal/db"
	"github.com/geocoder89/billed/internal/domain/user"
	"github.com/geocoder89/billed/internal/security"
	"github.com/geocoder89/billed/internal/store/memory"
)

func TestEnsureAdminUser(t *testing.T) {
	ctx := context.Background()
	users := memory.New(nil)
	cfg := config.Config{AdminEmail: "admin@test.tld", AdminPassword: "admin", AdminName: "Admin"}

	if err := db.EnsureAdminUser(ctx, users, cfg); err != nil {
		t.Fatalf("first seed: %v", err)
	}

	u, err := users.GetUserByEmail(ctx, "admin@test.tld")
	if err != nil {
		t.Fatalf("admin not created: %v", err)
	}
	if u.Type != user.TypeAdmin {
		t.Fatalf("seeded user must be an admin, got %s", u.Type)
	}
	if err := security.CheckPassword(u.PasswordHash, "admin"); err != nil {
		t.Fatalf("password not hashed correctly: %v", err)
	}

	// idempotent
	if err := db.EnsureAdminUser(ctx, users, cfg); err != nil {
		t.Fatalf("second seed: %v", err)
	}
}

func TestEnsureAdminUserSkippedWithoutCredentials(t *testing.T) {
	users := memory.New(nil)

	if err := db.EnsureAdminUser(context.Background(), users, config.Config{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := users.GetUserByEmail(context.Background(), ""); err == nil {
		t.Fatalf("no user should be created")
	}
}
