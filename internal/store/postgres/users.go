package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/geocoder89/billed/internal/domain/user"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User
	var typ string

	err := s.observe("users.get_by_email", func() error {
		return s.pool.QueryRow(
			ctx,
			`SELECT id, email, type, password_hash, name, created_at, updated_at
			FROM users
			WHERE email = $1`,
			strings.ToLower(strings.TrimSpace(email)),
		).Scan(&u.ID, &u.Email, &typ, &u.PasswordHash, &u.Name, &u.CreatedAt, &u.UpdatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}

	u.Type = user.Type(typ)
	return u, nil
}

func (s *Store) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	now := time.Now().UTC()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.CreatedAt = now
	u.UpdatedAt = now

	err := s.observe("users.create", func() error {
		_, err := s.pool.Exec(ctx,
			`INSERT INTO users (id, email, type, password_hash, name, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			u.ID, u.Email, string(u.Type), u.PasswordHash, u.Name, u.CreatedAt, u.UpdatedAt,
		)
		return err
	})

	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrEmailAlreadyUsed
		}
		return user.User{}, err
	}

	return u, nil
}
