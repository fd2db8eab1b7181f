// Package sqlite provides a SQLite-backed bill store for single-node setups.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/geocoder89/billed/internal/domain/bill"
	"github.com/geocoder89/billed/internal/domain/user"
	"github.com/geocoder89/billed/internal/observability"
	"github.com/geocoder89/billed/internal/store"
)

var (
	_ store.Store     = (*Store)(nil)
	_ store.UserStore = (*Store)(nil)
)

const backend = "sqlite"

type Store struct {
	db       *sql.DB
	receipts store.ReceiptSaver
	prom     *observability.Prom
}

// Open creates the parent directory if needed and runs migrations.
func Open(dbPath string, receipts store.ReceiptSaver, prom *observability.Prom) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// one writer at a time
	db.SetMaxOpenConns(1)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: db, receipts: receipts, prom: prom}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) observe(op string, fn func() error) error {
	if s.prom != nil {
		return s.prom.ObserveStore(backend, op, fn)
	}
	return fn()
}

const billColumns = `id, email, type, name, amount, date, vat, pct, commentary, file_url, file_name, status, comment_admin`

type scanner interface {
	Scan(dest ...any) error
}

func scanBill(row scanner) (bill.Bill, error) {
	var b bill.Bill
	var status string

	if err := row.Scan(&b.ID, &b.Email, &b.Type, &b.Name, &b.Amount, &b.Date, &b.VAT, &b.Pct,
		&b.Commentary, &b.FileURL, &b.FileName, &status, &b.CommentAdmin); err != nil {
		return bill.Bill{}, err
	}

	b.Status = bill.Status(status)
	return b, nil
}

func (s *Store) List(ctx context.Context, filter bill.ListFilter) ([]bill.Bill, error) {
	query := "SELECT " + billColumns + " FROM bills"
	var args []any

	if filter.Email != "" {
		query += " WHERE email = ?"
		args = append(args, filter.Email)
	}
	query += " ORDER BY seq ASC"

	out := make([]bill.Bill, 0)

	err := s.observe("list", func() error {
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to query bills: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			b, err := scanBill(rows)
			if err != nil {
				return fmt.Errorf("failed to scan bill: %w", err)
			}
			out = append(out, b)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, store.AsError(err)
	}

	return out, nil
}

func (s *Store) Create(ctx context.Context, req store.CreateRequest) (store.CreateResult, error) {
	key := uuid.NewString()

	var fileURL string
	if s.receipts != nil {
		url, err := s.receipts.Save(ctx, key, req.FileName, req.Data)
		if err != nil {
			return store.CreateResult{}, store.AsError(err)
		}
		fileURL = url
	}

	err := s.observe("create", func() error {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO bills (id, seq, email, file_url, file_name, status)
			VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM bills), ?, ?, ?, ?)`,
			key, req.Email, fileURL, req.FileName, string(bill.StatusPending),
		)
		if err != nil {
			return fmt.Errorf("failed to insert bill: %w", err)
		}
		return nil
	})
	if err != nil {
		return store.CreateResult{}, store.AsError(err)
	}

	return store.CreateResult{FileURL: fileURL, Key: key, FileName: req.FileName}, nil
}

func (s *Store) Update(ctx context.Context, key string, b bill.Bill) (bill.Bill, error) {
	var out bill.Bill

	err := s.observe("update", func() error {
		res, err := s.db.ExecContext(ctx,
			`UPDATE bills SET email = ?, type = ?, name = ?, amount = ?, date = ?, vat = ?, pct = ?,
			commentary = ?, file_url = ?, file_name = ?, status = ?, comment_admin = ?
			WHERE id = ?`,
			b.Email, b.Type, b.Name, b.Amount, b.Date, b.VAT, b.Pct,
			b.Commentary, b.FileURL, b.FileName, string(b.Status), b.CommentAdmin, key,
		)
		if err != nil {
			return fmt.Errorf("failed to update bill: %w", err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return bill.ErrNotFound
		}

		out, err = scanBill(s.db.QueryRowContext(ctx, "SELECT "+billColumns+" FROM bills WHERE id = ?", key))
		return err
	})
	if err != nil {
		return bill.Bill{}, store.AsError(err)
	}

	return out, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User
	var typ string
	var created, updated int64

	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, type, password_hash, name, created_at, updated_at FROM users WHERE email = ?`,
		strings.ToLower(strings.TrimSpace(email)),
	).Scan(&u.ID, &u.Email, &typ, &u.PasswordHash, &u.Name, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return user.User{}, user.ErrNotFound
	}
	if err != nil {
		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	u.Type = user.Type(typ)
	u.CreatedAt = time.Unix(created, 0).UTC()
	u.UpdatedAt = time.Unix(updated, 0).UTC()
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

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, type, password_hash, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, string(u.Type), u.PasswordHash, u.Name, now.Unix(), now.Unix(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return user.User{}, user.ErrEmailAlreadyUsed
		}
		return user.User{}, fmt.Errorf("failed to insert user: %w", err)
	}

	return u, nil
}
