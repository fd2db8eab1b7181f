package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/billed/internal/domain/bill"
	"github.com/geocoder89/billed/internal/observability"
	"github.com/geocoder89/billed/internal/store"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	_ store.Store     = (*Store)(nil)
	_ store.UserStore = (*Store)(nil)
)

const backend = "postgres"

type Store struct {
	pool     *pgxpool.Pool
	prom     *observability.Prom
	receipts store.ReceiptSaver
}

func New(pool *pgxpool.Pool, receipts store.ReceiptSaver, prom *observability.Prom) *Store {
	return &Store{pool: pool, receipts: receipts, prom: prom}
}

func (s *Store) observe(op string, fn func() error) error {
	if s.prom != nil {
		return s.prom.ObserveStore(backend, op, fn)
	}
	return fn()
}

const billColumns = `id, email, type, name, amount, date, vat, pct, commentary, file_url, file_name, status, comment_admin`

func scanBill(row pgx.Row) (bill.Bill, error) {
	var b bill.Bill
	var status string

	err := row.Scan(&b.ID, &b.Email, &b.Type, &b.Name, &b.Amount, &b.Date, &b.VAT, &b.Pct,
		&b.Commentary, &b.FileURL, &b.FileName, &status, &b.CommentAdmin)
	if err != nil {
		return bill.Bill{}, err
	}

	b.Status = bill.Status(status)
	return b, nil
}

func (s *Store) List(ctx context.Context, filter bill.ListFilter) ([]bill.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills`
	var args []interface{}

	if filter.Email != "" {
		query += ` WHERE email = $1`
		args = append(args, filter.Email)
	}

	// stable ordering; display order is decided by the caller
	query += ` ORDER BY created_at ASC, id ASC`

	var out []bill.Bill

	err := s.observe("list", func() error {
		rows, err := s.pool.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]bill.Bill, 0)
		for rows.Next() {
			b, err := scanBill(rows)
			if err != nil {
				return err
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
		_, err := s.pool.Exec(ctx,
			`INSERT INTO bills(id, email, file_url, file_name, status) VALUES($1,$2,$3,$4,$5)`,
			key, req.Email, fileURL, req.FileName, string(bill.StatusPending))
		return err
	})

	if err != nil {
		return store.CreateResult{}, store.AsError(err)
	}

	return store.CreateResult{FileURL: fileURL, Key: key, FileName: req.FileName}, nil
}

func (s *Store) Update(ctx context.Context, key string, b bill.Bill) (bill.Bill, error) {
	if _, err := uuid.Parse(key); err != nil {
		return bill.Bill{}, store.AsError(bill.ErrNotFound)
	}

	var out bill.Bill

	err := s.observe("update", func() error {
		row := s.pool.QueryRow(ctx,
			`UPDATE bills
			SET email = $2,
			    type = $3,
			    name = $4,
			    amount = $5,
			    date = $6,
			    vat = $7,
			    pct = $8,
			    commentary = $9,
			    file_url = $10,
			    file_name = $11,
			    status = $12,
			    comment_admin = $13,
			    updated_at = NOW()
			WHERE id = $1
			RETURNING `+billColumns,
			key, b.Email, b.Type, b.Name, b.Amount, b.Date, b.VAT, b.Pct,
			b.Commentary, b.FileURL, b.FileName, string(b.Status), b.CommentAdmin,
		)

		var err error
		out, err = scanBill(row)
		// if there are no rows matching the key
		if errors.Is(err, pgx.ErrNoRows) {
			return bill.ErrNotFound
		}
		return err
	})

	if err != nil {
		return bill.Bill{}, store.AsError(err)
	}

	return out, nil
}
