package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            UUID PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE,
    type          TEXT NOT NULL CHECK (type IN ('Employee', 'Admin')),
    password_hash TEXT NOT NULL,
    name          TEXT NOT NULL DEFAULT '',
    created_at    TIMESTAMPTZ NOT NULL,
    updated_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS bills (
    id            UUID PRIMARY KEY,
    email         TEXT NOT NULL,
    type          TEXT NOT NULL DEFAULT '',
    name          TEXT NOT NULL DEFAULT '',
    amount        DOUBLE PRECISION NOT NULL DEFAULT 0,
    date          TEXT NOT NULL DEFAULT '',
    vat           TEXT NOT NULL DEFAULT '',
    pct           DOUBLE PRECISION NOT NULL DEFAULT 20,
    commentary    TEXT NOT NULL DEFAULT '',
    file_url      TEXT NOT NULL DEFAULT '',
    file_name     TEXT NOT NULL DEFAULT '',
    status        TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'accepted', 'refused')),
    comment_admin TEXT NOT NULL DEFAULT '',
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_bills_email ON bills(email);
`

// Migrate creates the tables the postgres store needs.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}
