package store

import (
	"context"
	"database/sql"
	"errors"
)

var (
	// ErrUserNotFound is returned when a user lookup matches no record.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when an insert violates the unique
	// email constraint.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrProductNotFound is returned when a product lookup matches no record.
	ErrProductNotFound = errors.New("product not found")
)

// DB wraps the SQL connection pool and is the single persistence entry
// point. It is injected at startup and closed at shutdown; there is no
// ambient singleton.
type DB struct {
	*sql.DB
}

// New wraps an open connection pool.
func New(db *sql.DB) *DB {
	return &DB{DB: db}
}

const keystoneMigration = `
CREATE EXTENSION IF NOT EXISTS "pgcrypto";

CREATE TABLE IF NOT EXISTS users (
    id uuid PRIMARY KEY,
    name text NOT NULL,
    email text NOT NULL,
    password_hash text,
    google_id text,
    role text NOT NULL DEFAULT 'customer',
    cart_items jsonb NOT NULL DEFAULT '[]',
    created_at timestamptz NOT NULL DEFAULT NOW(),
    updated_at timestamptz NOT NULL DEFAULT NOW(),
    CONSTRAINT users_role_check CHECK (role IN ('customer', 'admin')),
    CONSTRAINT users_credential_check CHECK (password_hash IS NOT NULL OR google_id IS NOT NULL)
);

CREATE UNIQUE INDEX IF NOT EXISTS users_email_lower_unique
ON users (LOWER(email));

CREATE UNIQUE INDEX IF NOT EXISTS users_google_id_unique
ON users (google_id) WHERE google_id IS NOT NULL;

CREATE TABLE IF NOT EXISTS products (
    id uuid PRIMARY KEY,
    name text NOT NULL,
    description text NOT NULL DEFAULT '',
    price numeric(12,2) NOT NULL CHECK (price >= 0),
    image text NOT NULL DEFAULT '',
    category text NOT NULL DEFAULT '',
    is_featured boolean NOT NULL DEFAULT false,
    created_at timestamptz NOT NULL DEFAULT NOW(),
    updated_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS products_category_idx ON products (category);
CREATE INDEX IF NOT EXISTS products_is_featured_idx ON products (is_featured) WHERE is_featured;
`

// RunMigration applies the idempotent keystone schema.
func (db *DB) RunMigration(ctx context.Context) error {
	_, err := db.ExecContext(ctx, keystoneMigration)
	return err
}
