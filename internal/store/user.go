package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// CartItem is one entry of a user's embedded cart: a product reference and
// a quantity. Persisted as jsonb on the user row.
type CartItem struct {
	ProductID string `json:"product"`
	Quantity  int    `json:"quantity"`
}

// User is the persisted identity record. PasswordHash is empty for
// federated identities and is never serialized.
type User struct {
	ID           string     `json:"_id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	GoogleID     string     `json:"-"`
	Role         string     `json:"role"`
	CartItems    []CartItem `json:"cartItems"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// NormalizeEmail lowercases and trims an email the way the store indexes it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

const userColumns = `id, name, email, COALESCE(password_hash, ''), COALESCE(google_id, ''), role, cart_items, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*User, error) {
	var (
		u    User
		cart []byte
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.GoogleID, &u.Role, &cart, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(cart, &u.CartItems); err != nil {
		return nil, fmt.Errorf("decode cart items: %w", err)
	}
	if u.CartItems == nil {
		u.CartItems = []CartItem{}
	}
	return &u, nil
}

// CreateUser persists a new local account. The password must already be
// hashed; this store never sees plaintext.
func (db *DB) CreateUser(ctx context.Context, name, email, passwordHash string) (*User, error) {
	row := db.QueryRowContext(ctx, `
		INSERT INTO users (id, name, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		uuid.NewString(), name, NormalizeEmail(email), passwordHash,
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, mapUserInsertError(err)
	}
	return u, nil
}

// CreateGoogleUser persists a federated account with no local password.
func (db *DB) CreateGoogleUser(ctx context.Context, name, email, googleID string) (*User, error) {
	row := db.QueryRowContext(ctx, `
		INSERT INTO users (id, name, email, google_id)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		uuid.NewString(), name, NormalizeEmail(email), googleID,
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, mapUserInsertError(err)
	}
	return u, nil
}

// UserByEmail looks a user up by case-insensitive email.
func (db *DB) UserByEmail(ctx context.Context, email string) (*User, error) {
	row := db.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE LOWER(email) = $1`,
		NormalizeEmail(email),
	)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// UserByID looks a user up by primary key.
func (db *DB) UserByID(ctx context.Context, id string) (*User, error) {
	row := db.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// UserByGoogleID looks a user up by federated identity id.
func (db *DB) UserByGoogleID(ctx context.Context, googleID string) (*User, error) {
	row := db.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE google_id = $1`, googleID)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// LinkGoogleID attaches a federated identity to an existing local account.
func (db *DB) LinkGoogleID(ctx context.Context, userID, googleID string) error {
	res, err := db.ExecContext(ctx, `
		UPDATE users SET google_id = $2, updated_at = NOW() WHERE id = $1`,
		userID, googleID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdateCart replaces the user's embedded cart.
func (db *DB) UpdateCart(ctx context.Context, userID string, items []CartItem) error {
	if items == nil {
		items = []CartItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, `
		UPDATE users SET cart_items = $2, updated_at = NOW() WHERE id = $1`,
		userID, data,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func mapUserInsertError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrDuplicateEmail
	}
	return err
}
