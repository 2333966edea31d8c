//go:build integration
// +build integration

package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"

	_ "github.com/lib/pq"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	raw, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	t.Cleanup(func() { raw.Close() })

	db := New(raw)
	if err := db.RunMigration(context.Background()); err != nil {
		t.Fatalf("RunMigration failed: %v", err)
	}
	return db
}

func TestUserLifecycle(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	u, err := db.CreateUser(ctx, "Ada", "Ada@Example.COM ", "hash")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	t.Cleanup(func() {
		db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, u.ID)
	})

	if u.Email != "ada@example.com" {
		t.Fatalf("email not normalized: %q", u.Email)
	}
	if u.Role != RoleCustomer {
		t.Fatalf("unexpected default role: %q", u.Role)
	}

	if _, err := db.CreateUser(ctx, "Ada2", "ADA@example.com", "hash2"); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	got, err := db.UserByEmail(ctx, "ADA@example.com")
	if err != nil {
		t.Fatalf("UserByEmail failed: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("UserByEmail returned %s, want %s", got.ID, u.ID)
	}

	items := []CartItem{{ProductID: "p1", Quantity: 2}}
	if err := db.UpdateCart(ctx, u.ID, items); err != nil {
		t.Fatalf("UpdateCart failed: %v", err)
	}
	got, err = db.UserByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("UserByID failed: %v", err)
	}
	if len(got.CartItems) != 1 || got.CartItems[0].Quantity != 2 {
		t.Fatalf("cart not persisted: %+v", got.CartItems)
	}
}

func TestProductLifecycle(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	p, err := db.CreateProduct(ctx, "Lamp", "A lamp", 19.99, "https://example.com/lamp.png", "home")
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	t.Cleanup(func() {
		db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, p.ID)
	})

	updated, err := db.SetFeatured(ctx, p.ID, true)
	if err != nil {
		t.Fatalf("SetFeatured failed: %v", err)
	}
	if !updated.IsFeatured {
		t.Fatal("SetFeatured did not flip the flag")
	}

	featured, err := db.FeaturedProducts(ctx)
	if err != nil {
		t.Fatalf("FeaturedProducts failed: %v", err)
	}
	found := false
	for _, fp := range featured {
		if fp.ID == p.ID {
			found = true
		}
	}
	if !found {
		t.Fatal("featured listing missing the product")
	}

	if err := db.DeleteProduct(ctx, p.ID); err != nil {
		t.Fatalf("DeleteProduct failed: %v", err)
	}
	if err := db.DeleteProduct(ctx, p.ID); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}
