package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product is a catalog entry. Image holds the public URL of the uploaded
// asset, not the asset itself.
type Product struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Image       string    `json:"image"`
	Category    string    `json:"category"`
	IsFeatured  bool      `json:"isFeatured"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProductSummary is the trimmed projection served on the
// recommendations listing.
type ProductSummary struct {
	ID          string  `json:"_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Price       float64 `json:"price"`
}

const productColumns = `id, name, description, price, image, category, is_featured, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (*Product, error) {
	var p Product
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Image, &p.Category, &p.IsFeatured, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func collectProducts(rows *sql.Rows) ([]Product, error) {
	defer rows.Close()
	products := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// CreateProduct persists a new catalog entry.
func (db *DB) CreateProduct(ctx context.Context, name, description string, price float64, image, category string) (*Product, error) {
	row := db.QueryRowContext(ctx, `
		INSERT INTO products (id, name, description, price, image, category)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+productColumns,
		uuid.NewString(), name, description, price, image, category,
	)
	return scanProduct(row)
}

// Products returns the full catalog, newest first.
func (db *DB) Products(ctx context.Context) ([]Product, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+productColumns+` FROM products ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

// ProductByID fetches a single catalog entry.
func (db *DB) ProductByID(ctx context.Context, id string) (*Product, error) {
	row := db.QueryRowContext(ctx, `
		SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	return p, err
}

// DeleteProduct removes a catalog entry.
func (db *DB) DeleteProduct(ctx context.Context, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrProductNotFound
	}
	return nil
}

// FeaturedProducts returns every product currently flagged as featured.
func (db *DB) FeaturedProducts(ctx context.Context) ([]Product, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE is_featured ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

// ProductsByCategory returns the catalog slice for one category.
func (db *DB) ProductsByCategory(ctx context.Context, category string) ([]Product, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE category = $1 ORDER BY created_at DESC`, category)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

// ProductsByIDs fetches the products matching the given ids. Missing ids
// are simply absent from the result.
func (db *DB) ProductsByIDs(ctx context.Context, ids []string) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}
	rows, err := db.QueryContext(ctx, `
		SELECT `+productColumns+` FROM products WHERE id = ANY($1)`,
		pq.Array(ids))
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

// RecommendedProducts returns a random sample of the catalog, projected
// down to the summary fields.
func (db *DB) RecommendedProducts(ctx context.Context, limit int) ([]ProductSummary, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, description, image, price FROM products
		ORDER BY random() LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []ProductSummary{}
	for rows.Next() {
		var s ProductSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.Image, &s.Price); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// SetFeatured flips the featured flag and returns the updated product.
func (db *DB) SetFeatured(ctx context.Context, id string, featured bool) (*Product, error) {
	row := db.QueryRowContext(ctx, `
		UPDATE products SET is_featured = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+productColumns,
		id, featured,
	)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	return p, err
}
