// Package catalog manages the product listing, the Redis-backed featured
// list and product image storage.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MrEthical07/goShop/internal/metrics"
	"github.com/MrEthical07/goShop/internal/session"
	"github.com/MrEthical07/goShop/internal/store"
)

// ErrNoFeaturedProducts is returned when neither the cache nor the store
// has any featured products.
var ErrNoFeaturedProducts = errors.New("no featured products found")

const recommendedSampleSize = 4

// ProductStore is the persistence surface the catalog needs. *store.DB
// satisfies it.
type ProductStore interface {
	CreateProduct(ctx context.Context, name, description string, price float64, image, category string) (*store.Product, error)
	Products(ctx context.Context) ([]store.Product, error)
	ProductByID(ctx context.Context, id string) (*store.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	FeaturedProducts(ctx context.Context) ([]store.Product, error)
	ProductsByCategory(ctx context.Context, category string) ([]store.Product, error)
	RecommendedProducts(ctx context.Context, limit int) ([]store.ProductSummary, error)
	SetFeatured(ctx context.Context, id string, featured bool) (*store.Product, error)
}

// ImageStore uploads and removes product images. *storage.Client
// satisfies it; it may be nil when object storage is not configured.
type ImageStore interface {
	UploadImage(ctx context.Context, dataURI string) (string, error)
	DeleteImage(ctx context.Context, url string) error
}

// Service wires catalog reads and admin writes together.
type Service struct {
	products ProductStore
	images   ImageStore
	cache    *session.Store
	metrics  *metrics.Metrics
	log      *slog.Logger
}

// NewService builds the catalog service. images and m may be nil.
func NewService(products ProductStore, images ImageStore, cache *session.Store, m *metrics.Metrics, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{products: products, images: images, cache: cache, metrics: m, log: log}
}

// All returns the complete catalog.
func (s *Service) All(ctx context.Context) ([]store.Product, error) {
	return s.products.Products(ctx)
}

// Featured serves the featured list cache-aside: cache hit wins, a miss
// falls through to the store and repopulates the cache before returning.
func (s *Service) Featured(ctx context.Context) ([]store.Product, error) {
	cached, ok, err := s.cache.FeaturedProducts(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		var products []store.Product
		if err := json.Unmarshal(cached, &products); err == nil {
			s.metrics.IncFeaturedHit()
			return products, nil
		}
		// Unreadable cache entry: treat as a miss and rebuild below.
		s.log.Warn("discarding corrupt featured cache entry")
	}
	s.metrics.IncFeaturedMiss()

	products, err := s.products.FeaturedProducts(ctx)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, ErrNoFeaturedProducts
	}

	if data, err := json.Marshal(products); err == nil {
		if err := s.cache.SetFeaturedProducts(ctx, data); err != nil {
			s.log.Warn("featured cache write failed", "error", err)
		}
	}
	return products, nil
}

// Create persists a new product, uploading its image first when one is
// supplied as a base64 data URI.
func (s *Service) Create(ctx context.Context, name, description string, price float64, imageDataURI, category string) (*store.Product, error) {
	imageURL := ""
	if imageDataURI != "" && s.images != nil {
		url, err := s.images.UploadImage(ctx, imageDataURI)
		if err != nil {
			return nil, fmt.Errorf("upload product image: %w", err)
		}
		imageURL = url
	}
	return s.products.CreateProduct(ctx, name, description, price, imageURL, category)
}

// Delete removes a product and, best effort, its stored image.
func (s *Service) Delete(ctx context.Context, id string) error {
	product, err := s.products.ProductByID(ctx, id)
	if err != nil {
		return err
	}
	if product.Image != "" && s.images != nil {
		if err := s.images.DeleteImage(ctx, product.Image); err != nil {
			s.log.Warn("product image delete failed", "product", id, "error", err)
		}
	}
	return s.products.DeleteProduct(ctx, id)
}

// Recommended returns a small random sample of the catalog.
func (s *Service) Recommended(ctx context.Context) ([]store.ProductSummary, error) {
	return s.products.RecommendedProducts(ctx, recommendedSampleSize)
}

// ByCategory returns the catalog slice for one category.
func (s *Service) ByCategory(ctx context.Context, category string) ([]store.Product, error) {
	return s.products.ProductsByCategory(ctx, category)
}

// ToggleFeatured flips a product's featured flag and refreshes the
// cached featured list. The cache refresh is best effort.
func (s *Service) ToggleFeatured(ctx context.Context, id string) (*store.Product, error) {
	product, err := s.products.ProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	updated, err := s.products.SetFeatured(ctx, id, !product.IsFeatured)
	if err != nil {
		return nil, err
	}
	if err := s.refreshFeaturedCache(ctx); err != nil {
		s.log.Warn("featured cache refresh failed", "error", err)
	}
	return updated, nil
}

func (s *Service) refreshFeaturedCache(ctx context.Context) error {
	products, err := s.products.FeaturedProducts(ctx)
	if err != nil {
		return err
	}
	data, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return s.cache.SetFeaturedProducts(ctx, data)
}
