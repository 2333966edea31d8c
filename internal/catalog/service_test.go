package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goShop/internal/session"
	"github.com/MrEthical07/goShop/internal/store"
)

// fakeProductStore is an in-memory ProductStore for tests.
type fakeProductStore struct {
	products      map[string]*store.Product
	featuredReads int
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{products: map[string]*store.Product{}}
}

func (f *fakeProductStore) CreateProduct(_ context.Context, name, description string, price float64, image, category string) (*store.Product, error) {
	p := &store.Product{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Price:       price,
		Image:       image,
		Category:    category,
	}
	f.products[p.ID] = p
	return p, nil
}

func (f *fakeProductStore) Products(_ context.Context) ([]store.Product, error) {
	out := []store.Product{}
	for _, p := range f.products {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProductStore) ProductByID(_ context.Context, id string) (*store.Product, error) {
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return nil, store.ErrProductNotFound
}

func (f *fakeProductStore) DeleteProduct(_ context.Context, id string) error {
	if _, ok := f.products[id]; !ok {
		return store.ErrProductNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeProductStore) FeaturedProducts(_ context.Context) ([]store.Product, error) {
	f.featuredReads++
	out := []store.Product{}
	for _, p := range f.products {
		if p.IsFeatured {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProductStore) ProductsByCategory(_ context.Context, category string) ([]store.Product, error) {
	out := []store.Product{}
	for _, p := range f.products {
		if p.Category == category {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProductStore) RecommendedProducts(_ context.Context, limit int) ([]store.ProductSummary, error) {
	out := []store.ProductSummary{}
	for _, p := range f.products {
		if len(out) == limit {
			break
		}
		out = append(out, store.ProductSummary{
			ID: p.ID, Name: p.Name, Description: p.Description, Image: p.Image, Price: p.Price,
		})
	}
	return out, nil
}

func (f *fakeProductStore) SetFeatured(_ context.Context, id string, featured bool) (*store.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, store.ErrProductNotFound
	}
	p.IsFeatured = featured
	return p, nil
}

// fakeImageStore records uploads and deletions.
type fakeImageStore struct {
	uploads int
	deleted []string
}

func (f *fakeImageStore) UploadImage(_ context.Context, _ string) (string, error) {
	f.uploads++
	return "https://img.example.com/products/" + uuid.NewString(), nil
}

func (f *fakeImageStore) DeleteImage(_ context.Context, url string) error {
	f.deleted = append(f.deleted, url)
	return nil
}

func newTestCatalog(t *testing.T) (*Service, *fakeProductStore, *fakeImageStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	products := newFakeProductStore()
	images := &fakeImageStore{}
	svc := NewService(products, images, session.NewStore(client), nil, nil)
	return svc, products, images, mr
}

func TestFeaturedCacheAside(t *testing.T) {
	svc, products, _, mr := newTestCatalog(t)
	ctx := context.Background()

	p, err := products.CreateProduct(ctx, "Lamp", "A lamp", 19.99, "", "home")
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	products.products[p.ID].IsFeatured = true

	// First read misses the cache, hits the store and writes back.
	got, err := svc.Featured(ctx)
	if err != nil {
		t.Fatalf("Featured failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != p.ID {
		t.Fatalf("unexpected featured list: %+v", got)
	}
	if products.featuredReads != 1 {
		t.Fatalf("store reads = %d, want 1", products.featuredReads)
	}
	if !mr.Exists("featured_products") {
		t.Fatal("read-miss did not repopulate the cache")
	}

	// Second read is served from the cache.
	if _, err := svc.Featured(ctx); err != nil {
		t.Fatalf("second Featured failed: %v", err)
	}
	if products.featuredReads != 1 {
		t.Fatalf("cache hit still queried the store, reads = %d", products.featuredReads)
	}
}

func TestFeaturedEmpty(t *testing.T) {
	svc, _, _, _ := newTestCatalog(t)
	if _, err := svc.Featured(context.Background()); !errors.Is(err, ErrNoFeaturedProducts) {
		t.Fatalf("expected ErrNoFeaturedProducts, got %v", err)
	}
}

func TestFeaturedDiscardsCorruptCacheEntry(t *testing.T) {
	svc, products, _, mr := newTestCatalog(t)
	ctx := context.Background()

	p, _ := products.CreateProduct(ctx, "Lamp", "", 19.99, "", "home")
	products.products[p.ID].IsFeatured = true
	mr.Set("featured_products", "{not json")

	got, err := svc.Featured(ctx)
	if err != nil {
		t.Fatalf("Featured failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("unexpected featured list: %+v", got)
	}

	// The corrupt entry was replaced with a readable one.
	raw, err := mr.Get("featured_products")
	if err != nil {
		t.Fatalf("cache entry missing: %v", err)
	}
	var cached []store.Product
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		t.Fatalf("cache entry still unreadable: %v", err)
	}
}

func TestToggleFeaturedRefreshesCache(t *testing.T) {
	svc, products, _, mr := newTestCatalog(t)
	ctx := context.Background()

	p, _ := products.CreateProduct(ctx, "Lamp", "", 19.99, "", "home")

	updated, err := svc.ToggleFeatured(ctx, p.ID)
	if err != nil {
		t.Fatalf("ToggleFeatured failed: %v", err)
	}
	if !updated.IsFeatured {
		t.Fatal("featured flag did not flip")
	}

	raw, err := mr.Get("featured_products")
	if err != nil {
		t.Fatalf("toggle did not refresh the cache: %v", err)
	}
	var cached []store.Product
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		t.Fatalf("decode cached list failed: %v", err)
	}
	if len(cached) != 1 || cached[0].ID != p.ID {
		t.Fatalf("unexpected cached list: %+v", cached)
	}

	// Toggling back empties the cached list.
	if _, err := svc.ToggleFeatured(ctx, p.ID); err != nil {
		t.Fatalf("second ToggleFeatured failed: %v", err)
	}
	raw, _ = mr.Get("featured_products")
	if raw != "[]" {
		t.Fatalf("cached list not emptied: %q", raw)
	}

	if _, err := svc.ToggleFeatured(ctx, "missing"); !errors.Is(err, store.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestCreateUploadsImage(t *testing.T) {
	svc, _, images, _ := newTestCatalog(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, "Lamp", "A lamp", 19.99, "data:image/png;base64,AAAA", "home")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if images.uploads != 1 || p.Image == "" {
		t.Fatalf("image not uploaded: uploads=%d image=%q", images.uploads, p.Image)
	}

	// No image supplied, no upload.
	p, err = svc.Create(ctx, "Chair", "", 5, "", "home")
	if err != nil {
		t.Fatalf("Create without image failed: %v", err)
	}
	if images.uploads != 1 || p.Image != "" {
		t.Fatalf("unexpected upload for empty image: uploads=%d", images.uploads)
	}
}

func TestDeleteRemovesImage(t *testing.T) {
	svc, products, images, _ := newTestCatalog(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, "Lamp", "", 19.99, "data:image/png;base64,AAAA", "home")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := svc.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if len(images.deleted) != 1 || images.deleted[0] != p.Image {
		t.Fatalf("image not deleted: %v", images.deleted)
	}
	if _, ok := products.products[p.ID]; ok {
		t.Fatal("product survived delete")
	}

	if err := svc.Delete(ctx, p.ID); !errors.Is(err, store.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}
