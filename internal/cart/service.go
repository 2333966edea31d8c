// Package cart manages the per-user cart embedded on the user record.
package cart

import (
	"context"

	"github.com/MrEthical07/goShop/internal/store"
)

// Store is the persistence surface the cart needs. *store.DB satisfies it.
type Store interface {
	UserByID(ctx context.Context, id string) (*store.User, error)
	UpdateCart(ctx context.Context, userID string, items []store.CartItem) error
	ProductByID(ctx context.Context, id string) (*store.Product, error)
	ProductsByIDs(ctx context.Context, ids []string) ([]store.Product, error)
}

// Product is a catalog entry joined with the caller's cart quantity.
type Product struct {
	store.Product
	Quantity int `json:"quantity"`
}

// Service implements the cart operations.
type Service struct {
	store Store
}

// NewService builds the cart service.
func NewService(s Store) *Service {
	return &Service{store: s}
}

// Products resolves the user's cart items against the catalog. Items
// whose product has since been deleted are silently dropped.
func (s *Service) Products(ctx context.Context, user *store.User) ([]Product, error) {
	ids := make([]string, 0, len(user.CartItems))
	for _, item := range user.CartItems {
		ids = append(ids, item.ProductID)
	}
	catalog, err := s.store.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	quantities := make(map[string]int, len(user.CartItems))
	for _, item := range user.CartItems {
		quantities[item.ProductID] = item.Quantity
	}

	products := make([]Product, 0, len(catalog))
	for _, p := range catalog {
		products = append(products, Product{Product: p, Quantity: quantities[p.ID]})
	}
	return products, nil
}

// Add puts one unit of a product into the cart, incrementing the
// quantity if it is already there.
func (s *Service) Add(ctx context.Context, user *store.User, productID string) ([]store.CartItem, error) {
	if _, err := s.store.ProductByID(ctx, productID); err != nil {
		return nil, err
	}

	items := user.CartItems
	found := false
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		items = append(items, store.CartItem{ProductID: productID, Quantity: 1})
	}

	if err := s.store.UpdateCart(ctx, user.ID, items); err != nil {
		return nil, err
	}
	user.CartItems = items
	return items, nil
}

// UpdateQuantity sets the quantity of one cart line. Quantity zero
// removes the line.
func (s *Service) UpdateQuantity(ctx context.Context, user *store.User, productID string, quantity int) ([]store.CartItem, error) {
	items := user.CartItems
	for i := range items {
		if items[i].ProductID != productID {
			continue
		}
		if quantity == 0 {
			items = append(items[:i], items[i+1:]...)
		} else {
			items[i].Quantity = quantity
		}
		if err := s.store.UpdateCart(ctx, user.ID, items); err != nil {
			return nil, err
		}
		user.CartItems = items
		return items, nil
	}
	return nil, store.ErrProductNotFound
}

// Clear removes one product from the cart, or every product when
// productID is empty.
func (s *Service) Clear(ctx context.Context, user *store.User, productID string) ([]store.CartItem, error) {
	var items []store.CartItem
	if productID == "" {
		items = []store.CartItem{}
	} else {
		items = make([]store.CartItem, 0, len(user.CartItems))
		for _, item := range user.CartItems {
			if item.ProductID != productID {
				items = append(items, item)
			}
		}
	}

	if err := s.store.UpdateCart(ctx, user.ID, items); err != nil {
		return nil, err
	}
	user.CartItems = items
	return items, nil
}
