package services

import (
	"context"

	"github.com/KeshavX3/ERP-2/apperrors"
	"github.com/KeshavX3/ERP-2/models"
	"github.com/KeshavX3/ERP-2/repository"
)

type AddCartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type SetCartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CartService manages the session-scoped cart. Items carry a display
// snapshot of the product captured when they were added.
type CartService struct {
	carts    repository.CartStore
	products *ProductService
}

func NewCartService(carts repository.CartStore, products *ProductService) *CartService {
	return &CartService{carts: carts, products: products}
}

func (s *CartService) Get(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch cart", err)
	}
	return cart, nil
}

// AddItem adds a product to the cart; adding an existing line increments
// its quantity.
func (s *CartService) AddItem(ctx context.Context, userID string, req *AddCartItemRequest) (*models.Cart, error) {
	qty := req.Quantity
	if qty < 1 {
		qty = 1
	}

	item, err := s.products.Snapshot(ctx, req.ProductID, qty)
	if err != nil {
		return nil, err
	}

	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch cart", err)
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == item.ProductID {
			cart.Items[i].Quantity += qty
			found = true
			break
		}
	}
	if !found {
		cart.Items = append(cart.Items, *item)
	}

	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, apperrors.Internal("Failed to save cart", err)
	}
	return cart, nil
}

// SetQuantity sets a line's quantity; zero removes the line.
func (s *CartService) SetQuantity(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error) {
	if quantity < 0 {
		return nil, apperrors.Validation("Quantity cannot be negative")
	}

	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch cart", err)
	}

	idx := -1
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, apperrors.NotFound("Item not in cart")
	}

	if quantity == 0 {
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	} else {
		cart.Items[idx].Quantity = quantity
	}

	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, apperrors.Internal("Failed to save cart", err)
	}
	return cart, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*models.Cart, error) {
	return s.SetQuantity(ctx, userID, productID, 0)
}

func (s *CartService) Clear(ctx context.Context, userID string) error {
	if err := s.carts.Clear(ctx, userID); err != nil {
		return apperrors.Internal("Failed to clear cart", err)
	}
	return nil
}
