package service

import (
	"context"
	"errors"
	"fmt"

	"shop-service/internal/models"
	"shop-service/internal/store"
	"shop-service/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CartStore is the storage surface the cart service needs
type CartStore interface {
	ListCartItems(ctx context.Context, userID int64) ([]models.CartItem, error)
	UpsertCartItem(ctx context.Context, userID, productID int64, quantity int, price decimal.Decimal) (*models.CartItem, error)
	UpdateCartItemQuantity(ctx context.Context, userID, itemID int64, quantity int) error
	DeleteCartItem(ctx context.Context, userID, itemID int64) error
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
}

// CartService handles per-user cart lines
type CartService struct {
	store  CartStore
	logger *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(store CartStore) *CartService {
	return &CartService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// AddCartItemRequest adds quantity of a product to the caller's cart
type AddCartItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required"`
}

// UpdateCartItemRequest changes the quantity of an existing line
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// MergeItem is one line of a client-side cart folded in at login
type MergeItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// MergeCartRequest folds a pre-login local cart into the server cart
type MergeCartRequest struct {
	Items []MergeItem `json:"items" binding:"required"`
}

// List returns the user's cart lines, most recently added first
func (s *CartService) List(ctx context.Context, userID int64) ([]models.CartItem, error) {
	return s.store.ListCartItems(ctx, userID)
}

// Add puts quantity of a product into the cart. An existing line for the
// same product has its quantity incremented; the price snapshot taken at
// first add is kept.
func (s *CartService) Add(ctx context.Context, userID int64, req *AddCartItemRequest) (*models.CartItem, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be a positive integer: %w", ErrInvalidInput)
	}

	product, err := s.store.GetProductByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	item, err := s.store.UpsertCartItem(ctx, userID, product.ID, req.Quantity, product.Price)
	if err != nil {
		return nil, err
	}

	util.CartAddsTotal.Inc()
	return item, nil
}

// Update changes the quantity of a cart line owned by the caller. A line
// the caller does not own is indistinguishable from a missing one.
func (s *CartService) Update(ctx context.Context, userID, itemID int64, req *UpdateCartItemRequest) error {
	if req.Quantity <= 0 {
		return fmt.Errorf("quantity must be a positive integer: %w", ErrInvalidInput)
	}
	return s.store.UpdateCartItemQuantity(ctx, userID, itemID, req.Quantity)
}

// Remove deletes a cart line owned by the caller
func (s *CartService) Remove(ctx context.Context, userID, itemID int64) error {
	return s.store.DeleteCartItem(ctx, userID, itemID)
}

// Merge upserts each valid client-supplied line into the user's cart,
// summing quantities for lines that already exist. Lines with non-positive
// quantities or unknown products are skipped silently. Returns the merged
// cart.
func (s *CartService) Merge(ctx context.Context, userID int64, req *MergeCartRequest) ([]models.CartItem, error) {
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			continue
		}
		product, err := s.store.GetProductByID(ctx, it.ProductID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, err
		}
		if _, err := s.store.UpsertCartItem(ctx, userID, product.ID, it.Quantity, product.Price); err != nil {
			return nil, err
		}
	}

	util.CartMergesTotal.Inc()
	s.logger.Info("Merged local cart", zap.Int64("user_id", userID), zap.Int("lines", len(req.Items)))
	return s.store.ListCartItems(ctx, userID)
}
