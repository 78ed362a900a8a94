package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shop-service/internal/models"

	"github.com/shopspring/decimal"
)

// ListCartItems retrieves a user's cart lines joined with product name and
// image, most recently added first
func (s *Store) ListCartItems(ctx context.Context, userID int64) ([]models.CartItem, error) {
	items := []models.CartItem{}
	err := s.db.SelectContext(ctx, &items, `
		SELECT ci.id, ci.user_id, ci.product_id, ci.quantity, ci.price_at_purchase, ci.created_at,
		       p.name AS product_name, p.image_url AS product_image
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.created_at DESC, ci.id DESC`, userID)
	return items, err
}

// UpsertCartItem adds a cart line or, when one already exists for the
// (user, product) pair, increments its quantity. The snapshotted price is
// kept from the first add and never refreshed on repeat adds.
func (s *Store) UpsertCartItem(ctx context.Context, userID, productID int64, quantity int, price decimal.Decimal) (*models.CartItem, error) {
	var item models.CartItem
	query := `
		INSERT INTO cart_items (user_id, product_id, quantity, price_at_purchase)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING id, user_id, product_id, quantity, price_at_purchase, created_at`

	err := s.db.GetContext(ctx, &item, query, userID, productID, quantity, price)
	if err != nil {
		return nil, fmt.Errorf("upsert cart item: %w", err)
	}
	return &item, nil
}

// UpdateCartItemQuantity sets the quantity of a cart line owned by userID.
// A line that does not exist or belongs to someone else reads the same:
// ErrNotFound.
func (s *Store) UpdateCartItemQuantity(ctx context.Context, userID, itemID int64, quantity int) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE cart_items SET quantity = $1 WHERE id = $2 AND user_id = $3",
		quantity, itemID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("cart item %d: %w", itemID, ErrNotFound)
	}
	return nil
}

// DeleteCartItem removes a cart line owned by userID
func (s *Store) DeleteCartItem(ctx context.Context, userID, itemID int64) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM cart_items WHERE id = $1 AND user_id = $2", itemID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("cart item %d: %w", itemID, ErrNotFound)
	}
	return nil
}

// GetCartLine retrieves a user's line for a product, if any
func (s *Store) GetCartLine(ctx context.Context, userID, productID int64) (*models.CartItem, error) {
	var item models.CartItem
	err := s.db.GetContext(ctx, &item,
		"SELECT id, user_id, product_id, quantity, price_at_purchase, created_at FROM cart_items WHERE user_id = $1 AND product_id = $2",
		userID, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("cart line for product %d: %w", productID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}
