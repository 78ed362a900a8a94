package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shop-service/internal/models"

	"github.com/shopspring/decimal"
)

// CreateProduct inserts a new catalog entry
func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (name, description, price, stock_quantity, category, image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, star_rating, created_at, updated_at`

	return s.db.GetContext(ctx, product, query,
		product.Name, product.Description, product.Price,
		product.StockQuantity, product.Category, product.ImageURL)
}

// GetProductByID retrieves a product by ID
func (s *Store) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProducts retrieves all products
func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	err := s.db.SelectContext(ctx, &products, "SELECT * FROM products ORDER BY id")
	return products, err
}

// ProductUpdate carries optional catalog fields; nil means unchanged.
type ProductUpdate struct {
	Name          *string
	Description   *string
	Price         *decimal.Decimal
	StockQuantity *int
	Category      *string
	ImageURL      *string
}

// UpdateProduct applies the supplied fields to a product
func (s *Store) UpdateProduct(ctx context.Context, id int64, u ProductUpdate) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE products SET
			name = COALESCE($1, name),
			description = COALESCE($2, description),
			price = COALESCE($3, price),
			stock_quantity = COALESCE($4, stock_quantity),
			category = COALESCE($5, category),
			image_url = COALESCE($6, image_url),
			updated_at = NOW()
		WHERE id = $7`,
		u.Name, u.Description, u.Price, u.StockQuantity, u.Category, u.ImageURL, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteProduct removes a product
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	return nil
}

// UpdateProductRating writes the recomputed star rating back to the product
func (s *Store) UpdateProductRating(ctx context.Context, productID int64, rating float64) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE products SET star_rating = $1, updated_at = NOW() WHERE id = $2",
		rating, productID)
	return err
}
