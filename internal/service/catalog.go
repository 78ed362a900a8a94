package service

import (
	"context"
	"fmt"
	"strings"

	"shop-service/internal/models"
	"shop-service/internal/redisclient"
	"shop-service/internal/store"
	"shop-service/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const maxNameLength = 200

// CatalogStore is the storage surface the catalog service needs
type CatalogStore interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	UpdateProduct(ctx context.Context, id int64, u store.ProductUpdate) error
	DeleteProduct(ctx context.Context, id int64) error
}

// ProductCache caches catalog reads; all methods may fail without
// affecting correctness.
type ProductCache interface {
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	SetProduct(ctx context.Context, product *models.Product) error
	GetProductList(ctx context.Context) ([]models.Product, error)
	SetProductList(ctx context.Context, products []models.Product) error
	InvalidateProduct(ctx context.Context, id int64) error
}

// CatalogService handles product reads and admin-gated writes
type CatalogService struct {
	store  CatalogStore
	cache  ProductCache
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service. cache may be nil.
func NewCatalogService(store CatalogStore, cache ProductCache) *CatalogService {
	return &CatalogService{
		store:  store,
		cache:  cache,
		logger: util.GetLogger(),
	}
}

// CreateProductRequest creates a catalog entry
type CreateProductRequest struct {
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	Category      string          `json:"category,omitempty"`
	ImageURL      string          `json:"image_url,omitempty"`
}

// UpdateProductRequest carries optional catalog fields; omitted fields are
// preserved
type UpdateProductRequest struct {
	Name          *string          `json:"name,omitempty"`
	Description   *string          `json:"description,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	StockQuantity *int             `json:"stock_quantity,omitempty"`
	Category      *string          `json:"category,omitempty"`
	ImageURL      *string          `json:"image_url,omitempty"`
}

// List returns the catalog, preferring the cache when available
func (s *CatalogService) List(ctx context.Context) ([]models.Product, error) {
	if s.cache != nil {
		products, err := s.cache.GetProductList(ctx)
		if err == nil {
			return products, nil
		}
		if !redisclient.IsCacheMiss(err) {
			s.logger.Warn("Product list cache read failed", zap.Error(err))
		}
	}

	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetProductList(ctx, products); err != nil {
			s.logger.Debug("Failed to cache product list", zap.Error(err))
		}
	}
	return products, nil
}

// Get returns one product, preferring the cache when available
func (s *CatalogService) Get(ctx context.Context, id int64) (*models.Product, error) {
	if s.cache != nil {
		product, err := s.cache.GetProduct(ctx, id)
		if err == nil {
			return product, nil
		}
		if !redisclient.IsCacheMiss(err) {
			s.logger.Warn("Product cache read failed", zap.Int64("product_id", id), zap.Error(err))
		}
	}

	product, err := s.store.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetProduct(ctx, product); err != nil {
			s.logger.Debug("Failed to cache product", zap.Int64("product_id", id), zap.Error(err))
		}
	}
	return product, nil
}

// Create adds a catalog entry
func (s *CatalogService) Create(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	if strings.TrimSpace(req.Name) == "" || len(req.Name) > maxNameLength {
		return nil, fmt.Errorf("name must be 1-%d characters: %w", maxNameLength, ErrInvalidInput)
	}
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("price must be non-negative: %w", ErrInvalidInput)
	}
	if req.StockQuantity < 0 {
		return nil, fmt.Errorf("stock quantity must be non-negative: %w", ErrInvalidInput)
	}

	product := &models.Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		Category:      req.Category,
		ImageURL:      req.ImageURL,
	}
	if err := s.store.CreateProduct(ctx, product); err != nil {
		return nil, err
	}

	s.invalidate(ctx, product.ID)
	return product, nil
}

// Update applies the supplied fields to a product
func (s *CatalogService) Update(ctx context.Context, id int64, req *UpdateProductRequest) (*models.Product, error) {
	if req.Name != nil && (strings.TrimSpace(*req.Name) == "" || len(*req.Name) > maxNameLength) {
		return nil, fmt.Errorf("name must be 1-%d characters: %w", maxNameLength, ErrInvalidInput)
	}
	if req.Price != nil && req.Price.IsNegative() {
		return nil, fmt.Errorf("price must be non-negative: %w", ErrInvalidInput)
	}
	if req.StockQuantity != nil && *req.StockQuantity < 0 {
		return nil, fmt.Errorf("stock quantity must be non-negative: %w", ErrInvalidInput)
	}

	err := s.store.UpdateProduct(ctx, id, store.ProductUpdate{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		Category:      req.Category,
		ImageURL:      req.ImageURL,
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	return s.store.GetProductByID(ctx, id)
}

// Delete removes a product
func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateProduct(ctx, id); err != nil {
		s.logger.Debug("Failed to invalidate product cache", zap.Int64("product_id", id), zap.Error(err))
	}
}
