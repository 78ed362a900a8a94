package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shop-service/internal/models"

	"github.com/go-redis/redis/v8"
)

const (
	productKeyPrefix = "product:"
	productListKey   = "products:all"
	cacheTTL         = 5 * time.Minute
)

// Client caches catalog reads. Cache misses and failures fall back to the
// database; it is never used for revocation state.
type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// GetProduct retrieves a cached product, or redis.Nil on a miss
func (c *Client) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	data, err := c.rdb.Get(ctx, fmt.Sprintf("%s%d", productKeyPrefix, id)).Bytes()
	if err != nil {
		return nil, err
	}
	var product models.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// SetProduct caches a product
func (c *Client) SetProduct(ctx context.Context, product *models.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, fmt.Sprintf("%s%d", productKeyPrefix, product.ID), data, cacheTTL).Err()
}

// GetProductList retrieves the cached catalog listing, or redis.Nil on a miss
func (c *Client) GetProductList(ctx context.Context) ([]models.Product, error) {
	data, err := c.rdb.Get(ctx, productListKey).Bytes()
	if err != nil {
		return nil, err
	}
	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// SetProductList caches the catalog listing
func (c *Client) SetProductList(ctx context.Context, products []models.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, productListKey, data, cacheTTL).Err()
}

// InvalidateProduct drops a product and the listing from the cache after
// an admin write
func (c *Client) InvalidateProduct(ctx context.Context, id int64) error {
	return c.rdb.Del(ctx, fmt.Sprintf("%s%d", productKeyPrefix, id), productListKey).Err()
}

// IsCacheMiss reports whether err is a plain cache miss
func IsCacheMiss(err error) bool {
	return err == redis.Nil
}
