package notify

import (
	"testing"

	"shop-service/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOrderConfirmationHTML(t *testing.T) {
	event := &models.OrderPlacedEvent{
		OrderID:           42,
		FulfillmentMethod: models.FulfillmentDelivery,
		TotalAmount:       decimal.RequireFromString("27.93"),
		Items: []models.OrderItemData{
			{ProductID: 1, Quantity: 2, PriceAtPurchase: decimal.RequireFromString("3.99")},
			{ProductID: 2, Quantity: 1, PriceAtPurchase: decimal.RequireFromString("19.95")},
		},
	}

	html := orderConfirmationHTML(event)
	assert.Contains(t, html, "order #42")
	assert.Contains(t, html, "27.93")
	assert.Contains(t, html, "3.99")
	// line total for 2 x 3.99
	assert.Contains(t, html, "7.98")
}
