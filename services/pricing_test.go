package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/KeshavX3/ERP-2/models"
	"github.com/KeshavX3/ERP-2/services"
)

func TestCalculateQuoteDocumentedExample(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	items := []models.CartItem{
		{Price: 100, DiscountPrice: 80, Quantity: 2},
	}

	quote := services.CalculateQuote(items, models.DeliveryStandard, now)

	assert.Equal(t, 160.00, quote.Subtotal)
	assert.Equal(t, 5.99, quote.Shipping)
	assert.Equal(t, 13.28, quote.Tax)
	assert.Equal(t, 179.27, quote.Total)
	assert.Equal(t, "4-6 business days", quote.DeliveryRange)
}

func TestCalculateQuoteUsesDiscountPriceOnlyWhenSet(t *testing.T) {
	now := time.Now()
	items := []models.CartItem{
		{Price: 50, Quantity: 1},
		{Price: 30, DiscountPrice: 25, Quantity: 2},
	}

	quote := services.CalculateQuote(items, models.DeliveryEconomy, now)
	assert.Equal(t, 100.00, quote.Subtotal)
	assert.Equal(t, 0.00, quote.Shipping)
}

func TestCalculateQuoteTotalIdentity(t *testing.T) {
	now := time.Now()
	items := []models.CartItem{
		{Price: 19.99, Quantity: 3},
		{Price: 249.50, DiscountPrice: 199.99, Quantity: 1},
		{Price: 4.25, Quantity: 7},
	}

	for _, option := range []string{models.DeliveryEconomy, models.DeliveryStandard, models.DeliveryExpress} {
		quote := services.CalculateQuote(items, option, now)
		assert.InDelta(t, quote.Subtotal+quote.Shipping+quote.Tax, quote.Total, 0.001,
			"total identity must hold for %s", option)
		assert.InDelta(t, (quote.Subtotal+quote.Shipping)*services.TaxRate, quote.Tax, 0.005,
			"tax applies to subtotal plus shipping for %s", option)
	}
}

func TestCalculateQuoteDeliveryDayOffsets(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	items := []models.CartItem{{Price: 10, Quantity: 1}}

	tests := []struct {
		option string
		days   int
	}{
		{models.DeliveryEconomy, 7},
		{models.DeliveryStandard, 5},
		{models.DeliveryExpress, 2},
	}
	for _, tt := range tests {
		quote := services.CalculateQuote(items, tt.option, now)
		assert.Equal(t, now.Add(time.Duration(tt.days)*24*time.Hour), quote.EstimatedDelivery,
			"offset for %s", tt.option)
	}
}

func TestCalculateQuoteUnknownOptionFallsBackToStandard(t *testing.T) {
	now := time.Now()
	items := []models.CartItem{{Price: 10, Quantity: 1}}

	quote := services.CalculateQuote(items, "overnight-drone", now)
	standard := services.CalculateQuote(items, models.DeliveryStandard, now)

	assert.Equal(t, standard.Shipping, quote.Shipping)
	assert.Equal(t, standard.Total, quote.Total)
	assert.Equal(t, standard.EstimatedDelivery, quote.EstimatedDelivery)
}

func TestShippingCostTable(t *testing.T) {
	assert.Equal(t, 0.00, services.ShippingCost(models.DeliveryEconomy))
	assert.Equal(t, 5.99, services.ShippingCost(models.DeliveryStandard))
	assert.Equal(t, 15.99, services.ShippingCost(models.DeliveryExpress))
	assert.Equal(t, 5.99, services.ShippingCost("carrier-pigeon"))
}
