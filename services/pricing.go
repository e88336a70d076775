package services

import (
	"fmt"
	"math"
	"time"

	"github.com/KeshavX3/ERP-2/models"
)

// Shipping cost per delivery tier. Unknown tiers fall back to standard.
var shippingRates = map[string]float64{
	models.DeliveryEconomy:  0,
	models.DeliveryStandard: 5.99,
	models.DeliveryExpress:  15.99,
}

// Days until estimated delivery per tier.
var deliveryDays = map[string]int{
	models.DeliveryEconomy:  7,
	models.DeliveryStandard: 5,
	models.DeliveryExpress:  2,
}

// TaxRate is the flat rate applied to subtotal plus shipping.
const TaxRate = 0.08

// Quote is the monetary breakdown persisted verbatim onto the order.
// DeliveryRange is display-only and never stored.
type Quote struct {
	Subtotal          float64   `json:"subtotal"`
	Shipping          float64   `json:"shipping"`
	Tax               float64   `json:"tax"`
	Total             float64   `json:"total"`
	EstimatedDelivery time.Time `json:"estimatedDelivery"`
	DeliveryRange     string    `json:"deliveryRange"`
}

// ShippingCost returns the flat rate for a delivery option.
func ShippingCost(deliveryOption string) float64 {
	if rate, ok := shippingRates[deliveryOption]; ok {
		return rate
	}
	return shippingRates[models.DeliveryStandard]
}

// DeliveryDays returns the day offset for a delivery option.
func DeliveryDays(deliveryOption string) int {
	if days, ok := deliveryDays[deliveryOption]; ok {
		return days
	}
	return deliveryDays[models.DeliveryStandard]
}

// CalculateQuote turns cart items and a delivery option into the monetary
// breakdown. Pure: same inputs and clock always give the same output.
func CalculateQuote(items []models.CartItem, deliveryOption string, now time.Time) Quote {
	var subtotal float64
	for _, item := range items {
		unit := item.Price
		if item.DiscountPrice > 0 {
			unit = item.DiscountPrice
		}
		subtotal += unit * float64(item.Quantity)
	}
	subtotal = round2(subtotal)

	shipping := ShippingCost(deliveryOption)
	tax := round2((subtotal + shipping) * TaxRate)
	total := round2(subtotal + shipping + tax)

	days := DeliveryDays(deliveryOption)
	return Quote{
		Subtotal:          subtotal,
		Shipping:          shipping,
		Tax:               tax,
		Total:             total,
		EstimatedDelivery: now.Add(time.Duration(days) * 24 * time.Hour),
		DeliveryRange:     fmt.Sprintf("%d-%d business days", days-1, days+1),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
