package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses. An order only ever moves forward through the first five;
// cancelled is reachable from anything except shipped and delivered.
const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

// Payment methods are labels only; no processing happens.
const (
	PaymentCard   = "card"
	PaymentPaypal = "paypal"
	PaymentCOD    = "cod"
)

// Delivery options
const (
	DeliveryEconomy  = "economy"
	DeliveryStandard = "standard"
	DeliveryExpress  = "express"
)

// Delivery statuses, derived at read time from status and estimatedDelivery.
const (
	DeliveryStatusDelivered  = "delivered"
	DeliveryStatusCancelled  = "cancelled"
	DeliveryStatusDelayed    = "delayed"
	DeliveryStatusInTransit  = "in-transit"
	DeliveryStatusProcessing = "processing"
)

// NamedRef is a name+id pair snapshotted from a catalog record.
type NamedRef struct {
	Name string              `json:"name" bson:"name"`
	ID   *primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
}

// OrderItem is an immutable snapshot of a product taken at order time.
// Later catalog edits or deletions never touch it, so historical orders
// keep the prices and names the buyer saw.
type OrderItem struct {
	Product       *primitive.ObjectID `json:"product,omitempty" bson:"product,omitempty"`
	Name          string              `json:"name" bson:"name"`
	Image         string              `json:"image,omitempty" bson:"image,omitempty"`
	Price         float64             `json:"price" bson:"price"`
	DiscountPrice float64             `json:"discountPrice,omitempty" bson:"discountPrice,omitempty"`
	Quantity      int                 `json:"quantity" bson:"quantity"`
	Category      *NamedRef           `json:"category,omitempty" bson:"category,omitempty"`
	Brand         *NamedRef           `json:"brand,omitempty" bson:"brand,omitempty"`
}

// UnitPrice is the effective per-unit price of the snapshot.
func (i OrderItem) UnitPrice() float64 {
	if i.DiscountPrice > 0 {
		return i.DiscountPrice
	}
	return i.Price
}

// ShippingAddress is embedded on the order; every field is mandatory.
type ShippingAddress struct {
	FirstName string `json:"firstName" bson:"firstName"`
	LastName  string `json:"lastName" bson:"lastName"`
	Email     string `json:"email" bson:"email"`
	Phone     string `json:"phone" bson:"phone"`
	Address   string `json:"address" bson:"address"`
	City      string `json:"city" bson:"city"`
	State     string `json:"state" bson:"state"`
	ZipCode   string `json:"zipCode" bson:"zipCode"`
	Country   string `json:"country" bson:"country"`
}

// MissingFields returns the names of required address fields left empty.
func (a ShippingAddress) MissingFields() []string {
	var missing []string
	checks := []struct {
		name  string
		value string
	}{
		{"firstName", a.FirstName},
		{"lastName", a.LastName},
		{"email", a.Email},
		{"phone", a.Phone},
		{"address", a.Address},
		{"city", a.City},
		{"state", a.State},
		{"zipCode", a.ZipCode},
		{"country", a.Country},
	}
	for _, c := range checks {
		if c.value == "" {
			missing = append(missing, c.name)
		}
	}
	return missing
}

// Order is the durable record of a completed checkout. Monetary fields are
// stored as facts computed once at creation and never re-derived.
type Order struct {
	ID                primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	OrderID           string             `json:"orderId" bson:"orderId"`
	User              primitive.ObjectID `json:"user" bson:"user"`
	Items             []OrderItem        `json:"items" bson:"items"`
	ShippingAddress   ShippingAddress    `json:"shippingAddress" bson:"shippingAddress"`
	PaymentMethod     string             `json:"paymentMethod" bson:"paymentMethod"`
	DeliveryOption    string             `json:"deliveryOption" bson:"deliveryOption"`
	Subtotal          float64            `json:"subtotal" bson:"subtotal"`
	Shipping          float64            `json:"shipping" bson:"shipping"`
	Tax               float64            `json:"tax" bson:"tax"`
	Total             float64            `json:"total" bson:"total"`
	Status            string             `json:"status" bson:"status"`
	TrackingNumber    string             `json:"trackingNumber,omitempty" bson:"trackingNumber,omitempty"`
	Notes             string             `json:"notes,omitempty" bson:"notes,omitempty"`
	EstimatedDelivery time.Time          `json:"estimatedDelivery" bson:"estimatedDelivery"`
	ActualDelivery    *time.Time         `json:"actualDelivery,omitempty" bson:"actualDelivery,omitempty"`
	OrderDate         time.Time          `json:"orderDate" bson:"orderDate"`
	CreatedAt         time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// FormattedOrderID is the display form of the order identifier.
func (o *Order) FormattedOrderID() string {
	return "ORD-" + o.OrderID
}

// DeliveryStatus derives the read-time delivery label. Terminal statuses
// win; a past estimate on a live order reports delayed.
func (o *Order) DeliveryStatus(now time.Time) string {
	switch {
	case o.Status == StatusDelivered:
		return DeliveryStatusDelivered
	case o.Status == StatusCancelled:
		return DeliveryStatusCancelled
	case now.After(o.EstimatedDelivery):
		return DeliveryStatusDelayed
	case o.Status == StatusShipped:
		return DeliveryStatusInTransit
	default:
		return DeliveryStatusProcessing
	}
}

// DaysToDelivery is the whole days remaining until the estimate, never
// negative, and always 0 for delivered or cancelled orders.
func (o *Order) DaysToDelivery(now time.Time) int {
	if o.Status == StatusDelivered || o.Status == StatusCancelled {
		return 0
	}
	days := int(math.Ceil(o.EstimatedDelivery.Sub(now).Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}

// CanCancel reports whether the order is still cancellable.
func (o *Order) CanCancel() bool {
	return o.Status != StatusShipped && o.Status != StatusDelivered
}

// ValidStatus reports whether s is one of the six order status tags.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing,
		StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// ValidPaymentMethod reports whether s is a known payment label.
func ValidPaymentMethod(s string) bool {
	switch s {
	case PaymentCard, PaymentPaypal, PaymentCOD:
		return true
	}
	return false
}

// ValidDeliveryOption reports whether s is a known delivery tier.
func ValidDeliveryOption(s string) bool {
	switch s {
	case DeliveryEconomy, DeliveryStandard, DeliveryExpress:
		return true
	}
	return false
}
