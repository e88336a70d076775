package models

import "time"

// CartItem carries a display snapshot of the product taken when the item
// was added. Checkout re-snapshots from the submitted cart, so stale
// display prices never leak into orders silently.
type CartItem struct {
	ProductID     string    `json:"productId"`
	Name          string    `json:"name"`
	Image         string    `json:"image,omitempty"`
	Price         float64   `json:"price"`
	DiscountPrice float64   `json:"discountPrice,omitempty"`
	Quantity      int       `json:"quantity"`
	Category      *NamedRef `json:"category,omitempty"`
	Brand         *NamedRef `json:"brand,omitempty"`
}

// Cart is the session-scoped server-side cart. It exists only while the
// user's session does and is cleared on logout.
type Cart struct {
	UserID    string     `json:"userId"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
