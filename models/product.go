package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID            primitive.ObjectID  `json:"_id,omitempty" bson:"_id,omitempty"`
	Name          string              `json:"name" bson:"name"`
	Description   string              `json:"description,omitempty" bson:"description,omitempty"`
	Image         string              `json:"image,omitempty" bson:"image,omitempty"`
	Images        []string            `json:"images,omitempty" bson:"images,omitempty"`
	Price         float64             `json:"price" bson:"price"`
	Discount      float64             `json:"discount" bson:"discount"`
	DiscountPrice float64             `json:"discountPrice" bson:"discountPrice"`
	Category      primitive.ObjectID  `json:"category" bson:"category"`
	Brand         primitive.ObjectID  `json:"brand" bson:"brand"`
	Tags          []string            `json:"tags,omitempty" bson:"tags,omitempty"`
	IsActive      bool                `json:"isActive" bson:"isActive"`
	CreatedBy     primitive.ObjectID  `json:"createdBy" bson:"createdBy"`
	CreatedAt     time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt" bson:"updatedAt"`
	DeletedAt     *time.Time          `json:"-" bson:"deleted_at,omitempty"`
	CategoryRef   *NamedRef           `json:"categoryRef,omitempty" bson:"-"`
	BrandRef      *NamedRef           `json:"brandRef,omitempty" bson:"-"`
}

// ApplyDiscount recomputes the derived discount price, mirroring how the
// catalog always sells at price less the percentage discount.
func (p *Product) ApplyDiscount() {
	if p.Discount > 0 {
		p.DiscountPrice = p.Price - (p.Price * p.Discount / 100)
	} else {
		p.DiscountPrice = p.Price
	}
}
