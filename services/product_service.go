package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/KeshavX3/ERP-2/apperrors"
	"github.com/KeshavX3/ERP-2/models"
	"github.com/KeshavX3/ERP-2/repository"
)

type CreateProductRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Images      []string `json:"images"`
	Price       float64  `json:"price" binding:"required,gte=0"`
	Discount    float64  `json:"discount" binding:"gte=0,lte=100"`
	Category    string   `json:"category" binding:"required"`
	Brand       string   `json:"brand" binding:"required"`
	Tags        []string `json:"tags"`
}

type ProductListResult struct {
	Products   []models.Product `json:"products"`
	Pagination Pagination       `json:"pagination"`
}

// ProductStatsSummary is the admin dashboard aggregate.
type ProductStatsSummary struct {
	TotalProducts  int64                      `json:"totalProducts"`
	ActiveProducts int64                      `json:"activeProducts"`
	ByCategory     []repository.CategoryCount `json:"byCategory"`
}

type ProductService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	brands     repository.BrandRepository
}

func NewProductService(products repository.ProductRepository, categories repository.CategoryRepository, brands repository.BrandRepository) *ProductService {
	return &ProductService{products: products, categories: categories, brands: brands}
}

func (s *ProductService) List(ctx context.Context, filter repository.ProductListFilter) (*ProductListResult, error) {
	products, total, err := s.products.Find(ctx, filter)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch products", err)
	}
	if products == nil {
		products = []models.Product{}
	}
	for i := range products {
		s.attachRefs(ctx, &products[i])
	}
	return &ProductListResult{
		Products: products,
		Pagination: Pagination{
			Current: filter.Page,
			Pages:   totalPages(total, filter.Limit),
			Total:   total,
			Limit:   filter.Limit,
		},
	}, nil
}

// Get returns a product by id; malformed ids read as not found.
func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NotFound("Product not found")
	}
	product, err := s.products.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("Product not found")
		}
		return nil, apperrors.Internal("Failed to fetch product", err)
	}
	s.attachRefs(ctx, product)
	return product, nil
}

func (s *ProductService) Create(ctx context.Context, createdBy primitive.ObjectID, req *CreateProductRequest) (*models.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > 200 {
		return nil, apperrors.Validation("Product name is required and cannot exceed 200 characters")
	}
	if len(req.Description) > 2000 {
		return nil, apperrors.Validation("Description cannot exceed 2000 characters")
	}

	categoryID, err := s.resolveCategory(ctx, req.Category)
	if err != nil {
		return nil, err
	}
	brandID, err := s.resolveBrand(ctx, req.Brand)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := models.Product{
		Name:        name,
		Description: req.Description,
		Image:       req.Image,
		Images:      req.Images,
		Price:       req.Price,
		Discount:    req.Discount,
		Category:    categoryID,
		Brand:       brandID,
		Tags:        req.Tags,
		IsActive:    true,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	product.ApplyDiscount()

	if err := s.products.Create(ctx, &product); err != nil {
		return nil, apperrors.Internal("Failed to create product", err)
	}
	s.attachRefs(ctx, &product)
	return &product, nil
}

func (s *ProductService) Update(ctx context.Context, id string, req *CreateProductRequest) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NotFound("Product not found")
	}

	categoryID, err := s.resolveCategory(ctx, req.Category)
	if err != nil {
		return nil, err
	}
	brandID, err := s.resolveBrand(ctx, req.Brand)
	if err != nil {
		return nil, err
	}

	// Recompute the derived discount price on every update.
	staged := models.Product{Price: req.Price, Discount: req.Discount}
	staged.ApplyDiscount()

	updates := bson.M{
		"name":          strings.TrimSpace(req.Name),
		"description":   req.Description,
		"image":         req.Image,
		"images":        req.Images,
		"price":         req.Price,
		"discount":      req.Discount,
		"discountPrice": staged.DiscountPrice,
		"category":      categoryID,
		"brand":         brandID,
		"tags":          req.Tags,
	}

	product, err := s.products.Update(ctx, oid, updates)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("Product not found")
		}
		return nil, apperrors.Internal("Failed to update product", err)
	}
	s.attachRefs(ctx, product)
	return product, nil
}

// Delete soft-deletes; historical order snapshots are untouched.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.NotFound("Product not found")
	}
	if err := s.products.SoftDelete(ctx, oid); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperrors.NotFound("Product not found")
		}
		return apperrors.Internal("Failed to delete product", err)
	}
	return nil
}

func (s *ProductService) Stats(ctx context.Context) (*ProductStatsSummary, error) {
	total, err := s.products.CountTotal(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch product statistics", err)
	}
	active, err := s.products.CountActive(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch product statistics", err)
	}
	byCategory, err := s.products.CountByCategory(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch product statistics", err)
	}
	if byCategory == nil {
		byCategory = []repository.CategoryCount{}
	}
	return &ProductStatsSummary{
		TotalProducts:  total,
		ActiveProducts: active,
		ByCategory:     byCategory,
	}, nil
}

// Snapshot builds the cart-item display snapshot used when a product is
// added to the session cart.
func (s *ProductService) Snapshot(ctx context.Context, id string, quantity int) (*models.CartItem, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, apperrors.NotFound("Product not found")
	}
	if quantity < 1 {
		quantity = 1
	}
	return &models.CartItem{
		ProductID:     product.ID.Hex(),
		Name:          product.Name,
		Image:         product.Image,
		Price:         product.Price,
		DiscountPrice: product.DiscountPrice,
		Quantity:      quantity,
		Category:      product.CategoryRef,
		Brand:         product.BrandRef,
	}, nil
}

func (s *ProductService) resolveCategory(ctx context.Context, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperrors.Validation("Invalid category")
	}
	if _, err := s.categories.FindByID(ctx, oid); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return primitive.NilObjectID, apperrors.Validation("Invalid category")
		}
		return primitive.NilObjectID, apperrors.Internal("Failed to resolve category", err)
	}
	return oid, nil
}

func (s *ProductService) resolveBrand(ctx context.Context, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperrors.Validation("Invalid brand")
	}
	if _, err := s.brands.FindByID(ctx, oid); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return primitive.NilObjectID, apperrors.Validation("Invalid brand")
		}
		return primitive.NilObjectID, apperrors.Internal("Failed to resolve brand", err)
	}
	return oid, nil
}

// attachRefs fills display name+id pairs for category and brand, the
// equivalent of the original populate on product reads. Best-effort.
func (s *ProductService) attachRefs(ctx context.Context, product *models.Product) {
	if category, err := s.categories.FindByID(ctx, product.Category); err == nil {
		id := category.ID
		product.CategoryRef = &models.NamedRef{Name: category.Name, ID: &id}
	}
	if brand, err := s.brands.FindByID(ctx, product.Brand); err == nil {
		id := brand.ID
		product.BrandRef = &models.NamedRef{Name: brand.Name, ID: &id}
	}
}
