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

type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

type CategoryService struct {
	categories repository.CategoryRepository
}

func NewCategoryService(categories repository.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categories.FindActive(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch categories", err)
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return categories, nil
}

func (s *CategoryService) Get(ctx context.Context, id string) (*models.Category, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NotFound("Category not found")
	}
	category, err := s.categories.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("Category not found")
		}
		return nil, apperrors.Internal("Failed to fetch category", err)
	}
	return category, nil
}

func (s *CategoryService) Create(ctx context.Context, req *CategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > 100 {
		return nil, apperrors.Validation("Category name is required and cannot exceed 100 characters")
	}
	if len(req.Description) > 500 {
		return nil, apperrors.Validation("Description cannot exceed 500 characters")
	}
	if existing, err := s.categories.FindByName(ctx, name); err == nil && existing != nil {
		return nil, apperrors.Validation("Category with this name already exists")
	}

	now := time.Now().UTC()
	category := models.Category{
		Name:        name,
		Description: req.Description,
		Image:       req.Image,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.categories.Create(ctx, &category); err != nil {
		return nil, apperrors.Internal("Failed to create category", err)
	}
	return &category, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, req *CategoryRequest) (*models.Category, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NotFound("Category not found")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > 100 {
		return nil, apperrors.Validation("Category name is required and cannot exceed 100 characters")
	}
	if existing, err := s.categories.FindByName(ctx, name); err == nil && existing != nil && existing.ID != oid {
		return nil, apperrors.Validation("Category with this name already exists")
	}

	updates := bson.M{
		"name":        name,
		"description": req.Description,
		"image":       req.Image,
	}
	category, err := s.categories.Update(ctx, oid, updates)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("Category not found")
		}
		return nil, apperrors.Internal("Failed to update category", err)
	}
	return category, nil
}

// Delete is a soft delete; products referencing the category keep working
// and historical order snapshots are unaffected.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.NotFound("Category not found")
	}
	if err := s.categories.SoftDelete(ctx, oid); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperrors.NotFound("Category not found")
		}
		return apperrors.Internal("Failed to delete category", err)
	}
	return nil
}
