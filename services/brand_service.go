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

type BrandRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Logo        string `json:"logo"`
	Website     string `json:"website"`
}

type BrandService struct {
	brands repository.BrandRepository
}

func NewBrandService(brands repository.BrandRepository) *BrandService {
	return &BrandService{brands: brands}
}

func (s *BrandService) List(ctx context.Context) ([]models.Brand, error) {
	brands, err := s.brands.FindActive(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch brands", err)
	}
	if brands == nil {
		brands = []models.Brand{}
	}
	return brands, nil
}

func (s *BrandService) Get(ctx context.Context, id string) (*models.Brand, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NotFound("Brand not found")
	}
	brand, err := s.brands.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("Brand not found")
		}
		return nil, apperrors.Internal("Failed to fetch brand", err)
	}
	return brand, nil
}

func (s *BrandService) Create(ctx context.Context, req *BrandRequest) (*models.Brand, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > 100 {
		return nil, apperrors.Validation("Brand name is required and cannot exceed 100 characters")
	}
	if len(req.Description) > 500 {
		return nil, apperrors.Validation("Description cannot exceed 500 characters")
	}
	if existing, err := s.brands.FindByName(ctx, name); err == nil && existing != nil {
		return nil, apperrors.Validation("Brand with this name already exists")
	}

	now := time.Now().UTC()
	brand := models.Brand{
		Name:        name,
		Description: req.Description,
		Logo:        req.Logo,
		Website:     req.Website,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.brands.Create(ctx, &brand); err != nil {
		return nil, apperrors.Internal("Failed to create brand", err)
	}
	return &brand, nil
}

func (s *BrandService) Update(ctx context.Context, id string, req *BrandRequest) (*models.Brand, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NotFound("Brand not found")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > 100 {
		return nil, apperrors.Validation("Brand name is required and cannot exceed 100 characters")
	}
	if existing, err := s.brands.FindByName(ctx, name); err == nil && existing != nil && existing.ID != oid {
		return nil, apperrors.Validation("Brand with this name already exists")
	}

	updates := bson.M{
		"name":        name,
		"description": req.Description,
		"logo":        req.Logo,
		"website":     req.Website,
	}
	brand, err := s.brands.Update(ctx, oid, updates)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("Brand not found")
		}
		return nil, apperrors.Internal("Failed to update brand", err)
	}
	return brand, nil
}

func (s *BrandService) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.NotFound("Brand not found")
	}
	if err := s.brands.SoftDelete(ctx, oid); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperrors.NotFound("Brand not found")
		}
		return apperrors.Internal("Failed to delete brand", err)
	}
	return nil
}
