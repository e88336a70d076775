package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/KeshavX3/ERP-2/apperrors"
	"github.com/KeshavX3/ERP-2/middleware"
	"github.com/KeshavX3/ERP-2/repository"
	"github.com/KeshavX3/ERP-2/services"
)

type ProductController struct {
	productService *services.ProductService
}

func NewProductController(productService *services.ProductService) *ProductController {
	return &ProductController{productService: productService}
}

func (pc *ProductController) GetProducts(ctx *gin.Context) {
	page, limit := parsePaginationParams(ctx)
	filter := repository.ProductListFilter{
		Search:    ctx.Query("search"),
		SortBy:    ctx.DefaultQuery("sortBy", "createdAt"),
		SortOrder: ctx.DefaultQuery("sortOrder", "desc"),
		Page:      page,
		Limit:     limit,
	}

	if category := ctx.Query("category"); category != "" {
		if oid, err := primitive.ObjectIDFromHex(category); err == nil {
			filter.Category = &oid
		}
	}
	if brand := ctx.Query("brand"); brand != "" {
		if oid, err := primitive.ObjectIDFromHex(brand); err == nil {
			filter.Brand = &oid
		}
	}
	if min := ctx.Query("minPrice"); min != "" {
		if v, err := strconv.ParseFloat(min, 64); err == nil {
			filter.MinPrice = &v
		}
	}
	if max := ctx.Query("maxPrice"); max != "" {
		if v, err := strconv.ParseFloat(max, 64); err == nil {
			filter.MaxPrice = &v
		}
	}

	result, err := pc.productService.List(ctx.Request.Context(), filter)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

func (pc *ProductController) GetProductByID(ctx *gin.Context) {
	product, err := pc.productService.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, product)
}

func (pc *ProductController) CreateProduct(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	var req services.CreateProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request", "details": err.Error()})
		return
	}

	product, serviceErr := pc.productService.Create(ctx.Request.Context(), userID, &req)
	if serviceErr != nil {
		apperrors.Respond(ctx, serviceErr)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"message": "Product created successfully", "product": product})
}

func (pc *ProductController) UpdateProduct(ctx *gin.Context) {
	var req services.CreateProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request", "details": err.Error()})
		return
	}

	product, serviceErr := pc.productService.Update(ctx.Request.Context(), ctx.Param("id"), &req)
	if serviceErr != nil {
		apperrors.Respond(ctx, serviceErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "product": product})
}

func (pc *ProductController) DeleteProduct(ctx *gin.Context) {
	if err := pc.productService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		apperrors.Respond(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

func (pc *ProductController) GetProductStats(ctx *gin.Context) {
	stats, err := pc.productService.Stats(ctx.Request.Context())
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, stats)
}
