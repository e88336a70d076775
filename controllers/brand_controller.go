package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KeshavX3/ERP-2/apperrors"
	"github.com/KeshavX3/ERP-2/services"
)

type BrandController struct {
	brandService *services.BrandService
}

func NewBrandController(brandService *services.BrandService) *BrandController {
	return &BrandController{brandService: brandService}
}

func (bc *BrandController) GetBrands(ctx *gin.Context) {
	brands, err := bc.brandService.List(ctx.Request.Context())
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"brands": brands})
}

func (bc *BrandController) GetBrandByID(ctx *gin.Context) {
	brand, err := bc.brandService.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, brand)
}

func (bc *BrandController) CreateBrand(ctx *gin.Context) {
	var req services.BrandRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request", "details": err.Error()})
		return
	}

	brand, err := bc.brandService.Create(ctx.Request.Context(), &req)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"message": "Brand created successfully", "brand": brand})
}

func (bc *BrandController) UpdateBrand(ctx *gin.Context) {
	var req services.BrandRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request", "details": err.Error()})
		return
	}

	brand, err := bc.brandService.Update(ctx.Request.Context(), ctx.Param("id"), &req)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Brand updated successfully", "brand": brand})
}

func (bc *BrandController) DeleteBrand(ctx *gin.Context) {
	if err := bc.brandService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		apperrors.Respond(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Brand deleted successfully"})
}
