package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KeshavX3/ERP-2/apperrors"
	"github.com/KeshavX3/ERP-2/services"
)

type CategoryController struct {
	categoryService *services.CategoryService
}

func NewCategoryController(categoryService *services.CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService}
}

func (cc *CategoryController) GetCategories(ctx *gin.Context) {
	categories, err := cc.categoryService.List(ctx.Request.Context())
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (cc *CategoryController) GetCategoryByID(ctx *gin.Context) {
	category, err := cc.categoryService.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, category)
}

func (cc *CategoryController) CreateCategory(ctx *gin.Context) {
	var req services.CategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request", "details": err.Error()})
		return
	}

	category, err := cc.categoryService.Create(ctx.Request.Context(), &req)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"message": "Category created successfully", "category": category})
}

func (cc *CategoryController) UpdateCategory(ctx *gin.Context) {
	var req services.CategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request", "details": err.Error()})
		return
	}

	category, err := cc.categoryService.Update(ctx.Request.Context(), ctx.Param("id"), &req)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Category updated successfully", "category": category})
}

func (cc *CategoryController) DeleteCategory(ctx *gin.Context) {
	if err := cc.categoryService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		apperrors.Respond(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}
