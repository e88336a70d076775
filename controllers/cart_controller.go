package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KeshavX3/ERP-2/apperrors"
	"github.com/KeshavX3/ERP-2/middleware"
	"github.com/KeshavX3/ERP-2/services"
)

type CartController struct {
	cartService *services.CartService
}

func NewCartController(cartService *services.CartService) *CartController {
	return &CartController{cartService: cartService}
}

func (cc *CartController) GetCart(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	cart, serviceErr := cc.cartService.Get(ctx.Request.Context(), userID.Hex())
	if serviceErr != nil {
		apperrors.Respond(ctx, serviceErr)
		return
	}
	ctx.JSON(http.StatusOK, cart)
}

func (cc *CartController) AddItem(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	var req services.AddCartItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request", "details": err.Error()})
		return
	}

	cart, serviceErr := cc.cartService.AddItem(ctx.Request.Context(), userID.Hex(), &req)
	if serviceErr != nil {
		apperrors.Respond(ctx, serviceErr)
		return
	}
	ctx.JSON(http.StatusOK, cart)
}

func (cc *CartController) SetQuantity(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	var req services.SetCartQuantityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request", "details": err.Error()})
		return
	}

	cart, serviceErr := cc.cartService.SetQuantity(ctx.Request.Context(), userID.Hex(), ctx.Param("productId"), req.Quantity)
	if serviceErr != nil {
		apperrors.Respond(ctx, serviceErr)
		return
	}
	ctx.JSON(http.StatusOK, cart)
}

func (cc *CartController) RemoveItem(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	cart, serviceErr := cc.cartService.RemoveItem(ctx.Request.Context(), userID.Hex(), ctx.Param("productId"))
	if serviceErr != nil {
		apperrors.Respond(ctx, serviceErr)
		return
	}
	ctx.JSON(http.StatusOK, cart)
}

func (cc *CartController) ClearCart(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	if serviceErr := cc.cartService.Clear(ctx.Request.Context(), userID.Hex()); serviceErr != nil {
		apperrors.Respond(ctx, serviceErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}
