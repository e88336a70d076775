package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KeshavX3/ERP-2/apperrors"
	"github.com/KeshavX3/ERP-2/middleware"
	"github.com/KeshavX3/ERP-2/models"
	"github.com/KeshavX3/ERP-2/repository"
	"github.com/KeshavX3/ERP-2/services"
)

type OrderController struct {
	orderService *services.OrderService
}

func NewOrderController(orderService *services.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

// CreateOrder handles checkout submission.
func (oc *OrderController) CreateOrder(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	var req services.CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request", "details": err.Error()})
		return
	}

	order, serviceErr := oc.orderService.Create(ctx.Request.Context(), userID, &req)
	if serviceErr != nil {
		apperrors.Respond(ctx, serviceErr)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Order created successfully",
		"order":   order,
	})
}

// GetOrders returns the caller's orders, paginated and filterable by
// status and creation date range.
func (oc *OrderController) GetOrders(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	page, limit := parsePaginationParams(ctx)
	filter := repository.OrderListFilter{
		Status:    ctx.Query("status"),
		StartDate: parseDateParam(ctx.Query("startDate")),
		EndDate:   parseDateParam(ctx.Query("endDate")),
		Page:      page,
		Limit:     limit,
	}

	result, serviceErr := oc.orderService.List(ctx.Request.Context(), userID, filter)
	if serviceErr != nil {
		apperrors.Respond(ctx, serviceErr)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// GetOrderByID returns one of the caller's orders with derived fields.
func (oc *OrderController) GetOrderByID(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	order, serviceErr := oc.orderService.Get(ctx.Request.Context(), userID, ctx.Param("orderId"))
	if serviceErr != nil {
		apperrors.Respond(ctx, serviceErr)
		return
	}
	ctx.JSON(http.StatusOK, order)
}

// UpdateOrderStatus is the operator path for moving an order through its
// lifecycle and attaching tracking details.
func (oc *OrderController) UpdateOrderStatus(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	var req services.UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request", "details": err.Error()})
		return
	}

	order, serviceErr := oc.orderService.UpdateStatus(ctx.Request.Context(), userID, ctx.Param("orderId"), &req)
	if serviceErr != nil {
		apperrors.Respond(ctx, serviceErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Order status updated successfully",
		"order":   order,
	})
}

// CancelOrder cancels a pre-shipment order.
func (oc *OrderController) CancelOrder(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	order, serviceErr := oc.orderService.Cancel(ctx.Request.Context(), userID, ctx.Param("orderId"))
	if serviceErr != nil {
		apperrors.Respond(ctx, serviceErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Order cancelled successfully",
		"order":   order,
	})
}

// GetOrderStats returns the caller's dashboard summary.
func (oc *OrderController) GetOrderStats(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	stats, serviceErr := oc.orderService.Stats(ctx.Request.Context(), userID)
	if serviceErr != nil {
		apperrors.Respond(ctx, serviceErr)
		return
	}
	ctx.JSON(http.StatusOK, stats)
}

// QuoteOrder runs the pricing calculator without creating anything.
func (oc *OrderController) QuoteOrder(ctx *gin.Context) {
	var req struct {
		Items          []models.CartItem `json:"items" binding:"required"`
		DeliveryOption string            `json:"deliveryOption" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request", "details": err.Error()})
		return
	}

	quote := services.CalculateQuote(req.Items, req.DeliveryOption, time.Now())
	ctx.JSON(http.StatusOK, quote)
}
