package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/KeshavX3/ERP-2/apperrors"
	"github.com/KeshavX3/ERP-2/kafka"
	"github.com/KeshavX3/ERP-2/models"
	"github.com/KeshavX3/ERP-2/repository"
)

// CreateOrderRequest is the checkout payload. Items are the submitted cart
// snapshot, not live product references; monetary fields are optional and
// recomputed by the pricing calculator when omitted.
type CreateOrderRequest struct {
	Items             []models.CartItem      `json:"items" binding:"required"`
	ShippingAddress   models.ShippingAddress `json:"shippingAddress" binding:"required"`
	PaymentMethod     string                 `json:"paymentMethod" binding:"required"`
	DeliveryOption    string                 `json:"deliveryOption" binding:"required"`
	Subtotal          float64                `json:"subtotal"`
	Shipping          float64                `json:"shipping"`
	Tax               float64                `json:"tax"`
	Total             float64                `json:"total"`
	EstimatedDelivery *time.Time             `json:"estimatedDelivery"`
}

// UpdateStatusRequest is the operator payload for status changes.
type UpdateStatusRequest struct {
	Status         string `json:"status" binding:"required"`
	TrackingNumber string `json:"trackingNumber"`
	Notes          string `json:"notes"`
}

// OrderView is an order with its read-time derived fields attached.
type OrderView struct {
	models.Order
	FormattedOrderID string `json:"formattedOrderId"`
	DeliveryStatus   string `json:"deliveryStatus"`
	DaysToDelivery   int    `json:"daysToDelivery"`
}

// Pagination is the page block shared by list responses.
type Pagination struct {
	Current int   `json:"current"`
	Pages   int64 `json:"pages"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
}

// OrderListResult is the paginated listing response.
type OrderListResult struct {
	Orders     []OrderView `json:"orders"`
	Pagination Pagination  `json:"pagination"`
}

// OrderStats is the per-user dashboard summary.
type OrderStats struct {
	TotalOrders     int64                    `json:"totalOrders"`
	TotalSpent      float64                  `json:"totalSpent"`
	StatusBreakdown []repository.StatusGroup `json:"statusBreakdown"`
	RecentOrders    []OrderView              `json:"recentOrders"`
}

// OrderService owns the order lifecycle: creation from checkout, reads
// with derived fields, operator status updates, and user cancellation.
type OrderService struct {
	orders   repository.OrderRepository
	carts    repository.CartStore
	producer kafka.ProducerAPI
	idGen    *orderIDGen
	now      func() time.Time
}

func NewOrderService(orders repository.OrderRepository, carts repository.CartStore, producer kafka.ProducerAPI) *OrderService {
	return &OrderService{
		orders:   orders,
		carts:    carts,
		producer: producer,
		idGen:    newOrderIDGen(nil),
		now:      time.Now,
	}
}

// view attaches the derived fields, always computed against the current
// clock so two reads on different days can disagree.
func (s *OrderService) view(order models.Order) OrderView {
	now := s.now()
	return OrderView{
		Order:            order,
		FormattedOrderID: order.FormattedOrderID(),
		DeliveryStatus:   order.DeliveryStatus(now),
		DaysToDelivery:   order.DaysToDelivery(now),
	}
}

// Create validates the checkout payload, snapshots the submitted cart into
// order items, assigns an id and persists the order with status confirmed.
func (s *OrderService) Create(ctx context.Context, userID primitive.ObjectID, req *CreateOrderRequest) (*OrderView, error) {
	if len(req.Items) == 0 {
		return nil, apperrors.Validation("Order must contain at least one item")
	}
	if missing := req.ShippingAddress.MissingFields(); len(missing) > 0 {
		return nil, apperrors.Validation("Missing required shipping address fields: " + strings.Join(missing, ", "))
	}
	if !models.ValidPaymentMethod(req.PaymentMethod) {
		return nil, apperrors.Validation("Invalid payment method")
	}
	if !models.ValidDeliveryOption(req.DeliveryOption) {
		return nil, apperrors.Validation("Invalid delivery option")
	}

	now := s.now().UTC()

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		snapshot := models.OrderItem{
			Name:          item.Name,
			Image:         item.Image,
			Price:         item.Price,
			DiscountPrice: item.DiscountPrice,
			Quantity:      qty,
			Category:      item.Category,
			Brand:         item.Brand,
		}
		if oid, err := primitive.ObjectIDFromHex(item.ProductID); err == nil {
			snapshot.Product = &oid
		}
		if snapshot.Name == "" {
			snapshot.Name = "Unknown Product"
		}
		items = append(items, snapshot)
	}

	// The client may submit totals it showed the buyer; absent those the
	// calculator is authoritative. Either way the figures are stored as
	// facts and never re-derived.
	quote := CalculateQuote(req.Items, req.DeliveryOption, now)
	subtotal, shipping, tax, total := req.Subtotal, req.Shipping, req.Tax, req.Total
	if total == 0 {
		subtotal, shipping, tax, total = quote.Subtotal, quote.Shipping, quote.Tax, quote.Total
	}
	estimated := quote.EstimatedDelivery
	if req.EstimatedDelivery != nil && !req.EstimatedDelivery.IsZero() {
		estimated = *req.EstimatedDelivery
	}

	order := models.Order{
		OrderID:           s.idGen.Next(),
		User:              userID,
		Items:             items,
		ShippingAddress:   req.ShippingAddress,
		PaymentMethod:     req.PaymentMethod,
		DeliveryOption:    req.DeliveryOption,
		Subtotal:          subtotal,
		Shipping:          shipping,
		Tax:               tax,
		Total:             total,
		Status:            models.StatusConfirmed,
		EstimatedDelivery: estimated,
		OrderDate:         now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.orders.Create(ctx, &order); err != nil {
		// One retry with a fresh id covers the cross-process
		// same-millisecond race the unique index surfaces.
		if mongo.IsDuplicateKeyError(err) {
			order.OrderID = s.idGen.Next()
			err = s.orders.Create(ctx, &order)
		}
		if err != nil {
			return nil, apperrors.Internal("Failed to create order", err)
		}
	}

	if s.carts != nil {
		if err := s.carts.Clear(ctx, userID.Hex()); err != nil {
			zap.L().Warn("Failed to clear cart after checkout",
				zap.String("user_id", userID.Hex()), zap.Error(err))
		}
	}

	s.publish(ctx, kafka.OrderEvent{
		Type:    kafka.EventOrderCreated,
		OrderID: order.OrderID,
		UserID:  userID.Hex(),
		Status:  order.Status,
		Total:   order.Total,
	})

	view := s.view(order)
	return &view, nil
}

// List returns the caller's orders, newest first, with derived fields.
func (s *OrderService) List(ctx context.Context, userID primitive.ObjectID, filter repository.OrderListFilter) (*OrderListResult, error) {
	orders, total, err := s.orders.FindByUser(ctx, userID, filter)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch orders", err)
	}

	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, s.view(o))
	}

	return &OrderListResult{
		Orders: views,
		Pagination: Pagination{
			Current: filter.Page,
			Pages:   totalPages(total, filter.Limit),
			Total:   total,
			Limit:   filter.Limit,
		},
	}, nil
}

// Get returns one of the caller's orders. Unknown and malformed ids are
// both reported as not found.
func (s *OrderService) Get(ctx context.Context, userID primitive.ObjectID, orderID string) (*OrderView, error) {
	order, err := s.findOwned(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	view := s.view(*order)
	return &view, nil
}

// UpdateStatus applies an operator status change. The first transition to
// delivered stamps actualDelivery; later updates never move it.
func (s *OrderService) UpdateStatus(ctx context.Context, userID primitive.ObjectID, orderID string, req *UpdateStatusRequest) (*OrderView, error) {
	if !models.ValidStatus(req.Status) {
		return nil, apperrors.Validation("Invalid status")
	}

	order, err := s.findOwned(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	order.Status = req.Status
	if req.TrackingNumber != "" {
		order.TrackingNumber = req.TrackingNumber
	}
	if req.Notes != "" {
		order.Notes = req.Notes
	}
	if req.Status == models.StatusDelivered && order.ActualDelivery == nil {
		delivered := s.now().UTC()
		order.ActualDelivery = &delivered
	}

	if err := s.orders.Update(ctx, order); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("Order not found")
		}
		return nil, apperrors.Internal("Failed to update order status", err)
	}

	s.publish(ctx, kafka.OrderEvent{
		Type:    kafka.EventOrderStatusChanged,
		OrderID: order.OrderID,
		UserID:  userID.Hex(),
		Status:  order.Status,
	})

	view := s.view(*order)
	return &view, nil
}

// Cancel moves a pre-shipment order to cancelled. Shipped and delivered
// orders are past the point of no return.
func (s *OrderService) Cancel(ctx context.Context, userID primitive.ObjectID, orderID string) (*OrderView, error) {
	order, err := s.findOwned(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	if !order.CanCancel() {
		return nil, apperrors.InvalidState("Cannot cancel order that has been shipped or delivered")
	}

	order.Status = models.StatusCancelled
	if err := s.orders.Update(ctx, order); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("Order not found")
		}
		return nil, apperrors.Internal("Failed to cancel order", err)
	}

	s.publish(ctx, kafka.OrderEvent{
		Type:    kafka.EventOrderCancelled,
		OrderID: order.OrderID,
		UserID:  userID.Hex(),
		Status:  order.Status,
	})

	view := s.view(*order)
	return &view, nil
}

// Stats aggregates the caller's orders for the dashboard: totals, a
// per-status breakdown and the five most recent orders.
func (s *OrderService) Stats(ctx context.Context, userID primitive.ObjectID) (*OrderStats, error) {
	totalOrders, err := s.orders.CountByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch order statistics", err)
	}
	totalSpent, err := s.orders.TotalSpent(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch order statistics", err)
	}
	breakdown, err := s.orders.StatusBreakdown(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch order statistics", err)
	}
	recent, err := s.orders.FindRecent(ctx, userID, 5)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch order statistics", err)
	}

	views := make([]OrderView, 0, len(recent))
	for _, o := range recent {
		views = append(views, s.view(o))
	}
	if breakdown == nil {
		breakdown = []repository.StatusGroup{}
	}

	return &OrderStats{
		TotalOrders:     totalOrders,
		TotalSpent:      totalSpent,
		StatusBreakdown: breakdown,
		RecentOrders:    views,
	}, nil
}

func (s *OrderService) findOwned(ctx context.Context, userID primitive.ObjectID, orderID string) (*models.Order, error) {
	order, err := s.orders.FindByOrderIDAndUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("Order not found")
		}
		return nil, apperrors.Internal("Failed to fetch order", err)
	}
	return order, nil
}

// publish emits an order event, best-effort. Event failures never fail the
// request that produced them.
func (s *OrderService) publish(ctx context.Context, event kafka.OrderEvent) {
	if s.producer == nil {
		return
	}
	event.Timestamp = s.now().UTC()
	if err := s.producer.PublishOrderEvent(ctx, event); err != nil {
		zap.L().Warn(fmt.Sprintf("Failed to publish %s event", event.Type),
			zap.String("order_id", event.OrderID), zap.Error(err))
	}
}

func totalPages(total int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}
