package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/KeshavX3/ERP-2/middleware"
	"github.com/KeshavX3/ERP-2/models"
	"github.com/KeshavX3/ERP-2/repository"
	"github.com/KeshavX3/ERP-2/services"
)

type stubOrderRepo struct {
	orders map[string]*models.Order
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[string]*models.Order)}
}

func (s *stubOrderRepo) Create(_ context.Context, order *models.Order) error {
	order.ID = primitive.NewObjectID()
	clone := *order
	s.orders[order.OrderID] = &clone
	return nil
}

func (s *stubOrderRepo) FindByUser(_ context.Context, userID primitive.ObjectID, _ repository.OrderListFilter) ([]models.Order, int64, error) {
	var result []models.Order
	for _, o := range s.orders {
		if o.User == userID {
			result = append(result, *o)
		}
	}
	return result, int64(len(result)), nil
}

func (s *stubOrderRepo) FindByOrderIDAndUser(_ context.Context, orderID string, userID primitive.ObjectID) (*models.Order, error) {
	o, ok := s.orders[orderID]
	if !ok || o.User != userID {
		return nil, mongo.ErrNoDocuments
	}
	clone := *o
	return &clone, nil
}

func (s *stubOrderRepo) Update(_ context.Context, order *models.Order) error {
	if _, ok := s.orders[order.OrderID]; !ok {
		return mongo.ErrNoDocuments
	}
	clone := *order
	s.orders[order.OrderID] = &clone
	return nil
}

func (s *stubOrderRepo) StatusBreakdown(_ context.Context, _ primitive.ObjectID) ([]repository.StatusGroup, error) {
	return []repository.StatusGroup{}, nil
}

func (s *stubOrderRepo) TotalSpent(_ context.Context, userID primitive.ObjectID) (float64, error) {
	var total float64
	for _, o := range s.orders {
		if o.User == userID && o.Status != models.StatusCancelled {
			total += o.Total
		}
	}
	return total, nil
}

func (s *stubOrderRepo) CountByUser(_ context.Context, userID primitive.ObjectID) (int64, error) {
	var n int64
	for _, o := range s.orders {
		if o.User == userID {
			n++
		}
	}
	return n, nil
}

func (s *stubOrderRepo) FindRecent(_ context.Context, userID primitive.ObjectID, limit int) ([]models.Order, error) {
	var result []models.Order
	for _, o := range s.orders {
		if o.User == userID && len(result) < limit {
			result = append(result, *o)
		}
	}
	return result, nil
}

type orderTestEnv struct {
	router *gin.Engine
	repo   *stubOrderRepo
	token  string
	userID primitive.ObjectID
}

func newOrderTestEnv(t *testing.T) *orderTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := newStubOrderRepo()
	tokens := services.NewTokenService("test-secret")
	controller := NewOrderController(services.NewOrderService(repo, nil, nil))

	userID := primitive.NewObjectID()
	token, err := tokens.Generate(userID.Hex(), "ada", models.RoleUser)
	require.NoError(t, err)

	router := gin.New()
	orders := router.Group("/api/orders")
	orders.Use(middleware.Auth(tokens))
	{
		orders.POST("", controller.CreateOrder)
		orders.POST("/quote", controller.QuoteOrder)
		orders.GET("", controller.GetOrders)
		orders.GET("/stats/summary", controller.GetOrderStats)
		orders.GET("/:orderId", controller.GetOrderByID)
		orders.PATCH("/:orderId/status", controller.UpdateOrderStatus)
		orders.PATCH("/:orderId/cancel", controller.CancelOrder)
	}

	return &orderTestEnv{router: router, repo: repo, token: token, userID: userID}
}

func (e *orderTestEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.token)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func checkoutPayload() map[string]interface{} {
	return map[string]interface{}{
		"items": []map[string]interface{}{
			{"productId": primitive.NewObjectID().Hex(), "name": "Mechanical Keyboard", "price": 100, "discountPrice": 80, "quantity": 2},
		},
		"shippingAddress": map[string]string{
			"firstName": "Ada", "lastName": "Lovelace", "email": "ada@example.com",
			"phone": "5551234", "address": "1 Analytical Way", "city": "London",
			"state": "LDN", "zipCode": "E1 6AN", "country": "UK",
		},
		"paymentMethod":  "card",
		"deliveryOption": "standard",
	}
}

func TestCreateOrderEndpoint(t *testing.T) {
	env := newOrderTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/orders", checkoutPayload())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Message string `json:"message"`
		Order   struct {
			OrderID          string  `json:"orderId"`
			FormattedOrderID string  `json:"formattedOrderId"`
			Status           string  `json:"status"`
			Total            float64 `json:"total"`
			DeliveryStatus   string  `json:"deliveryStatus"`
		} `json:"order"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Order created successfully", resp.Message)
	assert.Equal(t, "confirmed", resp.Order.Status)
	assert.Equal(t, "processing", resp.Order.DeliveryStatus)
	assert.Equal(t, 179.27, resp.Order.Total)
	assert.Equal(t, "ORD-"+resp.Order.OrderID, resp.Order.FormattedOrderID)
}

func TestCreateOrderEndpointRejectsEmptyCart(t *testing.T) {
	env := newOrderTestEnv(t)

	payload := checkoutPayload()
	payload["items"] = []map[string]interface{}{}

	w := env.do(t, http.MethodPost, "/api/orders", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Order must contain at least one item")
}

func TestOrderEndpointsRequireToken(t *testing.T) {
	env := newOrderTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetOrderEndpointNotFound(t *testing.T) {
	env := newOrderTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/orders/1718020800000999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Order not found")
}

func TestCancelOrderEndpointGuardsShipped(t *testing.T) {
	env := newOrderTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/orders", checkoutPayload())
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Order struct {
			OrderID string `json:"orderId"`
		} `json:"order"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	env.repo.orders[created.Order.OrderID].Status = models.StatusShipped

	w = env.do(t, http.MethodPatch, "/api/orders/"+created.Order.OrderID+"/cancel", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Cannot cancel order that has been shipped or delivered")
}

func TestCancelOrderEndpoint(t *testing.T) {
	env := newOrderTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/orders", checkoutPayload())
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Order struct {
			OrderID string `json:"orderId"`
		} `json:"order"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = env.do(t, http.MethodPatch, "/api/orders/"+created.Order.OrderID+"/cancel", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Order cancelled successfully")
	assert.Equal(t, models.StatusCancelled, env.repo.orders[created.Order.OrderID].Status)
}

func TestQuoteEndpoint(t *testing.T) {
	env := newOrderTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/orders/quote", map[string]interface{}{
		"items": []map[string]interface{}{
			{"productId": primitive.NewObjectID().Hex(), "name": "Keyboard", "price": 100, "discountPrice": 80, "quantity": 2},
		},
		"deliveryOption": "express",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var quote services.Quote
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &quote))
	assert.Equal(t, 160.00, quote.Subtotal)
	assert.Equal(t, 15.99, quote.Shipping)
	assert.Equal(t, 14.08, quote.Tax)
	assert.Equal(t, 190.07, quote.Total)
}

func TestGetOrdersEndpointPagination(t *testing.T) {
	env := newOrderTestEnv(t)

	for i := 0; i < 3; i++ {
		w := env.do(t, http.MethodPost, "/api/orders", checkoutPayload())
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := env.do(t, http.MethodGet, "/api/orders?page=1&limit=10", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp services.OrderListResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Orders, 3)
	assert.Equal(t, int64(3), resp.Pagination.Total)
	assert.Equal(t, int64(1), resp.Pagination.Pages)
}

func TestGetOrderStatsEndpoint(t *testing.T) {
	env := newOrderTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/orders", checkoutPayload())
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodGet, "/api/orders/stats/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats services.OrderStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(1), stats.TotalOrders)
	assert.Equal(t, 179.27, stats.TotalSpent)
	require.Len(t, stats.RecentOrders, 1)
}
