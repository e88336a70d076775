package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/KeshavX3/ERP-2/apperrors"
	"github.com/KeshavX3/ERP-2/models"
	"github.com/KeshavX3/ERP-2/repository"
)

// memCartStore keeps carts in a map, standing in for Redis.
type memCartStore struct {
	carts map[string]models.Cart
}

func newMemCartStore() *memCartStore {
	return &memCartStore{carts: make(map[string]models.Cart)}
}

func (m *memCartStore) Get(_ context.Context, userID string) (*models.Cart, error) {
	cart, ok := m.carts[userID]
	if !ok {
		return &models.Cart{UserID: userID, Items: []models.CartItem{}}, nil
	}
	clone := cart
	return &clone, nil
}

func (m *memCartStore) Save(_ context.Context, cart *models.Cart) error {
	m.carts[cart.UserID] = *cart
	return nil
}

func (m *memCartStore) Clear(_ context.Context, userID string) error {
	delete(m.carts, userID)
	return nil
}

// mockProductRepo serves a fixed catalog keyed by object id.
type mockProductRepo struct {
	products map[primitive.ObjectID]*models.Product
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[primitive.ObjectID]*models.Product)}
}

func (m *mockProductRepo) add(product *models.Product) *models.Product {
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	m.products[product.ID] = product
	return product
}

func (m *mockProductRepo) Find(_ context.Context, _ repository.ProductListFilter) ([]models.Product, int64, error) {
	return nil, 0, nil
}

func (m *mockProductRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	clone := *p
	return &clone, nil
}

func (m *mockProductRepo) Create(_ context.Context, product *models.Product) error {
	m.add(product)
	return nil
}

func (m *mockProductRepo) Update(_ context.Context, _ primitive.ObjectID, _ bson.M) (*models.Product, error) {
	return nil, mongo.ErrNoDocuments
}

func (m *mockProductRepo) SoftDelete(_ context.Context, _ primitive.ObjectID) error { return nil }
func (m *mockProductRepo) CountActive(_ context.Context) (int64, error)            { return 0, nil }
func (m *mockProductRepo) CountTotal(_ context.Context) (int64, error)             { return 0, nil }
func (m *mockProductRepo) CountByCategory(_ context.Context) ([]repository.CategoryCount, error) {
	return nil, nil
}

type emptyCategoryRepo struct{}

func (emptyCategoryRepo) FindActive(_ context.Context) ([]models.Category, error) { return nil, nil }
func (emptyCategoryRepo) FindByID(_ context.Context, _ primitive.ObjectID) (*models.Category, error) {
	return nil, mongo.ErrNoDocuments
}
func (emptyCategoryRepo) FindByName(_ context.Context, _ string) (*models.Category, error) {
	return nil, mongo.ErrNoDocuments
}
func (emptyCategoryRepo) Create(_ context.Context, _ *models.Category) error { return nil }
func (emptyCategoryRepo) Update(_ context.Context, _ primitive.ObjectID, _ bson.M) (*models.Category, error) {
	return nil, mongo.ErrNoDocuments
}
func (emptyCategoryRepo) SoftDelete(_ context.Context, _ primitive.ObjectID) error { return nil }

type emptyBrandRepo struct{}

func (emptyBrandRepo) FindActive(_ context.Context) ([]models.Brand, error) { return nil, nil }
func (emptyBrandRepo) FindByID(_ context.Context, _ primitive.ObjectID) (*models.Brand, error) {
	return nil, mongo.ErrNoDocuments
}
func (emptyBrandRepo) FindByName(_ context.Context, _ string) (*models.Brand, error) {
	return nil, mongo.ErrNoDocuments
}
func (emptyBrandRepo) Create(_ context.Context, _ *models.Brand) error { return nil }
func (emptyBrandRepo) Update(_ context.Context, _ primitive.ObjectID, _ bson.M) (*models.Brand, error) {
	return nil, mongo.ErrNoDocuments
}
func (emptyBrandRepo) SoftDelete(_ context.Context, _ primitive.ObjectID) error { return nil }

func newTestCartService(products *mockProductRepo) (*CartService, *memCartStore) {
	store := newMemCartStore()
	productSvc := NewProductService(products, emptyCategoryRepo{}, emptyBrandRepo{})
	return NewCartService(store, productSvc), store
}

func seedProduct(repo *mockProductRepo) *models.Product {
	return repo.add(&models.Product{
		Name:          "Mechanical Keyboard",
		Price:         100,
		Discount:      20,
		DiscountPrice: 80,
		IsActive:      true,
	})
}

func TestAddItemSnapshotsProduct(t *testing.T) {
	products := newMockProductRepo()
	product := seedProduct(products)
	svc, _ := newTestCartService(products)

	cart, err := svc.AddItem(context.Background(), "user-1", &AddCartItemRequest{
		ProductID: product.ID.Hex(), Quantity: 2,
	})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)

	item := cart.Items[0]
	assert.Equal(t, product.ID.Hex(), item.ProductID)
	assert.Equal(t, "Mechanical Keyboard", item.Name)
	assert.Equal(t, 100.0, item.Price)
	assert.Equal(t, 80.0, item.DiscountPrice)
	assert.Equal(t, 2, item.Quantity)
}

func TestAddItemIncrementsExistingLine(t *testing.T) {
	products := newMockProductRepo()
	product := seedProduct(products)
	svc, _ := newTestCartService(products)

	_, err := svc.AddItem(context.Background(), "user-1", &AddCartItemRequest{ProductID: product.ID.Hex(), Quantity: 2})
	require.NoError(t, err)
	cart, err := svc.AddItem(context.Background(), "user-1", &AddCartItemRequest{ProductID: product.ID.Hex(), Quantity: 3})
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestAddItemRejectsInactiveProduct(t *testing.T) {
	products := newMockProductRepo()
	product := seedProduct(products)
	product.IsActive = false
	svc, _ := newTestCartService(products)

	_, err := svc.AddItem(context.Background(), "user-1", &AddCartItemRequest{ProductID: product.ID.Hex()})
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Code)
}

func TestSetQuantity(t *testing.T) {
	products := newMockProductRepo()
	product := seedProduct(products)
	svc, store := newTestCartService(products)
	userID := "user-1"

	_, err := svc.AddItem(context.Background(), userID, &AddCartItemRequest{ProductID: product.ID.Hex(), Quantity: 2})
	require.NoError(t, err)

	cart, err := svc.SetQuantity(context.Background(), userID, product.ID.Hex(), 7)
	require.NoError(t, err)
	assert.Equal(t, 7, cart.Items[0].Quantity)

	// Zero removes the line.
	cart, err = svc.SetQuantity(context.Background(), userID, product.ID.Hex(), 0)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Empty(t, store.carts[userID].Items)

	_, err = svc.SetQuantity(context.Background(), userID, product.ID.Hex(), 1)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Item not in cart", appErr.Message)

	_, err = svc.SetQuantity(context.Background(), userID, product.ID.Hex(), -1)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Quantity cannot be negative", appErr.Message)
}

func TestCartIsPerUser(t *testing.T) {
	products := newMockProductRepo()
	product := seedProduct(products)
	svc, _ := newTestCartService(products)

	_, err := svc.AddItem(context.Background(), "user-1", &AddCartItemRequest{ProductID: product.ID.Hex()})
	require.NoError(t, err)

	other, err := svc.Get(context.Background(), "user-2")
	require.NoError(t, err)
	assert.Empty(t, other.Items)
}

func TestClearEmptiesCart(t *testing.T) {
	products := newMockProductRepo()
	product := seedProduct(products)
	svc, _ := newTestCartService(products)
	userID := "user-1"

	_, err := svc.AddItem(context.Background(), userID, &AddCartItemRequest{ProductID: product.ID.Hex()})
	require.NoError(t, err)

	require.NoError(t, svc.Clear(context.Background(), userID))
	cart, err := svc.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}
