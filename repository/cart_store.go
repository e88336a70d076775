package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KeshavX3/ERP-2/models"
)

// CartStore is the session-scoped cart. A cart lives only while its
// owner's session does: Clear is invoked on logout and after checkout.
type CartStore interface {
	Get(ctx context.Context, userID string) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	Clear(ctx context.Context, userID string) error
}

type RedisCartStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCartStore(client *redis.Client, ttl time.Duration) CartStore {
	return &RedisCartStore{client: client, ttl: ttl}
}

func (s *RedisCartStore) key(userID string) string {
	return fmt.Sprintf("cart:user:%s", userID)
}

// Get returns the user's cart, or an empty cart when none is stored.
func (s *RedisCartStore) Get(ctx context.Context, userID string) (*models.Cart, error) {
	data, err := s.client.Get(ctx, s.key(userID)).Result()
	if err == redis.Nil {
		return &models.Cart{UserID: userID, Items: []models.CartItem{}}, nil
	}
	if err != nil {
		return nil, err
	}

	var cart models.Cart
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (s *RedisCartStore) Save(ctx context.Context, cart *models.Cart) error {
	cart.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(cart.UserID), data, s.ttl).Err()
}

func (s *RedisCartStore) Clear(ctx context.Context, userID string) error {
	return s.client.Del(ctx, s.key(userID)).Err()
}
