package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"energyrental/backend/services/rental-page/internal/models"
)

// ErrNotFound is returned when no snapshot exists for an address.
var ErrNotFound = errors.New("store: snapshot not found")

// SnapshotStore caches the last payment state per address in redis.
type SnapshotStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshotStore returns redis-backed store.
func NewSnapshotStore(client *redis.Client, ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{client: client, ttl: ttl}
}

func (s *SnapshotStore) key(address string) string {
	return fmt.Sprintf("rental:payment:%s", address)
}

// SavePayment caches snap, replacing the previous one.
func (s *SnapshotStore) SavePayment(ctx context.Context, snap models.PaymentSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(snap.Address), data, s.ttl).Err()
}

// GetPayment returns the cached snapshot or ErrNotFound.
func (s *SnapshotStore) GetPayment(ctx context.Context, address string) (*models.PaymentSnapshot, error) {
	result, err := s.client.Get(ctx, s.key(address)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var snap models.PaymentSnapshot
	if err := json.Unmarshal([]byte(result), &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Delete removes the cached snapshot.
func (s *SnapshotStore) Delete(ctx context.Context, address string) error {
	return s.client.Del(ctx, s.key(address)).Err()
}
