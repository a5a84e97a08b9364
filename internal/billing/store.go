package billing

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/backend-billing/internal/pricing"
)

// Store keeps generated bills addressable by id until they expire.
type Store interface {
	Put(ctx context.Context, bill pricing.Bill) error
	Get(ctx context.Context, id string) (pricing.Bill, bool, error)
	Delete(ctx context.Context, id string) error
}

// RedisStore keeps bills as JSON under bill:{id} with a TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore constructs a RedisStore.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func billKey(id string) string {
	return "bill:" + id
}

// Put implements Store.
func (s *RedisStore) Put(ctx context.Context, bill pricing.Bill) error {
	data, err := json.Marshal(bill)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, billKey(bill.ID), data, s.ttl).Err()
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, id string) (pricing.Bill, bool, error) {
	data, err := s.client.Get(ctx, billKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return pricing.Bill{}, false, nil
		}
		return pricing.Bill{}, false, err
	}
	var bill pricing.Bill
	if err := json.Unmarshal(data, &bill); err != nil {
		return pricing.Bill{}, false, err
	}
	return bill, true, nil
}

// Delete implements Store.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, billKey(id)).Err()
}

// MemoryStore is an in-process Store bounded by size and TTL.
type MemoryStore struct {
	lru *expirable.LRU[string, pricing.Bill]
}

// NewMemoryStore constructs a MemoryStore holding at most size bills.
func NewMemoryStore(size int, ttl time.Duration) *MemoryStore {
	if size <= 0 {
		size = 1024
	}
	return &MemoryStore{lru: expirable.NewLRU[string, pricing.Bill](size, nil, ttl)}
}

// Put implements Store.
func (s *MemoryStore) Put(_ context.Context, bill pricing.Bill) error {
	s.lru.Add(bill.ID, bill)
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, id string) (pricing.Bill, bool, error) {
	bill, ok := s.lru.Get(id)
	return bill, ok, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.lru.Remove(id)
	return nil
}
