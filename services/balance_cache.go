package services

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const balanceCacheTTL = 30 * time.Second

// BalanceCache is a Redis read-through cache for available-balance lookups.
// A nil client disables caching; every method degrades to a miss.
type BalanceCache struct {
	client *redis.Client
}

func NewBalanceCache(client *redis.Client) *BalanceCache {
	return &BalanceCache{client: client}
}

func balanceCacheKey(marketerID primitive.ObjectID) string {
	return "balance:available:" + marketerID.Hex()
}

// GetAvailableBalance returns the cached balance and whether it was present
func (c *BalanceCache) GetAvailableBalance(ctx context.Context, marketerID primitive.ObjectID) (float64, bool) {
	if c == nil || c.client == nil {
		return 0, false
	}

	val, err := c.client.Get(ctx, balanceCacheKey(marketerID)).Result()
	if err != nil {
		return 0, false
	}
	balance, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return balance, true
}

// SetAvailableBalance stores the balance with a short TTL
func (c *BalanceCache) SetAvailableBalance(ctx context.Context, marketerID primitive.ObjectID, balance float64) {
	if c == nil || c.client == nil {
		return
	}

	key := balanceCacheKey(marketerID)
	if err := c.client.Set(ctx, key, strconv.FormatFloat(balance, 'f', -1, 64), balanceCacheTTL).Err(); err != nil {
		log.Printf("Failed to cache balance for %s: %v", marketerID.Hex(), err)
	}
}

// Invalidate drops the cached balance after a lifecycle write
func (c *BalanceCache) Invalidate(ctx context.Context, marketerID primitive.ObjectID) {
	if c == nil || c.client == nil {
		return
	}

	if err := c.client.Del(ctx, balanceCacheKey(marketerID)).Err(); err != nil {
		log.Printf("Failed to invalidate balance cache for %s: %v", marketerID.Hex(), err)
	}
}
