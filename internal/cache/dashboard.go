package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/josh-kwaku/loan-servicing/internal/domain"
)

const dashboardKeyPrefix = "loans:dashboard:metrics:"

// DashboardCache stores computed dashboard metrics per lender. Writes that
// change balances or contracts invalidate the lender's entry. A nil
// *DashboardCache is a disabled cache: every Get misses and writes are no-ops.
type DashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewDashboardCache(client *redis.Client, ttl time.Duration) *DashboardCache {
	return &DashboardCache{client: client, ttl: ttl}
}

func dashboardKey(userID uuid.UUID) string {
	return dashboardKeyPrefix + userID.String()
}

// Get reports a miss as (nil, nil).
func (c *DashboardCache) Get(ctx context.Context, userID uuid.UUID) (*domain.DashboardMetrics, error) {
	if c == nil {
		return nil, nil
	}
	raw, err := c.client.Get(ctx, dashboardKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("DashboardCache.Get: %w", err)
	}

	var m domain.DashboardMetrics
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("DashboardCache.Get: decode: %w", err)
	}
	return &m, nil
}

func (c *DashboardCache) Set(ctx context.Context, userID uuid.UUID, m *domain.DashboardMetrics) error {
	if c == nil {
		return nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("DashboardCache.Set: encode: %w", err)
	}
	if err := c.client.Set(ctx, dashboardKey(userID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("DashboardCache.Set: %w", err)
	}
	return nil
}

func (c *DashboardCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	if c == nil {
		return nil
	}
	if err := c.client.Del(ctx, dashboardKey(userID)).Err(); err != nil {
		return fmt.Errorf("DashboardCache.Invalidate: %w", err)
	}
	return nil
}
