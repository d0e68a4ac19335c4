package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josh-kwaku/loan-servicing/internal/domain"
	"github.com/josh-kwaku/loan-servicing/internal/testutil"
)

func TestDashboardCache(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	c := NewDashboardCache(client, time.Minute)
	ctx := context.Background()
	userID := uuid.New()

	got, err := c.Get(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, got, "empty cache should miss")

	m := &domain.DashboardMetrics{
		ReceivedToday:     decimal.RequireFromString("150.25"),
		ReceivedThisMonth: decimal.RequireFromString("3200"),
		ActiveContracts:   4,
		TotalLent:         decimal.RequireFromString("25000"),
		GeneratedAt:       time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, c.Set(ctx, userID, m))

	got, err = c.Get(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, m.ReceivedToday.Equal(got.ReceivedToday))
	assert.True(t, m.TotalLent.Equal(got.TotalLent))
	assert.Equal(t, 4, got.ActiveContracts)
	assert.True(t, m.GeneratedAt.Equal(got.GeneratedAt))

	other, err := c.Get(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, other, "entries are scoped per user")

	require.NoError(t, c.Invalidate(ctx, userID))
	got, err = c.Get(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDashboardCache_Expires(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	c := NewDashboardCache(client, time.Second)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, c.Set(ctx, userID, &domain.DashboardMetrics{TotalClients: 1}))

	ttl, err := client.TTL(ctx, dashboardKey(userID)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Second)
}

func TestDashboardCache_NilIsDisabled(t *testing.T) {
	var c *DashboardCache
	ctx := context.Background()

	got, err := c.Get(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, c.Set(ctx, uuid.New(), &domain.DashboardMetrics{}))
	assert.NoError(t, c.Invalidate(ctx, uuid.New()))
}
