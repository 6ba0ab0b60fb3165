package externalprovider

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestInMemoryStateRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryStateRepository()

	now := time.Now()
	require.NoError(t, repo.StoreState(ctx, &OAuth2State{
		State:     "s1",
		Provider:  "google",
		CreatedAt: now,
		ExpiresAt: now.Add(DefaultStateTTL),
	}))
	assert.Equal(t, 1, repo.StateCount())

	got, err := repo.ConsumeState(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "google", got.Provider)

	_, err = repo.ConsumeState(ctx, "s1")
	assert.ErrorIs(t, err, ErrStateNotFound)
}

func TestInMemoryStateRepositoryExpiry(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryStateRepository()
	past := time.Now().Add(-time.Hour)

	require.NoError(t, repo.StoreState(ctx, &OAuth2State{State: "old", ExpiresAt: past}))
	require.NoError(t, repo.StoreState(ctx, &OAuth2State{State: "old2", ExpiresAt: past}))
	require.NoError(t, repo.StoreState(ctx, &OAuth2State{State: "fresh", ExpiresAt: time.Now().Add(time.Minute)}))

	_, err := repo.ConsumeState(ctx, "old")
	assert.ErrorIs(t, err, ErrStateExpired)

	require.NoError(t, repo.CleanupExpiredStates(ctx))
	assert.Equal(t, 1, repo.StateCount())

	assert.Error(t, repo.StoreState(ctx, &OAuth2State{}))
}

func setupRedisClient(t *testing.T) *RedisStateRepository {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(ctx)
	})

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client, err := ConnectRedis(endpoint)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = client.Close()
	})
	require.NoError(t, client.Ping(ctx).Err())

	return NewRedisStateRepository(client, time.Minute)
}

func TestRedisStateRepository(t *testing.T) {
	repo := setupRedisClient(t)
	ctx := context.Background()

	require.NoError(t, repo.StoreState(ctx, &OAuth2State{
		State:     "redis-state",
		Provider:  "google",
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Minute),
	}))

	got, err := repo.ConsumeState(ctx, "redis-state")
	require.NoError(t, err)
	assert.Equal(t, "google", got.Provider)

	_, err = repo.ConsumeState(ctx, "redis-state")
	assert.ErrorIs(t, err, ErrStateNotFound)
	assert.NoError(t, repo.CleanupExpiredStates(ctx))
}
