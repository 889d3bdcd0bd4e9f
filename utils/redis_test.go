package utils_test

import (
	"context"
	"os"
	"testing"
	"time"

	"todolist/models"
	"todolist/utils"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestRedis connects to TEST_REDIS_URL or skips.
func openTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	dsn := os.Getenv("TEST_REDIS_URL")
	if dsn == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	client, err := utils.OpenRedisPool(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestUpdateLastActivityRedis(t *testing.T) {
	client := openTestRedis(t)
	ctx := context.Background()

	t.Run("Expired session is not recreated", func(t *testing.T) {
		token := utils.GenerateToken(32)
		err := utils.UpdateLastActivityRedis(client, token)
		assert.ErrorIs(t, err, utils.ErrNoSession)

		n, err := client.Exists(ctx, "session:"+token).Result()
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("Live session keeps its expiry", func(t *testing.T) {
		now := time.Now()
		sess := models.Session{
			SessionToken: utils.GenerateToken(32),
			UserID:       uuid.New(),
			Username:     "tester",
			CreatedAt:    now,
			ExpiresAt:    now.Add(time.Hour),
			LastActivity: now.Add(-time.Hour),
			CSRFToken:    utils.GenerateToken(32),
		}
		require.NoError(t, utils.StoreSession(client, sess, time.Hour))
		t.Cleanup(func() { _ = utils.DeleteSession(client, sess.SessionToken) })

		require.NoError(t, utils.UpdateLastActivityRedis(client, sess.SessionToken))

		ttl, err := client.TTL(ctx, "session:"+sess.SessionToken).Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))

		got, err := utils.GetSession(client, sess.SessionToken)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now(), got.LastActivity, time.Minute)
	})
}
