package utils

import (
	"context"
	"fmt"
	"log"
	"time"

	"todolist/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// OpenRedis initializes a Redis connection pool
func OpenRedisPool(dsn string) (*redis.Client, error) {
	opt, err := redis.ParseURL(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse redis dsn: %w", err)
	}

	// Configure connection pooling
	opt.PoolSize = 100                    // Maximum number of connections in the pool
	opt.MinIdleConns = 2                  // Minimum number of idle connections
	opt.DialTimeout = 5 * time.Second     // Timeout for new connections
	opt.ConnMaxIdleTime = 5 * time.Minute // Close idle connections after this duration

	client := redis.NewClient(opt)
	if err = client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

func sessionKey(token string) string {
	return "session:" + token
}

func userSessionsKey(userID uuid.UUID) string {
	return "user_sessions:" + userID.String()
}

// StoreSession saves a session in Redis
func StoreSession(client *redis.Client, session models.Session, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sessionMap := map[string]any{
		"user_id":       session.UserID.String(),
		"username":      session.Username,
		"created_at":    session.CreatedAt.Format(time.RFC3339),
		"expires_at":    session.ExpiresAt.Format(time.RFC3339),
		"last_activity": session.LastActivity.Format(time.RFC3339),
		"csrf_token":    session.CSRFToken,
		"user_agent":    session.UserAgent,
		"ip_address":    session.IPAddress,
	}

	key := sessionKey(session.SessionToken)
	pipe := client.TxPipeline()
	pipe.HSet(ctx, key, sessionMap)
	pipe.Expire(ctx, key, ttl)
	// Add to the user's session index
	pipe.SAdd(ctx, userSessionsKey(session.UserID), key)
	_, err := pipe.Exec(ctx)
	return err
}

// GetSession retrieves session details from Redis
func GetSession(client *redis.Client, sessionToken string) (*models.Session, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	data, err := client.HGetAll(ctx, sessionKey(sessionToken)).Result()
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrNoSession
	}

	userID, err := uuid.Parse(data["user_id"])
	if err != nil {
		return nil, fmt.Errorf("session has bad user id: %w", err)
	}

	session := &models.Session{
		SessionToken: sessionToken,
		UserID:       userID,
		Username:     data["username"],
		CSRFToken:    data["csrf_token"],
		UserAgent:    data["user_agent"],
		IPAddress:    data["ip_address"],
	}
	session.CreatedAt, _ = time.Parse(time.RFC3339, data["created_at"])
	session.ExpiresAt, _ = time.Parse(time.RFC3339, data["expires_at"])
	session.LastActivity, _ = time.Parse(time.RFC3339, data["last_activity"])

	if !session.ExpiresAt.IsZero() && time.Now().After(session.ExpiresAt) {
		return nil, ErrNoSession
	}

	return session, nil
}

// DeleteSession removes a single session and its reference in the user index
func DeleteSession(client *redis.Client, sessionToken string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Get the user ID from the session
	userID, err := client.HGet(ctx, sessionKey(sessionToken), "user_id").Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return err
	}

	// Remove from the user's session index
	if err := client.SRem(ctx, "user_sessions:"+userID, sessionKey(sessionToken)).Err(); err != nil {
		return err
	}

	// Delete the session
	return client.Del(ctx, sessionKey(sessionToken)).Err()
}

// UpdateLastActivity updates the last activity timestamp of a session. A
// session that expired in the meantime is not recreated.
func UpdateLastActivityRedis(client *redis.Client, sessionToken string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	key := sessionKey(sessionToken)
	return client.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNoSession
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, "last_activity", time.Now().Format(time.RFC3339))
			return nil
		})
		return err
	}, key)
}

// DeleteAllUserSessions removes all sessions associated with a specific user
func DeleteAllUserSessions(client *redis.Client, userID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Get all session keys for this user from the index
	sessionKeys, err := client.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil {
		return err
	}

	if len(sessionKeys) > 0 {
		if err := client.Del(ctx, sessionKeys...).Err(); err != nil {
			return err
		}
		log.Printf("deleted %d sessions for user %s", len(sessionKeys), userID)
	}

	// Clean up the index itself
	return client.Del(ctx, userSessionsKey(userID)).Err()
}
