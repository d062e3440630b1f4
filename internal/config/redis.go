package config

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis returns a client for addr after a successful ping.
func ConnectRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		WithContext(ctx).WithError(err).Error("Redis ping failed")
		return nil, err
	}
	WithContext(ctx).WithField("addr", addr).Info("Redis connected")
	return client, nil
}
