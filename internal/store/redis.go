// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// ConnectRedis opens a Redis client from a redis:// URL and waits for it to
// answer pings, retrying with exponential backoff.
func ConnectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, oops.Code("STORE_REDIS_URL_INVALID").
			With("operation", "parse redis url").
			Wrap(err)
	}

	client := redis.NewClient(opts)

	backoff := retry.WithMaxRetries(5, retry.NewExponential(500*time.Millisecond))
	if err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := client.Ping(ctx).Err(); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	}); err != nil {
		_ = client.Close() //nolint:errcheck // ping failure takes precedence
		return nil, oops.Code("STORE_REDIS_PING_FAILED").
			With("operation", "ping redis").
			Wrap(err)
	}

	return client, nil
}
