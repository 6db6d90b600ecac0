package alert

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const DailyLowStockLogKey = "inventory:alerts:lowstock"

// RedisLog appends alerts to a Redis list consumed by the daily summary.
type RedisLog struct {
	rdb *redis.Client
	key string
}

func NewRedisLog(rdb *redis.Client) *RedisLog {
	return &RedisLog{rdb: rdb, key: DailyLowStockLogKey}
}

func (l *RedisLog) Notify(ctx context.Context, a LowStockAlert) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to encode alert: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := l.rdb.RPush(ctx, l.key, data).Err(); err != nil {
		return fmt.Errorf("failed to push alert to redis: %w", err)
	}
	return nil
}

// Drain returns every logged alert and clears the list atomically.
func (l *RedisLog) Drain(ctx context.Context) ([]LowStockAlert, error) {
	var lrange *redis.StringSliceCmd
	_, err := l.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		lrange = pipe.LRange(ctx, l.key, 0, -1)
		pipe.Del(ctx, l.key)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to drain alert log: %w", err)
	}

	return decodeAlerts(lrange.Val()), nil
}

func decodeAlerts(items []string) []LowStockAlert {
	alerts := make([]LowStockAlert, 0, len(items))
	for _, item := range items {
		var a LowStockAlert
		if err := json.Unmarshal([]byte(item), &a); err == nil {
			alerts = append(alerts, a)
		}
	}
	return alerts
}
