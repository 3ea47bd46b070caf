package redis_client

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient connects to Redis and pings it. The client backs sessions,
// listing event publication and the websocket fan-out.
func NewRedisClient(host string, port int) (*redis.Client, error) {
	maxPool := runtime.NumCPU() * 8
	if maxPool > 512 {
		maxPool = 512
	}

	rc := redis.NewClient(&redis.Options{
		Addr:     addr(host, port),
		PoolSize: maxPool,
	})

	ctx, cancelFunc := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelFunc()
	if _, err := rc.Ping(ctx).Result(); err != nil {
		_ = rc.Close()
		err = errors.New("redis connection failed: " + err.Error())
		zap.L().Error("redis_connect", zap.String("addr", addr(host, port)), zap.Error(err))
		return nil, err
	}
	zap.L().Debug("redis_connected", zap.String("addr", addr(host, port)), zap.Int("pool_size", maxPool))
	return rc, nil
}

func addr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
