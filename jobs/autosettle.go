package jobs

import (
	"context"
	"time"

	"bookie/metrics"
	"bookie/services"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const lockKey = "bookie:autosettle:lock"

// StartAutoSettleScheduler ticks the auto-settler on a fixed interval. The
// loop runs passes sequentially so one pass never overlaps the next within
// this process; the redis lock extends single-flight across instances.
func StartAutoSettleScheduler(settler *services.AutoSettler, rdb *redis.Client, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		for range ticker.C {
			runPass(settler, rdb, interval)
		}
	}()
}

func runPass(settler *services.AutoSettler, rdb *redis.Client, interval time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), interval)
	defer cancel()

	if rdb != nil {
		ok, err := rdb.SetNX(ctx, lockKey, "1", interval).Result()
		if err != nil {
			zap.L().Warn("auto-settle lock check failed, skipping pass", zap.Error(err))
			return
		}
		if !ok {
			zap.L().Debug("auto-settle pass already running elsewhere, skipping")
			return
		}
		defer rdb.Del(context.Background(), lockKey)
	}

	if err := settler.RunOnce(ctx); err != nil {
		zap.L().Error("auto-settle pass failed", zap.Error(err))
		return
	}
	metrics.AutoSettlePasses.Inc()
}
