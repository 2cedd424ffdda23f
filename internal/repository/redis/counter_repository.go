package repository

import (
	"context"

	"github.com/playsafe-labs/breakgate/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// CounterRepository persists the manual-trigger counter across sessions.
type CounterRepository interface {
	Load(ctx context.Context) (int64, error)
	Save(ctx context.Context, value int64) error
}

type redisCounterRepository struct {
	cli *redis.Client
	l   logger.Logger
}

func NewRedisCounterRepository(cli *redis.Client, l logger.Logger) CounterRepository {
	return &redisCounterRepository{
		cli: cli,
		l:   l,
	}
}

const manualTriggerCounterKey = "breakgate:manual_trigger_counter"

func (r *redisCounterRepository) Load(ctx context.Context) (int64, error) {
	value, err := r.cli.Get(ctx, manualTriggerCounterKey).Int64()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		r.l.Errorf(ctx, "redisCounterRepository.Load: %v", err)
		return 0, err
	}

	return value, nil
}

// Save writes without a TTL; the counter outlives sessions.
func (r *redisCounterRepository) Save(ctx context.Context, value int64) error {
	if err := r.cli.Set(ctx, manualTriggerCounterKey, value, 0).Err(); err != nil {
		r.l.Errorf(ctx, "redisCounterRepository.Save: %v", err)
		return err
	}

	return nil
}
