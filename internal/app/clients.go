package app

import (
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	temporalsdkclient "go.temporal.io/sdk/client"

	"github.com/yungbote/contentflow-backend/internal/clients/redis"
	"github.com/yungbote/contentflow-backend/internal/platform/logger"
	"github.com/yungbote/contentflow-backend/internal/platform/redislock"
	"github.com/yungbote/contentflow-backend/internal/realtime/bus"
	"github.com/yungbote/contentflow-backend/internal/temporalx"
)

// Clients holds external connections. Redis and Temporal are optional; the
// process falls back to in-process locks and events, and to the job
// scheduler, when they are absent.
type Clients struct {
	Redis    *goredis.Client
	Bus      bus.Bus
	Locker   redislock.Locker
	Temporal temporalsdkclient.Client
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	rdb, err := redis.NewClient(log, redis.Config{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	if err != nil {
		return Clients{}, fmt.Errorf("init redis: %w", err)
	}
	out := Clients{Redis: rdb}
	if rdb != nil {
		b, err := bus.NewRedisBus(log, rdb, cfg.EventChannel)
		if err != nil {
			_ = rdb.Close()
			return Clients{}, fmt.Errorf("init redis bus: %w", err)
		}
		out.Bus = b
		out.Locker = redislock.New(rdb, log)
	} else {
		out.Bus = bus.NewMemoryBus()
		out.Locker = redislock.NewLocal()
	}

	tc, err := temporalx.NewClient(log, cfg.Temporal)
	if err != nil {
		out.Close()
		return Clients{}, fmt.Errorf("init temporal: %w", err)
	}
	out.Temporal = tc
	return out, nil
}

func (c Clients) Close() {
	if c.Temporal != nil {
		c.Temporal.Close()
	}
	if c.Bus != nil {
		_ = c.Bus.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
