package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spigell/cupid-matcher/internal/profile"
)

const defaultRedisPrefix = "cupid"

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// Redis keeps profile documents in a hash, their insertion order in a
// sorted set and the current profile id in a plain key.
type Redis struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// OpenRedis connects and pings the server.
func OpenRedis(ctx context.Context, cfg RedisConfig) (*Redis, error) {
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewRedis(client, cfg.Prefix), nil
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client, prefix string) *Redis {
	if prefix = strings.TrimSpace(prefix); prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &Redis{client: client, prefix: prefix, now: time.Now}
}

func (r *Redis) profilesKey() string { return r.prefix + ":profiles" }
func (r *Redis) orderKey() string    { return r.prefix + ":order" }
func (r *Redis) currentKey() string  { return r.prefix + ":current" }

func (r *Redis) GetProfile(ctx context.Context, id string) (*profile.Profile, error) {
	raw, err := r.client.HGet(ctx, r.profilesKey(), id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get profile %s: %w", id, err)
	}
	return decode([]byte(raw))
}

func (r *Redis) ListProfiles(ctx context.Context) ([]*profile.Profile, error) {
	ids, err := r.client.ZRange(ctx, r.orderKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list profile ids: %w", err)
	}
	if len(ids) == 0 {
		return []*profile.Profile{}, nil
	}

	values, err := r.client.HMGet(ctx, r.profilesKey(), ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list profiles: %w", err)
	}

	out := make([]*profile.Profile, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Order entry without a document; skip it.
			continue
		}
		p, err := decode([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("profile %s: %w", ids[i], err)
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *Redis) PutProfile(ctx context.Context, p *profile.Profile) error {
	if err := validateForPut(p); err != nil {
		return err
	}
	data, err := encode(p)
	if err != nil {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, r.profilesKey(), p.ID, data)
		pipe.ZAddNX(ctx, r.orderKey(), redis.Z{Score: float64(r.now().UnixNano()), Member: p.ID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis put profile %s: %w", p.ID, err)
	}
	return nil
}

func (r *Redis) GetCurrentProfile(ctx context.Context) (*profile.Profile, error) {
	id, err := r.client.Get(ctx, r.currentKey()).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get current profile: %w", err)
	}
	return r.GetProfile(ctx, id)
}

func (r *Redis) SetCurrentProfile(ctx context.Context, id string) error {
	exists, err := r.client.HExists(ctx, r.profilesKey(), id).Result()
	if err != nil {
		return fmt.Errorf("redis check profile %s: %w", id, err)
	}
	if !exists {
		return ErrNotFound
	}
	if err := r.client.Set(ctx, r.currentKey(), id, 0).Err(); err != nil {
		return fmt.Errorf("redis set current profile: %w", err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
