package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/suPer8Hu/paper-explorer/internal/auth"
)

const sessionKeyPrefix = "auth:session:"

// Store keeps auth sessions in redis with a per-key TTL.
type Store struct {
	rdb *redis.Client
}

func New(addr, password string, db int) *Store {
	return &Store{rdb: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.rdb.Close()
}

func (s *Store) Save(ctx context.Context, id string, p auth.Principal, ttl time.Duration) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, sessionKeyPrefix+id, b, ttl).Err()
}

func (s *Store) Get(ctx context.Context, id string) (auth.Principal, error) {
	b, err := s.rdb.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return auth.Principal{}, auth.ErrSessionNotFound
		}
		return auth.Principal{}, err
	}
	var p auth.Principal
	if err := json.Unmarshal(b, &p); err != nil {
		return auth.Principal{}, fmt.Errorf("decode auth session %s: %w", id, err)
	}
	return p, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, sessionKeyPrefix+id).Err()
}

var _ auth.SessionStore = (*Store)(nil)
