package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/redis/go-redis/v9"
)

// RedisStore is the session namespace. Keys live under a prefix so Clear
// only wipes this namespace, not the whole redis database.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "session:"
	}
	return &RedisStore{rdb: rdb, prefix: prefix}
}

func (s *RedisStore) Set(ctx context.Context, key string, v any) bool {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("kvstore: marshal %q: %v", key, err)
		return false
	}
	if err := s.rdb.Set(ctx, s.prefix+key, data, 0).Err(); err != nil {
		log.Printf("kvstore: session set %q: %v", key, err)
		return false
	}
	return true
}

func (s *RedisStore) Get(ctx context.Context, key string, dest any) bool {
	data, err := s.rdb.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("kvstore: session get %q: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		log.Printf("kvstore: unmarshal %q: %v", key, err)
		return false
	}
	return true
}

func (s *RedisStore) Remove(ctx context.Context, key string) bool {
	if err := s.rdb.Del(ctx, s.prefix+key).Err(); err != nil {
		log.Printf("kvstore: session remove %q: %v", key, err)
		return false
	}
	return true
}

func (s *RedisStore) Clear(ctx context.Context) bool {
	var cursor uint64
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, s.prefix+"*", 100).Result()
		if err != nil {
			log.Printf("kvstore: session clear: %v", err)
			return false
		}
		if len(keys) > 0 {
			if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
				log.Printf("kvstore: session clear del: %v", err)
				return false
			}
		}
		cursor = next
		if cursor == 0 {
			return true
		}
	}
}
