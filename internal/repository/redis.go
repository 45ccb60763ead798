package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/langchou/parkpass/internal/models"
)

// RedisStore 基于 Redis 的快照存储
// 快照作为 JSON 串存放在单个固定键下
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore 创建 Redis 快照存储
func NewRedisStore(ctx context.Context, redisURL, key string) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisStore{client: client, key: key}, nil
}

// Load 加载快照
func (s *RedisStore) Load(ctx context.Context) (*models.Snapshot, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	snapshot := &models.Snapshot{}
	if err := json.Unmarshal(data, snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return snapshot, nil
}

// Save 全量覆盖保存快照
func (s *RedisStore) Save(ctx context.Context, snapshot *models.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Close 关闭连接
func (s *RedisStore) Close() {
	s.client.Close()
}
