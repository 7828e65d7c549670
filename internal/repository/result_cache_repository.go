// Package repository 提供了数据访问层的实现。
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/AmitMalivad/social-media-post-generator-tool/internal/model"
	"github.com/go-redis/redis/v8"
)

// ResultCacheRepository 定义了生成结果缓存的操作接口。
// 缓存保存完整的响应体（含数据库中不落列的建议字段），读路径优先命中缓存。
type ResultCacheRepository interface {
	SaveResult(ctx context.Context, projectID uint, result *model.ContentResponse, ttl time.Duration) error
	GetResult(ctx context.Context, projectID uint) (*model.ContentResponse, error)
}

type redisResultCacheRepository struct {
	redisClient *redis.Client
}

// NewResultCacheRepository 创建一个新的 ResultCacheRepository 实例。
func NewResultCacheRepository(redisClient *redis.Client) ResultCacheRepository {
	return &redisResultCacheRepository{redisClient: redisClient}
}

func resultKey(projectID uint) string {
	return fmt.Sprintf("content:result:%d", projectID)
}

// SaveResult 以 JSON 形式把一次生成的完整结果写入 Redis。
func (r *redisResultCacheRepository) SaveResult(ctx context.Context, projectID uint, result *model.ContentResponse, ttl time.Duration) error {
	jsonData, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal content result: %w", err)
	}
	if err := r.redisClient.Set(ctx, resultKey(projectID), jsonData, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set content result: %w", err)
	}
	return nil
}

// GetResult 从 Redis 获取缓存的生成结果；未命中返回 (nil, nil)。
func (r *redisResultCacheRepository) GetResult(ctx context.Context, projectID uint) (*model.ContentResponse, error) {
	jsonData, err := r.redisClient.Get(ctx, resultKey(projectID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get content result: %w", err)
	}
	var result model.ContentResponse
	if err := json.Unmarshal([]byte(jsonData), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal content result: %w", err)
	}
	return &result, nil
}
