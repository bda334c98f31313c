package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tallow-shop/storefront/internal/cart"

	"github.com/redis/go-redis/v9"
)

// CartSlot 基于 Redis 的购物车槽位，每个会话一个字符串 key
type CartSlot struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ cart.Slot = (*CartSlot)(nil)

// NewCartSlot 创建 Redis 槽位；ttl 为 0 表示不过期
func NewCartSlot(client *redis.Client, prefix string, ttl time.Duration) *CartSlot {
	return &CartSlot{client: client, prefix: strings.TrimSpace(prefix), ttl: ttl}
}

// Load 读取槽位
func (s *CartSlot) Load(ctx context.Context, key string) ([]byte, error) {
	if s.client == nil {
		return nil, errors.New("redis client not initialized")
	}
	payload, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, cart.ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("redis get cart slot: %w", err)
	}
	return payload, nil
}

// Save 覆盖写入槽位，每次写入都会续期
func (s *CartSlot) Save(ctx context.Context, key string, payload []byte) error {
	if s.client == nil {
		return errors.New("redis client not initialized")
	}
	if err := s.client.Set(ctx, s.key(key), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart slot: %w", err)
	}
	return nil
}

func (s *CartSlot) key(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + ":" + key
}
