package cart

import (
	"context"
	"errors"
	"sync"
)

// ErrSlotEmpty 槽位中没有任何数据
var ErrSlotEmpty = errors.New("cart slot empty")

// Slot 购物车持久化槽位（外部 key-value 存储，每次整体覆盖写入）
type Slot interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, payload []byte) error
}

// MemorySlot 进程内槽位，进程重启后丢失
type MemorySlot struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemorySlot 创建内存槽位
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{data: make(map[string][]byte)}
}

// Load 读取槽位
func (s *MemorySlot) Load(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	payload, ok := s.data[key]
	if !ok {
		return nil, ErrSlotEmpty
	}
	out := make([]byte, len(payload))
	copy(out, payload)
	return out, nil
}

// Save 覆盖写入槽位
func (s *MemorySlot) Save(ctx context.Context, key string, payload []byte) error {
	stored := make([]byte, len(payload))
	copy(stored, payload)
	s.mu.Lock()
	s.data[key] = stored
	s.mu.Unlock()
	return nil
}
