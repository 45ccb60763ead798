package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/langchou/parkpass/internal/models"
)

// MemoryStore 内存快照存储，用于测试和无持久化的演示运行
// 通过 JSON 编解码做深拷贝，保证与真实后端一致的序列化行为
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

// NewMemoryStore 创建内存快照存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load 加载快照
func (s *MemoryStore) Load(_ context.Context) (*models.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		return nil, nil
	}

	snapshot := &models.Snapshot{}
	if err := json.Unmarshal(s.data, snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return snapshot, nil
}

// Save 保存快照
func (s *MemoryStore) Save(_ context.Context, snapshot *models.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

// Close 无需释放资源
func (s *MemoryStore) Close() {}
