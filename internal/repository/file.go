package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/langchou/parkpass/internal/models"
)

// FileStore 基于本地 JSON 文件的快照存储
type FileStore struct {
	path string
}

// NewFileStore 创建文件快照存储
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load 加载快照，文件不存在时返回 (nil, nil)
func (s *FileStore) Load(_ context.Context) (*models.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot file: %w", err)
	}

	snapshot := &models.Snapshot{}
	if err := json.Unmarshal(data, snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return snapshot, nil
}

// Save 全量覆盖保存快照
func (s *FileStore) Save(_ context.Context, snapshot *models.Snapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write snapshot file: %w", err)
	}
	return nil
}

// Close 无需释放资源
func (s *FileStore) Close() {}
