package repository

import (
	"context"

	"github.com/langchou/parkpass/internal/models"
)

// DefaultSnapshotKey 快照存储的默认键名，与历史部署保持一致
const DefaultSnapshotKey = "parkpass_database"

// SnapshotStore 快照存储
// 四个集合整体读写：进程启动时 Load 一次，每次变更后 Save 全量覆盖
type SnapshotStore interface {
	// Load 加载快照，不存在时返回 (nil, nil)
	Load(ctx context.Context) (*models.Snapshot, error)
	// Save 全量覆盖保存快照
	Save(ctx context.Context, snapshot *models.Snapshot) error
	// Close 释放底层连接
	Close()
}
