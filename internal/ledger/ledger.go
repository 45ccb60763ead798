// Package ledger 预订与车位台账
// 四个集合（用户、停车场、预订、评价）常驻内存，所有变更经由本包的
// 操作完成并在每次变更后整体持久化快照，其他层不直接改动记录
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/langchou/parkpass/internal/models"
	"github.com/langchou/parkpass/internal/repository"
)

var (
	// ErrExtensionConflict 延长时段与其他预订冲突，超出车位总数
	ErrExtensionConflict = errors.New("extension not possible due to conflicting bookings")
	// ErrVehicleLimit 超出单用户车辆数上限
	ErrVehicleLimit = errors.New("vehicle limit reached")
	// ErrInvalidTimeRange 预订开始时间必须早于结束时间
	ErrInvalidTimeRange = errors.New("booking start time must be before end time")
)

// Store 台账存储
// 单进程内所有变更由 mu 串行化，变更在内存中完成后一次性持久化
type Store struct {
	logger *zap.Logger
	snap   repository.SnapshotStore

	mu   sync.RWMutex
	data *models.Snapshot

	now func() time.Time
}

// New 创建台账并加载快照，快照不存在时以空集合启动
func New(ctx context.Context, logger *zap.Logger, snap repository.SnapshotStore) (*Store, error) {
	data, err := snap.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if data == nil {
		data = models.NewSnapshot()
	}

	return &Store{
		logger: logger,
		snap:   snap,
		data:   data,
		now:    time.Now,
	}, nil
}

// persist 全量保存快照，调用方需持有写锁
func (s *Store) persist(ctx context.Context) error {
	if err := s.snap.Save(ctx, s.data); err != nil {
		return fmt.Errorf("persist snapshot: %w", err)
	}
	return nil
}

// newID 生成带前缀的唯一 ID
func newID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

// Snapshot 返回当前快照的深拷贝，用于导出和测试
func (s *Store) Snapshot() *models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := &models.Snapshot{
		Users:        make([]models.User, len(s.data.Users)),
		ParkingSpots: make([]models.ParkingSpot, len(s.data.ParkingSpots)),
		Bookings:     make([]models.Booking, len(s.data.Bookings)),
		Reviews:      make([]models.Review, len(s.data.Reviews)),
	}
	copy(out.Users, s.data.Users)
	copy(out.ParkingSpots, s.data.ParkingSpots)
	copy(out.Bookings, s.data.Bookings)
	copy(out.Reviews, s.data.Reviews)
	return out
}
