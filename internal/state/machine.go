package state

import (
	"context"
	"fmt"
	"sync"

	"github.com/looplab/fsm"

	"github.com/langchou/parkpass/internal/models"
)

// 预订生命周期事件
const (
	EventActivate = "activate" // 入场核销 pending -> active
	EventComplete = "complete" // 离场结算 active -> completed
	EventCancel   = "cancel"   // 取消 pending/active -> cancelled
)

// Machine 预订状态机
// pending -> {active, cancelled}, active -> {completed, cancelled}，
// completed 和 cancelled 为终态
type Machine struct {
	mu  sync.Mutex
	fsm *fsm.FSM
}

// NewMachine 以预订当前状态为初始状态创建状态机
func NewMachine(initialStatus string) *Machine {
	if initialStatus == "" {
		initialStatus = models.BookingStatusPending
	}

	return &Machine{
		fsm: fsm.NewFSM(
			initialStatus,
			fsm.Events{
				{Name: EventActivate, Src: []string{models.BookingStatusPending}, Dst: models.BookingStatusActive},
				{Name: EventComplete, Src: []string{models.BookingStatusActive}, Dst: models.BookingStatusCompleted},
				{Name: EventCancel, Src: []string{models.BookingStatusPending, models.BookingStatusActive}, Dst: models.BookingStatusCancelled},
			},
			fsm.Callbacks{},
		),
	}
}

// Current 获取当前状态
func (m *Machine) Current() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fsm.Current()
}

// Can 检查是否可以触发事件
func (m *Machine) Can(event string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fsm.Can(event)
}

// Trigger 触发事件
func (m *Machine) Trigger(event string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fsm.Event(context.Background(), event); err != nil {
		return fmt.Errorf("trigger event %s: %w", event, err)
	}
	return nil
}
