package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/langchou/parkpass/internal/ledger"
	"github.com/langchou/parkpass/internal/models"
	"github.com/langchou/parkpass/internal/state"
	"github.com/langchou/parkpass/pkg/ws"
)

// ErrInvalidTransition 预订当前状态不允许该操作
var ErrInvalidTransition = errors.New("booking status does not allow this operation")

// BookingService 预订服务
// 封装台账的预订流程：创建、扫码/PIN 入场、离场、取消、延长，
// 状态流转经过状态机校验，车位余量变化通过 WebSocket 广播
type BookingService struct {
	logger *zap.Logger
	store  *ledger.Store
	wsHub  *ws.Hub
}

// NewBookingService 创建预订服务
func NewBookingService(logger *zap.Logger, store *ledger.Store, wsHub *ws.Hub) *BookingService {
	return &BookingService{
		logger: logger,
		store:  store,
		wsHub:  wsHub,
	}
}

// AvailabilityUpdate 车位余量广播消息
type AvailabilityUpdate struct {
	SpotID         string `json:"spotId"`
	AvailableSlots int    `json:"availableSlots"`
	TotalSlots     int    `json:"totalSlots"`
}

// Create 创建预订并广播车位余量变化
func (s *BookingService) Create(ctx context.Context, booking models.Booking) (*models.Booking, error) {
	created, err := s.store.CreateBooking(ctx, booking)
	if err != nil {
		return nil, err
	}

	s.broadcastAvailability(created.SpotID)
	return created, nil
}

// CheckInByQRCode 扫码入场，令牌未知时返回 (nil, nil)
func (s *BookingService) CheckInByQRCode(ctx context.Context, code string) (*models.Booking, error) {
	booking := s.store.FindBookingByQRCode(code)
	if booking == nil {
		return nil, nil
	}
	return s.transition(ctx, booking, state.EventActivate)
}

// CheckInByPIN PIN 入场，PIN 未知时返回 (nil, nil)
func (s *BookingService) CheckInByPIN(ctx context.Context, pin string) (*models.Booking, error) {
	booking := s.store.FindBookingByPIN(pin)
	if booking == nil {
		return nil, nil
	}
	return s.transition(ctx, booking, state.EventActivate)
}

// Checkout 离场结算
func (s *BookingService) Checkout(ctx context.Context, bookingID string) (*models.Booking, error) {
	booking := s.store.GetBooking(bookingID)
	if booking == nil {
		return nil, nil
	}
	return s.transition(ctx, booking, state.EventComplete)
}

// Cancel 取消预订
func (s *BookingService) Cancel(ctx context.Context, bookingID string) (*models.Booking, error) {
	booking := s.store.GetBooking(bookingID)
	if booking == nil {
		return nil, nil
	}
	return s.transition(ctx, booking, state.EventCancel)
}

// Extend 延长预订时段并广播预订变化
func (s *BookingService) Extend(ctx context.Context, bookingID string, additionalHours int) (*models.Booking, error) {
	extended, err := s.store.ExtendBooking(ctx, bookingID, additionalHours)
	if err != nil || extended == nil {
		return extended, err
	}

	s.wsHub.BroadcastMessage(ws.MsgTypeBookingUpdate, extended)
	return extended, nil
}

// transition 经状态机校验后更新预订状态并广播
func (s *BookingService) transition(ctx context.Context, booking *models.Booking, event string) (*models.Booking, error) {
	machine := state.NewMachine(booking.Status)
	if !machine.Can(event) {
		s.logger.Warn("Rejected booking transition",
			zap.String("booking_id", booking.ID),
			zap.String("status", booking.Status),
			zap.String("event", event))
		return nil, ErrInvalidTransition
	}
	if err := machine.Trigger(event); err != nil {
		return nil, err
	}

	updated, err := s.store.SetBookingStatus(ctx, booking.ID, machine.Current())
	if err != nil || updated == nil {
		return updated, err
	}

	s.wsHub.BroadcastMessage(ws.MsgTypeBookingUpdate, updated)
	s.broadcastAvailability(updated.SpotID)
	return updated, nil
}

// broadcastAvailability 广播停车场当前车位余量
func (s *BookingService) broadcastAvailability(spotID string) {
	spot := s.store.GetSpot(spotID)
	if spot == nil {
		return
	}

	s.wsHub.BroadcastMessage(ws.MsgTypeAvailabilityUpdate, AvailabilityUpdate{
		SpotID:         spot.ID,
		AvailableSlots: spot.AvailableSlots,
		TotalSlots:     spot.TotalSlots,
	})
}
