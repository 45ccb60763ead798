package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/langchou/parkpass/internal/ledger"
	"github.com/langchou/parkpass/internal/models"
	"github.com/langchou/parkpass/internal/service"
)

// CreateBooking 创建预订
// POST /api/bookings
func (h *Handler) CreateBooking(c *gin.Context) {
	var req struct {
		SpotID    string    `json:"spotId" binding:"required"`
		UserID    string    `json:"userId" binding:"required"`
		VehicleID string    `json:"vehicleId" binding:"required"`
		StartTime time.Time `json:"startTime" binding:"required"`
		EndTime   time.Time `json:"endTime" binding:"required"`
		TotalCost float64   `json:"totalCost"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if h.store.GetSpot(req.SpotID) == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Spot not found"})
		return
	}

	booking, err := h.bookingService.Create(c.Request.Context(), models.Booking{
		SpotID:    req.SpotID,
		UserID:    req.UserID,
		VehicleID: req.VehicleID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		TotalCost: req.TotalCost,
		Status:    models.BookingStatusPending,
	})
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidTimeRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to create booking", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create booking"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": booking})
}

// GetBooking 获取预订详情
// GET /api/bookings/:id
func (h *Handler) GetBooking(c *gin.Context) {
	booking := h.store.GetBooking(c.Param("id"))
	if booking == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": booking})
}

// ListUserBookings 获取用户的预订列表
// GET /api/users/:id/bookings
func (h *Handler) ListUserBookings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.store.ListBookingsByUser(c.Param("id"))})
}

// ListOwnerBookings 获取业主名下停车场的全部预订
// GET /api/owners/:id/bookings
func (h *Handler) ListOwnerBookings(c *gin.Context) {
	bookings := h.ownerBookings(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"data": bookings})
}

// ExtendBooking 延长预订时段
// POST /api/bookings/:id/extend
func (h *Handler) ExtendBooking(c *gin.Context) {
	var req struct {
		AdditionalHours int `json:"additionalHours" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	booking, err := h.bookingService.Extend(c.Request.Context(), c.Param("id"), req.AdditionalHours)
	if err != nil {
		if errors.Is(err, ledger.ErrExtensionConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to extend booking", zap.Error(err), zap.String("booking_id", c.Param("id")))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to extend booking"})
		return
	}
	if booking == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": booking})
}

// CheckoutBooking 离场结算
// POST /api/bookings/:id/checkout
func (h *Handler) CheckoutBooking(c *gin.Context) {
	h.applyTransition(c, func() (*models.Booking, error) {
		return h.bookingService.Checkout(c.Request.Context(), c.Param("id"))
	})
}

// CancelBooking 取消预订
// POST /api/bookings/:id/cancel
func (h *Handler) CancelBooking(c *gin.Context) {
	h.applyTransition(c, func() (*models.Booking, error) {
		return h.bookingService.Cancel(c.Request.Context(), c.Param("id"))
	})
}

// SetBookingStatus 业主后台直接改写预订状态
// PUT /api/bookings/:id/status
func (h *Handler) SetBookingStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required,oneof=pending active completed cancelled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	booking, err := h.store.SetBookingStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.logger.Error("Failed to update booking status", zap.Error(err), zap.String("booking_id", c.Param("id")))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update booking status"})
		return
	}
	if booking == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": booking})
}

// CheckInByQRCode 扫码入场核销
// POST /api/checkin/qr
func (h *Handler) CheckInByQRCode(c *gin.Context) {
	var req struct {
		QRCode string `json:"qrCode" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	h.applyTransition(c, func() (*models.Booking, error) {
		return h.bookingService.CheckInByQRCode(c.Request.Context(), req.QRCode)
	})
}

// CheckInByPIN PIN 入场核销
// POST /api/checkin/pin
func (h *Handler) CheckInByPIN(c *gin.Context) {
	var req struct {
		PIN string `json:"pin" binding:"required,len=4,numeric"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	h.applyTransition(c, func() (*models.Booking, error) {
		return h.bookingService.CheckInByPIN(c.Request.Context(), req.PIN)
	})
}

// GetOwnerBookingStats 业主预订看板统计
// GET /api/owners/:id/bookings/stats
func (h *Handler) GetOwnerBookingStats(c *gin.Context) {
	bookings := h.ownerBookings(c.Param("id"))

	active, pending := 0, 0
	var todayRevenue float64
	today := time.Now().Format("2006-01-02")
	for _, b := range bookings {
		switch b.Status {
		case models.BookingStatusActive:
			active++
		case models.BookingStatusPending:
			pending++
		}
		if b.StartTime.Format("2006-01-02") == today {
			todayRevenue += b.TotalCost
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"total":        len(bookings),
			"active":       active,
			"pending":      pending,
			"todayRevenue": todayRevenue,
		},
	})
}

// applyTransition 执行状态流转并统一映射错误
func (h *Handler) applyTransition(c *gin.Context, fn func() (*models.Booking, error)) {
	booking, err := fn()
	if err != nil {
		if errors.Is(err, service.ErrInvalidTransition) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to transition booking", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update booking"})
		return
	}
	if booking == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": booking})
}

// ownerBookings 业主名下停车场的全部预订
func (h *Handler) ownerBookings(ownerID string) []models.Booking {
	spotIDs := make(map[string]bool)
	for _, spot := range h.store.ListSpotsByOwner(ownerID) {
		spotIDs[spot.ID] = true
	}

	bookings := []models.Booking{}
	for _, b := range h.store.ListAllBookings() {
		if spotIDs[b.SpotID] {
			bookings = append(bookings, b)
		}
	}
	return bookings
}
