package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/langchou/parkpass/internal/ledger"
	"github.com/langchou/parkpass/internal/service"
	"github.com/langchou/parkpass/pkg/ws"
)

// Handler HTTP 处理器
type Handler struct {
	logger         *zap.Logger
	store          *ledger.Store
	bookingService *service.BookingService
	exportService  *service.ExportService
	wsHub          *ws.Hub
	upgrader       websocket.Upgrader
}

// NewHandler 创建处理器
func NewHandler(
	logger *zap.Logger,
	store *ledger.Store,
	bookingService *service.BookingService,
	exportService *service.ExportService,
	wsHub *ws.Hub,
) *Handler {
	return &Handler{
		logger:         logger,
		store:          store,
		bookingService: bookingService,
		exportService:  exportService,
		wsHub:          wsHub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 开发环境允许所有来源
			},
		},
	}
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	// API 路由
	api := r.Group("/api")
	{
		// 认证
		api.POST("/auth/login", h.Login)
		api.POST("/auth/register", h.Register)

		// 停车场
		api.GET("/spots", h.ListSpots)
		api.GET("/spots/:id", h.GetSpot)
		api.POST("/spots", h.CreateSpot)
		api.PATCH("/spots/:id", h.UpdateSpot)
		api.GET("/spots/:id/next-available", h.GetNextAvailableTime)
		api.GET("/spots/:id/reviews", h.ListSpotReviews)

		// 业主后台
		api.GET("/owners/:id/spots", h.ListOwnerSpots)
		api.GET("/owners/:id/bookings", h.ListOwnerBookings)
		api.GET("/owners/:id/bookings/export", h.ExportOwnerBookings)
		api.GET("/owners/:id/bookings/stats", h.GetOwnerBookingStats)
		api.GET("/owners/:id/reviews/stats", h.GetOwnerReviewStats)

		// 预订
		api.POST("/bookings", h.CreateBooking)
		api.GET("/bookings/:id", h.GetBooking)
		api.POST("/bookings/:id/extend", h.ExtendBooking)
		api.POST("/bookings/:id/checkout", h.CheckoutBooking)
		api.POST("/bookings/:id/cancel", h.CancelBooking)
		api.PUT("/bookings/:id/status", h.SetBookingStatus)

		// 入场核销
		api.POST("/checkin/qr", h.CheckInByQRCode)
		api.POST("/checkin/pin", h.CheckInByPIN)

		// 评价
		api.POST("/reviews", h.CreateReview)

		// 用户
		api.GET("/users/:id", h.GetUser)
		api.GET("/users/:id/bookings", h.ListUserBookings)
		api.PUT("/users/:id/profile", h.UpdateProfile)
		api.POST("/users/:id/vehicles", h.AddVehicle)
		api.DELETE("/users/:id/vehicles/:vehicleId", h.RemoveVehicle)
	}

	// WebSocket
	r.GET("/ws", h.HandleWebSocket)

	// 健康检查
	r.GET("/health", h.HealthCheck)
}

// HandleWebSocket WebSocket 处理
func (h *Handler) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade websocket", zap.Error(err))
		return
	}

	client := ws.NewClient(h.wsHub, conn)
	client.Register()

	// 启动读写协程
	go client.ReadPump()
	go client.WritePump()
}

// HealthCheck 健康检查
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"ws_clients": h.wsHub.ClientCount(),
	})
}
