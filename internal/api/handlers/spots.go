package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/langchou/parkpass/internal/models"
)

// ListSpots 获取上架中的停车场列表
// GET /api/spots
func (h *Handler) ListSpots(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.store.ListActiveSpots()})
}

// GetSpot 获取停车场详情
// GET /api/spots/:id
func (h *Handler) GetSpot(c *gin.Context) {
	spot := h.store.GetSpot(c.Param("id"))
	if spot == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Spot not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": spot})
}

// CreateSpot 创建停车场
// POST /api/spots
func (h *Handler) CreateSpot(c *gin.Context) {
	var req struct {
		Name         string   `json:"name" binding:"required"`
		Address      string   `json:"address" binding:"required"`
		Price        float64  `json:"price" binding:"required,gt=0"`
		PriceType    string   `json:"priceType" binding:"required,oneof=hour day"`
		TotalSlots   int      `json:"totalSlots" binding:"required,gt=0"`
		Images       []string `json:"images"`
		Amenities    []string `json:"amenities"`
		OpeningHours string   `json:"openingHours"`
		Phone        string   `json:"phone"`
		Description  string   `json:"description"`
		Lat          float64  `json:"lat"`
		Lng          float64  `json:"lng"`
		OwnerID      string   `json:"ownerId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	spot, err := h.store.CreateSpot(c.Request.Context(), models.ParkingSpot{
		Name:         req.Name,
		Address:      req.Address,
		Price:        req.Price,
		PriceType:    req.PriceType,
		TotalSlots:   req.TotalSlots,
		Images:       req.Images,
		Amenities:    req.Amenities,
		OpeningHours: req.OpeningHours,
		Phone:        req.Phone,
		Description:  req.Description,
		Lat:          req.Lat,
		Lng:          req.Lng,
		OwnerID:      req.OwnerID,
	})
	if err != nil {
		h.logger.Error("Failed to create spot", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create spot"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": spot})
}

// UpdateSpot 更新停车场部分字段（上下架、改价、改车位数等）
// PATCH /api/spots/:id
func (h *Handler) UpdateSpot(c *gin.Context) {
	var update models.SpotUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	spot, err := h.store.UpdateSpot(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		h.logger.Error("Failed to update spot", zap.Error(err), zap.String("spot_id", c.Param("id")))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update spot"})
		return
	}
	if spot == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Spot not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": spot})
}

// GetNextAvailableTime 获取停车场最早可用时间
// GET /api/spots/:id/next-available
func (h *Handler) GetNextAvailableTime(c *gin.Context) {
	next := h.store.NextAvailableTime(c.Param("id"))
	if next == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Spot not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"nextAvailableTime": next}})
}

// ListOwnerSpots 获取业主名下的停车场列表
// GET /api/owners/:id/spots
func (h *Handler) ListOwnerSpots(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.store.ListSpotsByOwner(c.Param("id"))})
}
