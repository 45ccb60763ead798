package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/langchou/parkpass/internal/ledger"
	"github.com/langchou/parkpass/internal/models"
)

// GetUser 获取用户信息
// GET /api/users/:id
func (h *Handler) GetUser(c *gin.Context) {
	user := h.store.GetUserByID(c.Param("id"))
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	user.Password = ""
	c.JSON(http.StatusOK, gin.H{"data": user})
}

// UpdateProfile 更新用户资料
// PUT /api/users/:id/profile
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req struct {
		Name  string `json:"name" binding:"required"`
		Phone string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.store.UpdateProfile(c.Request.Context(), c.Param("id"), req.Name, req.Phone)
	if err != nil {
		h.logger.Error("Failed to update profile", zap.Error(err), zap.String("user_id", c.Param("id")))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	user.Password = ""
	c.JSON(http.StatusOK, gin.H{"data": user})
}

// AddVehicle 添加车辆
// POST /api/users/:id/vehicles
func (h *Handler) AddVehicle(c *gin.Context) {
	var req struct {
		Make         string `json:"make" binding:"required"`
		Model        string `json:"model" binding:"required"`
		LicensePlate string `json:"licensePlate" binding:"required"`
		Color        string `json:"color"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.store.AddVehicle(c.Request.Context(), c.Param("id"), models.Vehicle{
		Make:         req.Make,
		Model:        req.Model,
		LicensePlate: req.LicensePlate,
		Color:        req.Color,
	})
	if err != nil {
		if errors.Is(err, ledger.ErrVehicleLimit) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to add vehicle", zap.Error(err), zap.String("user_id", c.Param("id")))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add vehicle"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	user.Password = ""
	c.JSON(http.StatusOK, gin.H{"data": user})
}

// RemoveVehicle 移除车辆
// DELETE /api/users/:id/vehicles/:vehicleId
func (h *Handler) RemoveVehicle(c *gin.Context) {
	user, err := h.store.RemoveVehicle(c.Request.Context(), c.Param("id"), c.Param("vehicleId"))
	if err != nil {
		h.logger.Error("Failed to remove vehicle", zap.Error(err), zap.String("user_id", c.Param("id")))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove vehicle"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	user.Password = ""
	c.JSON(http.StatusOK, gin.H{"data": user})
}
