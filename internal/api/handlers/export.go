package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ExportOwnerBookings 导出业主预订为 CSV
// GET /api/owners/:id/bookings/export?status=active&search=plaza
func (h *Handler) ExportOwnerBookings(c *gin.Context) {
	filename := fmt.Sprintf("bookings-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	err := h.exportService.ExportOwnerBookings(
		c.Writer,
		c.Param("id"),
		c.Query("status"),
		c.Query("search"),
	)
	if err != nil {
		h.logger.Error("Failed to export bookings", zap.Error(err), zap.String("owner_id", c.Param("id")))
		c.Status(http.StatusInternalServerError)
	}
}
