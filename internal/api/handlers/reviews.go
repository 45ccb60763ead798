package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/langchou/parkpass/internal/models"
)

// CreateReview 创建评价
// POST /api/reviews
func (h *Handler) CreateReview(c *gin.Context) {
	var req struct {
		UserID  string `json:"userId" binding:"required"`
		SpotID  string `json:"spotId" binding:"required"`
		Rating  int    `json:"rating" binding:"required,min=1,max=5"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user := h.store.GetUserByID(req.UserID)
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if h.store.GetSpot(req.SpotID) == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Spot not found"})
		return
	}

	review, err := h.store.CreateReview(c.Request.Context(), models.Review{
		UserID:   req.UserID,
		SpotID:   req.SpotID,
		Rating:   req.Rating,
		Comment:  req.Comment,
		UserName: user.Name,
	})
	if err != nil {
		h.logger.Error("Failed to create review", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": review})
}

// ListSpotReviews 获取停车场的评价列表
// GET /api/spots/:id/reviews
func (h *Handler) ListSpotReviews(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.store.ListReviewsBySpot(c.Param("id"))})
}

// GetOwnerReviewStats 业主评价看板统计
// GET /api/owners/:id/reviews/stats
func (h *Handler) GetOwnerReviewStats(c *gin.Context) {
	reviews := []models.Review{}
	for _, spot := range h.store.ListSpotsByOwner(c.Param("id")) {
		reviews = append(reviews, h.store.ListReviewsBySpot(spot.ID)...)
	}

	distribution := map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	positive := 0
	for _, r := range reviews {
		distribution[r.Rating]++
		if r.Rating >= 4 {
			positive++
		}
	}

	positiveShare := 0.0
	if len(reviews) > 0 {
		positiveShare = float64(positive) / float64(len(reviews)) * 100
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"total":         len(reviews),
			"distribution":  distribution,
			"positive":      positive,
			"positiveShare": positiveShare,
		},
	})
}
