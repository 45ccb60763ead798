package ledger

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/langchou/parkpass/internal/models"
)

// CreateReview 创建评价并持久化
// 重新计算停车场的平均评分（四舍五入到一位小数）和评价总数
func (s *Store) CreateReview(ctx context.Context, review models.Review) (*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	review.ID = newID("review")
	review.CreatedAt = s.now()
	s.data.Reviews = append(s.data.Reviews, review)

	if spot := s.findSpot(review.SpotID); spot != nil {
		sum, count := 0, 0
		for i := range s.data.Reviews {
			if s.data.Reviews[i].SpotID == review.SpotID {
				sum += s.data.Reviews[i].Rating
				count++
			}
		}
		mean := float64(sum) / float64(count)
		spot.Rating = math.Floor(mean*10+0.5) / 10
		spot.ReviewCount = count
	}

	if err := s.persist(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("Review created",
		zap.String("review_id", review.ID),
		zap.String("spot_id", review.SpotID),
		zap.Int("rating", review.Rating))

	out := review
	return &out, nil
}

// ListReviewsBySpot 列出停车场的全部评价
func (s *Store) ListReviewsBySpot(spotID string) []models.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reviews := []models.Review{}
	for _, r := range s.data.Reviews {
		if r.SpotID == spotID {
			reviews = append(reviews, r)
		}
	}
	return reviews
}
