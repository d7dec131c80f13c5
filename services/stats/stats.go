// Package stats computes the platform-wide numbers shown on the landing page.
package stats

import (
	"context"
	"fmt"
	"math"

	"coderr/models"

	"gorm.io/gorm"
)

// BaseInfo is the public platform summary
type BaseInfo struct {
	ReviewCount          int64   `json:"review_count"`
	AverageRating        float64 `json:"average_rating"`
	BusinessProfileCount int64   `json:"business_profile_count"`
	OfferCount           int64   `json:"offer_count"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// BaseInfo counts reviews, business profiles and offers. The average rating
// is rounded to one decimal and is 0 while there are no reviews.
func (s *Service) BaseInfo(ctx context.Context) (*BaseInfo, error) {
	db := s.db.WithContext(ctx)
	info := &BaseInfo{}

	var reviews struct {
		Count   int64
		Average *float64
	}
	err := db.Model(&models.Review{}).
		Select("COUNT(*) AS count, AVG(rating) AS average").
		Scan(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("review stats: %w", err)
	}
	info.ReviewCount = reviews.Count
	if reviews.Average != nil {
		info.AverageRating = math.Round(*reviews.Average*10) / 10
	}

	if err := db.Model(&models.User{}).Where("type = ?", models.UserTypeBusiness).Count(&info.BusinessProfileCount).Error; err != nil {
		return nil, fmt.Errorf("count business profiles: %w", err)
	}
	if err := db.Model(&models.Offer{}).Count(&info.OfferCount).Error; err != nil {
		return nil, fmt.Errorf("count offers: %w", err)
	}
	return info, nil
}
