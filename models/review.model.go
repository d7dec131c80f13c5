package models

import (
	"time"
)

// Review is a customer's rating of a business user. One per (business user, reviewer).
type Review struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	BusinessUserID uint      `gorm:"not null;uniqueIndex:idx_reviews_business_reviewer,priority:1" json:"business_user"`
	ReviewerID     uint      `gorm:"not null;uniqueIndex:idx_reviews_business_reviewer,priority:2;index" json:"reviewer"`
	Rating         int       `gorm:"not null;check:chk_reviews_rating,rating >= 1 AND rating <= 5" json:"rating"`
	Description    string    `gorm:"type:text;not null" json:"description"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `gorm:"index" json:"updated_at"`
}

func (Review) TableName() string {
	return "reviews"
}

// OwnerID is the reviewer who wrote the review.
func (r Review) OwnerID() uint {
	return r.ReviewerID
}
