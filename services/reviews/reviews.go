// Package reviews keeps customer ratings of business users, at most one per
// (business user, reviewer) pair.
package reviews

import (
	"context"
	"errors"
	"fmt"

	"coderr/models"
	"coderr/services/access"
	"coderr/services/errs"
	"coderr/services/validation"
	"coderr/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const alreadyReviewed = "You have already reviewed this user."

// DefaultOrdering applies when the caller asks for nothing or for an unknown key
const DefaultOrdering = "-updated_at"

var orderings = map[string]string{
	"updated_at":  "updated_at ASC, id ASC",
	"-updated_at": "updated_at DESC, id DESC",
	"rating":      "rating ASC, id ASC",
	"-rating":     "rating DESC, id DESC",
}

// CreateInput is a new review
type CreateInput struct {
	BusinessUserID uint   `json:"business_user" validate:"required"`
	Rating         int    `json:"rating" validate:"required,min=1,max=5"`
	Description    string `json:"description" validate:"max=5000"`
}

// Patch changes a review. Nil fields keep their value.
type Patch struct {
	Rating      *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
}

// Filter narrows a listing. Zero fields match everything.
type Filter struct {
	BusinessUserID uint
	ReviewerID     uint
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CreateReview lets a customer rate a business user once.
func (s *Service) CreateReview(ctx context.Context, p access.Principal, in CreateInput) (*models.Review, error) {
	if err := access.RequireRole(p, access.RoleCustomer); err != nil {
		return nil, err
	}
	if fields := validation.Struct(in, ""); fields != nil {
		return nil, errs.Validation("Invalid review.", fields)
	}

	db := s.db.WithContext(ctx)
	var business models.User
	if err := db.Select("id", "type").First(&business, in.BusinessUserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Field("business_user", "Invalid pk - object does not exist.")
		}
		return nil, fmt.Errorf("load business user %d: %w", in.BusinessUserID, err)
	}
	if business.Type != models.UserTypeBusiness {
		return nil, errs.Field("business_user", "Only business users can be reviewed.")
	}

	var existing int64
	err := db.Model(&models.Review{}).
		Where("business_user_id = ? AND reviewer_id = ?", in.BusinessUserID, p.UserID).
		Count(&existing).Error
	if err != nil {
		return nil, fmt.Errorf("check existing review: %w", err)
	}
	if existing > 0 {
		return nil, errs.Conflict(alreadyReviewed, nil)
	}

	review := models.Review{
		BusinessUserID: in.BusinessUserID,
		ReviewerID:     p.UserID,
		Rating:         in.Rating,
		Description:    in.Description,
	}
	// The unique index settles the race between the check above and this insert
	if err := db.Create(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.Conflict(alreadyReviewed, err)
		}
		return nil, fmt.Errorf("create review: %w", err)
	}

	utils.GetLogger().Debug("review created",
		zap.Uint("review_id", review.ID),
		zap.Uint("business_user_id", review.BusinessUserID),
		zap.Uint("reviewer_id", review.ReviewerID),
	)
	return &review, nil
}

// UpdateReview changes rating or description. Reviewer and staff only.
func (s *Service) UpdateReview(ctx context.Context, p access.Principal, id uint, patch Patch) (*models.Review, error) {
	if err := access.RequireAuthenticated(p); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	review, err := s.load(db, id)
	if err != nil {
		return nil, err
	}
	if err := access.RequireOwner(p, review); err != nil {
		return nil, err
	}
	if fields := validation.Struct(patch, ""); fields != nil {
		return nil, errs.Validation("Invalid review.", fields)
	}

	updates := map[string]any{}
	if patch.Rating != nil {
		updates["rating"] = *patch.Rating
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if len(updates) > 0 {
		if err := db.Model(review).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update review %d: %w", id, err)
		}
	}
	return s.load(db, id)
}

// DeleteReview removes a review. Reviewer and staff only.
func (s *Service) DeleteReview(ctx context.Context, p access.Principal, id uint) error {
	if err := access.RequireAuthenticated(p); err != nil {
		return err
	}

	db := s.db.WithContext(ctx)
	review, err := s.load(db, id)
	if err != nil {
		return err
	}
	if err := access.RequireOwner(p, review); err != nil {
		return err
	}
	if err := db.Delete(&models.Review{}, review.ID).Error; err != nil {
		return fmt.Errorf("delete review %d: %w", id, err)
	}
	return nil
}

// ListReviews returns every review matching filter in the requested order
func (s *Service) ListReviews(ctx context.Context, filter Filter, ordering string) ([]models.Review, error) {
	order, ok := orderings[ordering]
	if !ok {
		order = orderings[DefaultOrdering]
	}

	q := s.db.WithContext(ctx).Order(order)
	if filter.BusinessUserID != 0 {
		q = q.Where("business_user_id = ?", filter.BusinessUserID)
	}
	if filter.ReviewerID != 0 {
		q = q.Where("reviewer_id = ?", filter.ReviewerID)
	}

	reviews := []models.Review{}
	if err := q.Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

func (s *Service) load(db *gorm.DB, id uint) (*models.Review, error) {
	var review models.Review
	if err := db.First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("Review not found.")
		}
		return nil, fmt.Errorf("load review %d: %w", id, err)
	}
	return &review, nil
}
