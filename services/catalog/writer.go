package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coderr/models"
	"coderr/services/access"
	"coderr/services/errs"
	"coderr/services/validation"
	"coderr/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const duplicateTier = "Each offer_type may appear only once."

// CreateOffer stores an offer and all of its tiers, or nothing at all.
func (s *Service) CreateOffer(ctx context.Context, p access.Principal, in CreateOfferInput) (*OfferView, error) {
	if err := access.RequireRole(p, access.RoleBusiness); err != nil {
		return nil, err
	}
	if fields := validateCreate(in); fields != nil {
		return nil, errs.Validation("Invalid offer.", fields)
	}

	var view *OfferView
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		offer := models.Offer{
			UserID:      p.UserID,
			Title:       in.Title,
			Image:       in.Image,
			Description: in.Description,
		}
		if err := tx.Omit("Details").Create(&offer).Error; err != nil {
			return fmt.Errorf("create offer: %w", err)
		}
		if err := createDetails(tx, offer.ID, in.Details); err != nil {
			return conflictOnDuplicate(err)
		}

		var err error
		view, err = s.view(tx, offer.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	utils.GetLogger().Debug("offer created",
		zap.Uint("offer_id", view.ID),
		zap.Uint("user_id", p.UserID),
		zap.Int("details", len(view.Details)),
	)
	return view, nil
}

// UpdateOffer applies patch to an offer. Tiers are merged by offer_type:
// a known tier is updated in place, an unknown one is added, and tiers the
// patch does not mention stay as they are.
func (s *Service) UpdateOffer(ctx context.Context, p access.Principal, id uint, patch OfferPatch) (*OfferView, error) {
	db := s.db.WithContext(ctx)
	offer, err := ownedOffer(db, p, id)
	if err != nil {
		return nil, err
	}
	if fields := validatePatch(patch); fields != nil {
		return nil, errs.Validation("Invalid offer.", fields)
	}

	var view *OfferView
	err = db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{"updated_at": time.Now()}
		if patch.Title != nil {
			updates["title"] = *patch.Title
		}
		if patch.Description != nil {
			updates["description"] = *patch.Description
		}
		if patch.Image != nil {
			updates["image"] = *patch.Image
		}
		res := tx.Model(&models.Offer{}).Where("id = ?", offer.ID).Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("update offer %d: %w", offer.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			return errs.NotFound("Offer not found.")
		}

		if err := mergeDetails(tx, offer.ID, patch.Details); err != nil {
			return err
		}

		var err error
		view, err = s.view(tx, offer.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	utils.GetLogger().Debug("offer updated",
		zap.Uint("offer_id", offer.ID),
		zap.Uint("user_id", p.UserID),
		zap.Int("detail_patches", len(patch.Details)),
	)
	return view, nil
}

// AuthorizeOfferEdit fails unless p may modify the offer. Upload handlers
// call it before anything is written to disk.
func (s *Service) AuthorizeOfferEdit(ctx context.Context, p access.Principal, id uint) error {
	_, err := ownedOffer(s.db.WithContext(ctx), p, id)
	return err
}

// SetOfferImage points the offer at a stored image
func (s *Service) SetOfferImage(ctx context.Context, p access.Principal, id uint, path string) (*OfferView, error) {
	return s.UpdateOffer(ctx, p, id, OfferPatch{Image: &path})
}

// DeleteOffer removes an offer and its tiers. Orders keep their own copies.
func (s *Service) DeleteOffer(ctx context.Context, p access.Principal, id uint) error {
	db := s.db.WithContext(ctx)
	offer, err := ownedOffer(db, p, id)
	if err != nil {
		return err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("offer_id = ?", offer.ID).Delete(&models.OfferDetail{}).Error; err != nil {
			return fmt.Errorf("delete offer details: %w", err)
		}
		if err := tx.Delete(&models.Offer{}, offer.ID).Error; err != nil {
			return fmt.Errorf("delete offer: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	utils.GetLogger().Debug("offer deleted", zap.Uint("offer_id", offer.ID), zap.Uint("user_id", p.UserID))
	return nil
}

func mergeDetails(tx *gorm.DB, offerID uint, patches []DetailPatch) error {
	if len(patches) == 0 {
		return nil
	}

	var existing []models.OfferDetail
	if err := tx.Where("offer_id = ?", offerID).Find(&existing).Error; err != nil {
		return fmt.Errorf("load offer details: %w", err)
	}
	byTier := make(map[string]*models.OfferDetail, len(existing))
	for i := range existing {
		byTier[existing[i].OfferType] = &existing[i]
	}

	// New tiers need a full body. Report every gap before writing anything.
	var fields map[string]string
	for i, patch := range patches {
		if _, ok := byTier[patch.OfferType]; ok {
			continue
		}
		prefix := fmt.Sprintf("details[%d]", i)
		if patch.Title == nil {
			fields = validation.Merge(fields, map[string]string{prefix + ".title": "This field is required."})
		}
		if patch.Price == nil {
			fields = validation.Merge(fields, map[string]string{prefix + ".price": "This field is required."})
		}
		if patch.DeliveryTimeInDays == nil {
			fields = validation.Merge(fields, map[string]string{prefix + ".delivery_time_in_days": "This field is required."})
		}
	}
	if fields != nil {
		return errs.Validation("Invalid offer.", fields)
	}

	for _, patch := range patches {
		if detail, ok := byTier[patch.OfferType]; ok {
			if err := mergeDetail(tx, detail, patch); err != nil {
				return err
			}
			continue
		}
		if err := addDetail(tx, offerID, patch); err != nil {
			return conflictOnDuplicate(err)
		}
	}
	return nil
}

func validateCreate(in CreateOfferInput) map[string]string {
	fields := validation.Struct(in, "")
	seen := make(map[string]bool, len(in.Details))
	for i, d := range in.Details {
		prefix := fmt.Sprintf("details[%d]", i)
		if msg := validation.Price(d.Price); msg != "" {
			fields = validation.Merge(fields, map[string]string{prefix + ".price": msg})
		}
		if d.OfferType != "" && seen[d.OfferType] {
			fields = validation.Merge(fields, map[string]string{prefix + ".offer_type": duplicateTier})
		}
		seen[d.OfferType] = true
	}
	return fields
}

func validatePatch(patch OfferPatch) map[string]string {
	fields := validation.Struct(patch, "")
	seen := make(map[string]bool, len(patch.Details))
	for i, d := range patch.Details {
		prefix := fmt.Sprintf("details[%d]", i)
		if d.Price != nil {
			if msg := validation.Price(*d.Price); msg != "" {
				fields = validation.Merge(fields, map[string]string{prefix + ".price": msg})
			}
		}
		if d.OfferType != "" && seen[d.OfferType] {
			fields = validation.Merge(fields, map[string]string{prefix + ".offer_type": duplicateTier})
		}
		seen[d.OfferType] = true
	}
	return fields
}

// conflictOnDuplicate turns a lost race on the (offer_id, offer_type) index into a conflict
func conflictOnDuplicate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.Conflict("This offer already has a detail of that offer_type.", err)
	}
	return err
}

// ownedOffer loads an offer the caller may modify: unauthenticated callers
// are rejected first, then a missing offer, then anyone but the owner or staff.
func ownedOffer(db *gorm.DB, p access.Principal, id uint) (*models.Offer, error) {
	if err := access.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	var offer models.Offer
	if err := db.First(&offer, id).Error; err != nil {
		return nil, notFoundOr(err, "Offer not found.")
	}
	if err := access.RequireOwner(p, offer); err != nil {
		return nil, err
	}
	return &offer, nil
}
