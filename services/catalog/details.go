package catalog

import (
	"context"
	"fmt"

	"coderr/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DetailURL is the public path of a single tier
func DetailURL(id uint) string {
	return fmt.Sprintf("/api/offerdetails/%d/", id)
}

// GetDetail returns one tier regardless of its offer. Details are public.
func (s *Service) GetDetail(ctx context.Context, id uint) (*models.OfferDetail, error) {
	var detail models.OfferDetail
	if err := s.db.WithContext(ctx).First(&detail, id).Error; err != nil {
		return nil, notFoundOr(err, "Offer detail not found.")
	}
	return &detail, nil
}

func newDetail(offerID uint, in DetailInput) models.OfferDetail {
	revisions := models.UnlimitedRevisions
	if in.Revisions != nil {
		revisions = *in.Revisions
	}
	features := in.Features
	if features == nil {
		features = []string{}
	}
	return models.OfferDetail{
		OfferID:            offerID,
		Title:              in.Title,
		Revisions:          revisions,
		DeliveryTimeInDays: in.DeliveryTimeInDays,
		Price:              in.Price,
		Features:           features,
		OfferType:          in.OfferType,
	}
}

// createDetails inserts every tier of a new offer in one statement
func createDetails(tx *gorm.DB, offerID uint, inputs []DetailInput) error {
	details := make([]models.OfferDetail, 0, len(inputs))
	for _, in := range inputs {
		details = append(details, newDetail(offerID, in))
	}
	if err := tx.Create(&details).Error; err != nil {
		return fmt.Errorf("create offer details: %w", err)
	}
	return nil
}

// mergeDetail writes the provided fields of patch onto an existing tier, keeping its ID
func mergeDetail(tx *gorm.DB, existing *models.OfferDetail, patch DetailPatch) error {
	updates := map[string]any{}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Revisions != nil {
		updates["revisions"] = *patch.Revisions
	}
	if patch.DeliveryTimeInDays != nil {
		updates["delivery_time_in_days"] = *patch.DeliveryTimeInDays
	}
	if patch.Price != nil {
		updates["price"] = *patch.Price
	}
	if patch.Features != nil {
		updates["features"] = datatypes.JSONSlice[string](patch.Features)
	}
	if len(updates) == 0 {
		return nil
	}
	if err := tx.Model(existing).Updates(updates).Error; err != nil {
		return fmt.Errorf("update offer detail %d: %w", existing.ID, err)
	}
	return nil
}

// addDetail creates a tier named by a patch that the offer does not have yet
func addDetail(tx *gorm.DB, offerID uint, patch DetailPatch) error {
	in := DetailInput{
		Revisions: patch.Revisions,
		Features:  patch.Features,
		OfferType: patch.OfferType,
	}
	if patch.Title != nil {
		in.Title = *patch.Title
	}
	if patch.DeliveryTimeInDays != nil {
		in.DeliveryTimeInDays = *patch.DeliveryTimeInDays
	}
	if patch.Price != nil {
		in.Price = *patch.Price
	}
	detail := newDetail(offerID, in)
	if err := tx.Create(&detail).Error; err != nil {
		return fmt.Errorf("create offer detail %s: %w", patch.OfferType, err)
	}
	return nil
}
