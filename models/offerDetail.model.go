package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Offer tiers
const (
	OfferTypeBasic    = "basic"
	OfferTypeStandard = "standard"
	OfferTypePremium  = "premium"
)

// UnlimitedRevisions is stored in Revisions when the tier has no revision cap
const UnlimitedRevisions = -1

// OfferTypes lists the tiers in display order
var OfferTypes = []string{OfferTypeBasic, OfferTypeStandard, OfferTypePremium}

// IsOfferType reports whether t is one of the known tiers
func IsOfferType(t string) bool {
	for _, known := range OfferTypes {
		if t == known {
			return true
		}
	}
	return false
}

// OfferDetail is one priced tier of an offer. An offer holds at most one detail per tier.
type OfferDetail struct {
	ID                 uint                        `gorm:"primaryKey" json:"id"`
	OfferID            uint                        `gorm:"not null;uniqueIndex:idx_offer_details_offer_tier,priority:1" json:"-"`
	Title              string                      `gorm:"size:255;not null" json:"title"`
	Revisions          int                         `gorm:"not null;default:-1" json:"revisions"`
	DeliveryTimeInDays int                         `gorm:"not null;check:chk_offer_details_delivery,delivery_time_in_days >= 1" json:"delivery_time_in_days"`
	Price              decimal.Decimal             `gorm:"type:decimal(10,2);not null" json:"price"`
	Features           datatypes.JSONSlice[string] `gorm:"not null" json:"features"`
	OfferType          string                      `gorm:"type:varchar(20);not null;uniqueIndex:idx_offer_details_offer_tier,priority:2" json:"offer_type"`
}

func (OfferDetail) TableName() string {
	return "offer_details"
}
