package models

import (
	"time"
)

// Offer is a service listing published by a business user. Its price and
// delivery time live on the details and are never stored here.
type Offer struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Image       *string   `gorm:"size:255" json:"image"`
	Description string    `gorm:"type:text;not null" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `gorm:"index" json:"updated_at"`

	// Relations
	Details []OfferDetail `gorm:"foreignKey:OfferID;constraint:OnDelete:CASCADE" json:"details,omitempty"`
}

func (Offer) TableName() string {
	return "offers"
}

// OwnerID is the only user allowed to mutate the offer.
func (o Offer) OwnerID() uint {
	return o.UserID
}
