package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Order statuses
const (
	OrderStatusInProgress = "in_progress"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// Order is a customer's purchase of one offer tier. The tier fields are a
// copy taken at purchase time; there is no reference back to the offer.
type Order struct {
	ID                 uint                        `gorm:"primaryKey" json:"id"`
	CustomerUserID     uint                        `gorm:"not null;index" json:"customer_user"`
	BusinessUserID     uint                        `gorm:"not null;index:idx_orders_business_status,priority:1" json:"business_user"`
	Title              string                      `gorm:"size:255;not null" json:"title"`
	Revisions          int                         `gorm:"not null" json:"revisions"`
	DeliveryTimeInDays int                         `gorm:"not null" json:"delivery_time_in_days"`
	Price              decimal.Decimal             `gorm:"type:decimal(10,2);not null" json:"price"`
	Features           datatypes.JSONSlice[string] `gorm:"not null" json:"features"`
	OfferType          string                      `gorm:"type:varchar(20);not null" json:"offer_type"`
	Status             string                      `gorm:"type:varchar(20);not null;default:'in_progress';index:idx_orders_business_status,priority:2" json:"status"`
	CreatedAt          time.Time                   `json:"created_at"`
	UpdatedAt          time.Time                   `json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

// OwnerID is the business participant, the one allowed to move the order along.
func (o Order) OwnerID() uint {
	return o.BusinessUserID
}

// IsParticipant reports whether userID is the customer or the business user of the order
func (o Order) IsParticipant(userID uint) bool {
	return o.CustomerUserID == userID || o.BusinessUserID == userID
}
