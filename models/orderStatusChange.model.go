package models

import (
	"time"
)

// OrderStatusChange records every status transition of an order
type OrderStatusChange struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	OldStatus string    `gorm:"type:varchar(20);not null" json:"old_status"`
	NewStatus string    `gorm:"type:varchar(20);not null" json:"new_status"`
	ChangedBy uint      `gorm:"not null" json:"changed_by"`
	CreatedAt time.Time `json:"created_at"`
}

func (OrderStatusChange) TableName() string {
	return "order_status_changes"
}
