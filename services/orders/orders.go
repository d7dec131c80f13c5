// Package orders materializes purchases of offer tiers. An order is a copy of
// the tier taken at purchase time and never follows later edits of the offer.
package orders

import (
	"context"
	"errors"
	"fmt"

	"coderr/models"
	"coderr/services/access"
	"coderr/services/errs"
	"coderr/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// transitions lists the statuses each status may move to. Completed and
// cancelled orders are final.
var transitions = map[string][]string{
	models.OrderStatusInProgress: {models.OrderStatusCompleted, models.OrderStatusCancelled},
	models.OrderStatusCompleted:  {},
	models.OrderStatusCancelled:  {},
}

// IsStatus reports whether s is a known order status
func IsStatus(s string) bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether an order in status from may move to status to
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CreateOrder places an order for one offer tier on behalf of a customer
func (s *Service) CreateOrder(ctx context.Context, p access.Principal, offerDetailID uint) (*models.Order, error) {
	if err := access.RequireRole(p, access.RoleCustomer); err != nil {
		return nil, err
	}
	if offerDetailID == 0 {
		return nil, errs.Field("offer_detail_id", "This field is required.")
	}

	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var detail models.OfferDetail
		if err := tx.First(&detail, offerDetailID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.Field("offer_detail_id", "Invalid ID.")
			}
			return fmt.Errorf("load offer detail %d: %w", offerDetailID, err)
		}

		var offer models.Offer
		if err := tx.Select("id", "user_id").First(&offer, detail.OfferID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.Field("offer_detail_id", "Invalid ID.")
			}
			return fmt.Errorf("load offer %d: %w", detail.OfferID, err)
		}

		features := append([]string{}, detail.Features...)
		order = models.Order{
			CustomerUserID:     p.UserID,
			BusinessUserID:     offer.UserID,
			Title:              detail.Title,
			Revisions:          detail.Revisions,
			DeliveryTimeInDays: detail.DeliveryTimeInDays,
			Price:              detail.Price,
			Features:           features,
			OfferType:          detail.OfferType,
			Status:             models.OrderStatusInProgress,
		}
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.GetLogger().Debug("order created",
		zap.Uint("order_id", order.ID),
		zap.Uint("offer_detail_id", offerDetailID),
		zap.Uint("customer_user_id", order.CustomerUserID),
		zap.Uint("business_user_id", order.BusinessUserID),
	)
	return &order, nil
}

// UpdateOrderStatus moves an order forward. Only the business participant
// and staff may do so; setting the current status again changes nothing.
func (s *Service) UpdateOrderStatus(ctx context.Context, p access.Principal, id uint, status string) (*models.Order, error) {
	if err := access.RequireAuthenticated(p); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	order, err := s.load(db, id)
	if err != nil {
		return nil, err
	}
	if err := access.RequireOwner(p, order); err != nil {
		return nil, err
	}
	if !IsStatus(status) {
		return nil, errs.Field("status", fmt.Sprintf("%q is not a valid choice.", status))
	}
	if order.Status == status {
		return order, nil
	}
	if !CanTransition(order.Status, status) {
		return nil, errs.Conflict(fmt.Sprintf("An order cannot move from %s to %s.", order.Status, status), nil)
	}

	from := order.Status
	err = db.Transaction(func(tx *gorm.DB) error {
		// Guard on the status we read so a concurrent change is not overwritten
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, from).
			Update("status", status)
		if res.Error != nil {
			return fmt.Errorf("update order %d: %w", order.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			return errs.Conflict("The order was changed by someone else. Reload and try again.", nil)
		}

		change := models.OrderStatusChange{
			OrderID:   order.ID,
			OldStatus: from,
			NewStatus: status,
			ChangedBy: p.UserID,
		}
		if err := tx.Create(&change).Error; err != nil {
			return fmt.Errorf("record status change: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.GetLogger().Debug("order status changed",
		zap.Uint("order_id", order.ID),
		zap.String("from", from),
		zap.String("to", status),
		zap.Uint("changed_by", p.UserID),
	)
	return s.load(db, id)
}

// DeleteOrder removes an order and its status history. Staff only.
func (s *Service) DeleteOrder(ctx context.Context, p access.Principal, id uint) error {
	if err := access.RequireAuthenticated(p); err != nil {
		return err
	}

	db := s.db.WithContext(ctx)
	order, err := s.load(db, id)
	if err != nil {
		return err
	}
	if err := access.RequireRole(p, access.RoleStaff); err != nil {
		return err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderStatusChange{}).Error; err != nil {
			return fmt.Errorf("delete order history: %w", err)
		}
		if err := tx.Delete(&models.Order{}, order.ID).Error; err != nil {
			return fmt.Errorf("delete order: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	utils.GetLogger().Info("order deleted", zap.Uint("order_id", order.ID), zap.Uint("deleted_by", p.UserID))
	return nil
}

// ListOrders returns the orders the caller takes part in, newest first. Staff see every order.
func (s *Service) ListOrders(ctx context.Context, p access.Principal) ([]models.Order, error) {
	if err := access.RequireAuthenticated(p); err != nil {
		return nil, err
	}

	q := s.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if !p.IsStaff() {
		q = q.Where("customer_user_id = ? OR business_user_id = ?", p.UserID, p.UserID)
	}

	orders := []models.Order{}
	if err := q.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// GetOrder returns one order to a participant or to staff
func (s *Service) GetOrder(ctx context.Context, p access.Principal, id uint) (*models.Order, error) {
	if err := access.RequireAuthenticated(p); err != nil {
		return nil, err
	}

	order, err := s.load(s.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	if !p.IsStaff() && !order.IsParticipant(p.UserID) {
		return nil, errs.Forbidden("You do not have permission to perform this action.")
	}
	return order, nil
}

// History returns the status changes of an order, oldest first
func (s *Service) History(ctx context.Context, p access.Principal, id uint) ([]models.OrderStatusChange, error) {
	if _, err := s.GetOrder(ctx, p, id); err != nil {
		return nil, err
	}

	changes := []models.OrderStatusChange{}
	err := s.db.WithContext(ctx).
		Where("order_id = ?", id).
		Order("created_at, id").
		Find(&changes).Error
	if err != nil {
		return nil, fmt.Errorf("load order history: %w", err)
	}
	return changes, nil
}

// CountOrders counts the orders of a business user in the given status
func (s *Service) CountOrders(ctx context.Context, p access.Principal, businessUserID uint, status string) (int64, error) {
	if err := access.RequireAuthenticated(p); err != nil {
		return 0, err
	}
	if !IsStatus(status) {
		return 0, errs.Field("status", fmt.Sprintf("%q is not a valid choice.", status))
	}

	db := s.db.WithContext(ctx)
	var user models.User
	if err := db.Select("id").First(&user, businessUserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, errs.NotFound("Business user not found.")
		}
		return 0, fmt.Errorf("load user %d: %w", businessUserID, err)
	}

	var count int64
	err := db.Model(&models.Order{}).
		Where("business_user_id = ? AND status = ?", businessUserID, status).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return count, nil
}

func (s *Service) load(db *gorm.DB, id uint) (*models.Order, error) {
	var order models.Order
	if err := db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("Order not found.")
		}
		return nil, fmt.Errorf("load order %d: %w", id, err)
	}
	return &order, nil
}
