package catalog

import (
	"time"

	"coderr/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// An offer without details reports 0 for both derived values, on every path.
const (
	minPriceExpr        = "COALESCE(agg.min_price, 0)"
	minDeliveryTimeExpr = "COALESCE(agg.min_delivery_time, 0)"
)

var projectedColumns = []string{
	"offers.id",
	"offers.user_id",
	"offers.title",
	"offers.image",
	"offers.description",
	"offers.created_at",
	"offers.updated_at",
	minPriceExpr + " AS min_price",
	minDeliveryTimeExpr + " AS min_delivery_time",
}

// offerRow is one offer with its derived values, as read from the projection
type offerRow struct {
	ID              uint
	UserID          uint
	Title           string
	Image           *string
	Description     string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	MinPrice        decimal.Decimal
	MinDeliveryTime int
}

// aggregates is the per-offer minimum over offer_details, computed in one grouped pass.
func aggregates(db *gorm.DB) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true}).
		Model(&models.OfferDetail{}).
		Select("offer_id, MIN(price) AS min_price, MIN(delivery_time_in_days) AS min_delivery_time").
		Group("offer_id")
}

// projected starts an offers query joined to the aggregates. Callers add
// filters and ordering and finish with selectProjected.
func projected(db *gorm.DB) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true}).
		Table("offers").
		Joins("LEFT JOIN (?) AS agg ON agg.offer_id = offers.id", aggregates(db))
}

func selectProjected(q *gorm.DB) *gorm.DB {
	return q.Select(projectedColumns)
}

// loadProjected reads the projection of a single offer
func loadProjected(db *gorm.DB, id uint) (*offerRow, error) {
	var rows []offerRow
	err := selectProjected(projected(db).Where("offers.id = ?", id)).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}
