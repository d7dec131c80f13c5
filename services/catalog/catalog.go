// Package catalog owns offers and their tier details: the listing engine,
// the min price / min delivery time projection, and nested writes.
package catalog

import (
	"errors"
	"time"

	"coderr/config"
	"coderr/models"
	"coderr/services/errs"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service is request-scoped in use but safe to share; it only holds the pool.
type Service struct {
	db          *gorm.DB
	pageSize    int
	maxPageSize int
}

// NewService builds a catalog service with the configured page sizes
func NewService(db *gorm.DB) *Service {
	return &Service{
		db:          db,
		pageSize:    config.AppConfig.PageSize,
		maxPageSize: config.AppConfig.MaxPageSize,
	}
}

// WithPageSizes overrides the default and maximum page size
func (s *Service) WithPageSizes(pageSize, maxPageSize int) *Service {
	c := *s
	c.pageSize = pageSize
	c.maxPageSize = maxPageSize
	return &c
}

// DetailInput is one tier in a create request
type DetailInput struct {
	Title              string          `json:"title" validate:"required,max=255"`
	Revisions          *int            `json:"revisions" validate:"omitempty,min=-1"`
	DeliveryTimeInDays int             `json:"delivery_time_in_days" validate:"required,min=1"`
	Price              decimal.Decimal `json:"price"`
	Features           []string        `json:"features"`
	OfferType          string          `json:"offer_type" validate:"required,oneof=basic standard premium"`
}

// CreateOfferInput is the full offer with at least one tier
type CreateOfferInput struct {
	Title       string        `json:"title" validate:"required,max=255"`
	Description string        `json:"description" validate:"required"`
	Image       *string       `json:"image" validate:"omitempty,max=255"`
	Details     []DetailInput `json:"details" validate:"required,min=1,dive"`
}

// DetailPatch updates one tier, matched by OfferType. Nil fields keep their value.
type DetailPatch struct {
	Title              *string          `json:"title" validate:"omitempty,min=1,max=255"`
	Revisions          *int             `json:"revisions" validate:"omitempty,min=-1"`
	DeliveryTimeInDays *int             `json:"delivery_time_in_days" validate:"omitempty,min=1"`
	Price              *decimal.Decimal `json:"price"`
	Features           []string         `json:"features"`
	OfferType          string           `json:"offer_type" validate:"required,oneof=basic standard premium"`
}

// OfferPatch is a partial offer update. Nil fields keep their value; a nil
// Details slice leaves every tier untouched.
type OfferPatch struct {
	Title       *string       `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string       `json:"description" validate:"omitempty,min=1"`
	Image       *string       `json:"image" validate:"omitempty,max=255"`
	Details     []DetailPatch `json:"details" validate:"omitempty,dive"`
}

// OfferFilter narrows a listing. All set filters must hold.
type OfferFilter struct {
	CreatorID       *uint
	MinPrice        *decimal.Decimal
	MaxDeliveryTime *int
	Search          string
}

// PageRequest asks for a 1-based page. Zero values select the defaults.
type PageRequest struct {
	Page     int
	PageSize int
}

// Page is one slice of a listing
type Page[T any] struct {
	Count       int64
	Page        int
	PageSize    int
	HasNext     bool
	HasPrevious bool
	Results     []T
}

// DetailLink points at a tier without embedding it
type DetailLink struct {
	ID  uint   `json:"id"`
	URL string `json:"url"`
}

// OwnerDetails is the public snapshot of the offer owner
type OwnerDetails struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
}

// OwnerContact is only shown to authenticated callers
type OwnerContact struct {
	Email    string `json:"email"`
	Tel      string `json:"tel"`
	Location string `json:"location"`
}

// OfferSummary is a listing row
type OfferSummary struct {
	ID              uint            `json:"id"`
	User            uint            `json:"user"`
	Title           string          `json:"title"`
	Image           *string         `json:"image"`
	Description     string          `json:"description"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Details         []DetailLink    `json:"details"`
	MinPrice        decimal.Decimal `json:"min_price"`
	MinDeliveryTime int             `json:"min_delivery_time"`
	UserDetails     OwnerDetails    `json:"user_details"`
	OwnerContact    *OwnerContact   `json:"owner_contact,omitempty"`
}

// OfferView is a single offer with its tiers in full
type OfferView struct {
	ID              uint                 `json:"id"`
	User            uint                 `json:"user"`
	Title           string               `json:"title"`
	Image           *string              `json:"image"`
	Description     string               `json:"description"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
	Details         []models.OfferDetail `json:"details"`
	MinPrice        decimal.Decimal      `json:"min_price"`
	MinDeliveryTime int                  `json:"min_delivery_time"`
	UserDetails     OwnerDetails         `json:"user_details"`
}

func notFoundOr(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NotFound(message)
	}
	return err
}

func ownerDetails(u models.User) OwnerDetails {
	return OwnerDetails{FirstName: u.FirstName, LastName: u.LastName, Username: u.Username}
}

func ownerContact(u models.User) *OwnerContact {
	return &OwnerContact{Email: u.Email, Tel: u.Tel, Location: u.Location}
}
