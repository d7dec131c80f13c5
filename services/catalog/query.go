package catalog

import (
	"context"
	"fmt"
	"strings"

	"coderr/models"
	"coderr/services/access"
	"coderr/services/errs"

	"gorm.io/gorm"
)

// DefaultOrdering applies when the caller asks for nothing or for an unknown key
const DefaultOrdering = "-updated_at"

// orderings maps the allowed ordering keys to ORDER BY clauses. The id
// tie-break keeps pages stable between requests.
var orderings = map[string]string{
	"updated_at":  "offers.updated_at ASC, offers.id ASC",
	"-updated_at": "offers.updated_at DESC, offers.id DESC",
	"min_price":   minPriceExpr + " ASC, offers.id ASC",
	"-min_price":  minPriceExpr + " DESC, offers.id DESC",
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// ListOffers returns one page of offers matching filter.
func (s *Service) ListOffers(ctx context.Context, filter OfferFilter, ordering string, req PageRequest, p access.Principal) (*Page[OfferSummary], error) {
	db := s.db.WithContext(ctx)

	page, size, err := s.normalize(req)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := applyFilter(projected(db), filter).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("count offers: %w", err)
	}

	offset := (page - 1) * size
	if page > 1 && int64(offset) >= count {
		return nil, errs.NotFound("Invalid page.")
	}

	order, ok := orderings[ordering]
	if !ok {
		order = orderings[DefaultOrdering]
	}

	var rows []offerRow
	err = selectProjected(applyFilter(projected(db), filter)).
		Order(order).
		Offset(offset).
		Limit(size).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}

	results, err := s.summaries(db, rows, p)
	if err != nil {
		return nil, err
	}

	return &Page[OfferSummary]{
		Count:       count,
		Page:        page,
		PageSize:    size,
		HasNext:     int64(offset+len(rows)) < count,
		HasPrevious: page > 1,
		Results:     results,
	}, nil
}

// GetOffer returns a single offer with its details in full
func (s *Service) GetOffer(ctx context.Context, id uint) (*OfferView, error) {
	return s.view(s.db.WithContext(ctx), id)
}

func (s *Service) normalize(req PageRequest) (int, int, error) {
	page := req.Page
	if page == 0 {
		page = 1
	}
	if page < 1 {
		return 0, 0, errs.Field("page", "Invalid page.")
	}

	size := req.PageSize
	if size <= 0 {
		size = s.pageSize
	}
	if size > s.maxPageSize {
		size = s.maxPageSize
	}
	return page, size, nil
}

func applyFilter(q *gorm.DB, f OfferFilter) *gorm.DB {
	if f.CreatorID != nil {
		q = q.Where("offers.user_id = ?", *f.CreatorID)
	}
	if f.MinPrice != nil {
		// Prices carry two decimals, so rounding the floor up keeps the match set
		// and makes the float bound exact. SQLite needs a float to compare numerically.
		q = q.Where(minPriceExpr+" >= ?", f.MinPrice.RoundCeil(2).InexactFloat64())
	}
	if f.MaxDeliveryTime != nil {
		q = q.Where(minDeliveryTimeExpr+" <= ?", *f.MaxDeliveryTime)
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		like := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
		q = q.Where("(LOWER(offers.title) LIKE ? ESCAPE '!' OR LOWER(offers.description) LIKE ? ESCAPE '!')", like, like)
	}
	return q
}

// summaries batch-loads detail links and owners for rows, keeping row order
func (s *Service) summaries(db *gorm.DB, rows []offerRow, p access.Principal) ([]OfferSummary, error) {
	results := make([]OfferSummary, 0, len(rows))
	if len(rows) == 0 {
		return results, nil
	}

	offerIDs := make([]uint, 0, len(rows))
	userIDs := make([]uint, 0, len(rows))
	for _, r := range rows {
		offerIDs = append(offerIDs, r.ID)
		userIDs = append(userIDs, r.UserID)
	}

	var details []models.OfferDetail
	err := db.Select("id", "offer_id").
		Where("offer_id IN ?", offerIDs).
		Order("id").
		Find(&details).Error
	if err != nil {
		return nil, fmt.Errorf("load detail links: %w", err)
	}
	links := make(map[uint][]DetailLink, len(rows))
	for _, d := range details {
		links[d.OfferID] = append(links[d.OfferID], DetailLink{ID: d.ID, URL: DetailURL(d.ID)})
	}

	var users []models.User
	if err := db.Unscoped().Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("load offer owners: %w", err)
	}
	owners := make(map[uint]models.User, len(users))
	for _, u := range users {
		owners[u.ID] = u
	}

	for _, r := range rows {
		owner := owners[r.UserID]
		sum := OfferSummary{
			ID:              r.ID,
			User:            r.UserID,
			Title:           r.Title,
			Image:           r.Image,
			Description:     r.Description,
			CreatedAt:       r.CreatedAt,
			UpdatedAt:       r.UpdatedAt,
			Details:         links[r.ID],
			MinPrice:        r.MinPrice,
			MinDeliveryTime: r.MinDeliveryTime,
			UserDetails:     ownerDetails(owner),
		}
		if sum.Details == nil {
			sum.Details = []DetailLink{}
		}
		if p.Authenticated {
			sum.OwnerContact = ownerContact(owner)
		}
		results = append(results, sum)
	}
	return results, nil
}

// view reads the projection and the full details of one offer through db,
// which may be a transaction.
func (s *Service) view(db *gorm.DB, id uint) (*OfferView, error) {
	row, err := loadProjected(db, id)
	if err != nil {
		return nil, notFoundOr(err, "Offer not found.")
	}

	details := []models.OfferDetail{}
	if err := db.Where("offer_id = ?", id).Order("id").Find(&details).Error; err != nil {
		return nil, fmt.Errorf("load offer details: %w", err)
	}

	var owner models.User
	if err := db.Unscoped().First(&owner, row.UserID).Error; err != nil {
		return nil, fmt.Errorf("load offer owner: %w", err)
	}

	return &OfferView{
		ID:              row.ID,
		User:            row.UserID,
		Title:           row.Title,
		Image:           row.Image,
		Description:     row.Description,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
		Details:         details,
		MinPrice:        row.MinPrice,
		MinDeliveryTime: row.MinDeliveryTime,
		UserDetails:     ownerDetails(owner),
	}, nil
}
