package services

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	"trustscore/models"
	"trustscore/utils"
)

const (
	ruleNonNegative = "gte=0"
	ruleRating      = "min=1,max=5"
)

// dateLayouts are tried in order when parsing order and review dates.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// Cleaner transforms raw source rows into the typed snapshot.
type Cleaner struct {
	logger   *utils.Logger
	validate *validator.Validate
}

// cleanPass holds the state of a single Clean call so one Cleaner can serve
// concurrent runs.
type cleanPass struct {
	logger   *utils.Logger
	validate *validator.Validate
	invalid  int
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger, validate: validator.New()}
}

// Clean processes a raw snapshot and returns cleaned records. Rows without an
// identifier or seller reference are dropped; unusable field values are kept
// as malformed so scoring can fall back to its defaults.
func (c *Cleaner) Clean(raw *models.RawSnapshot) *models.Snapshot {
	p := &cleanPass{logger: c.logger, validate: c.validate}
	snap := &models.Snapshot{
		Sellers: p.cleanSellers(raw.Sellers),
		Orders:  p.cleanOrders(raw.Orders),
		Reviews: p.cleanReviews(raw.Reviews),
	}

	c.logger.Info("[cleaner] Cleaned snapshot: %d sellers, %d orders, %d reviews",
		len(snap.Sellers), len(snap.Orders), len(snap.Reviews))
	if p.invalid > 0 {
		c.logger.Warn("[cleaner] %d field values were malformed and will use scoring defaults", p.invalid)
	}
	return snap
}

func (c *cleanPass) cleanSellers(raw []*models.RawSeller) []models.Seller {
	seen := make(map[string]struct{}, len(raw))
	result := make([]models.Seller, 0, len(raw))

	for _, r := range raw {
		id := strings.TrimSpace(r.SellerID)
		if id == "" {
			c.logger.Warn("[cleaner] Dropping seller with empty seller_id: %q", r.SellerName)
			continue
		}
		if _, dup := seen[id]; dup {
			c.logger.Debug("[cleaner] Duplicate seller skipped: %s", id)
			continue
		}
		seen[id] = struct{}{}

		result = append(result, models.Seller{
			ID:                   id,
			Name:                 normaliseText(r.SellerName),
			AccountAgeDays:       c.parseNumber(r.AccountAgeDays, ruleNonNegative),
			AvgResponseTimeHours: c.parseNumber(r.AvgResponseTimeHours, ruleNonNegative),
		})
	}

	c.logSummary("sellers", len(raw), len(result))
	return result
}

func (c *cleanPass) cleanOrders(raw []*models.RawOrder) []models.Order {
	result := make([]models.Order, 0, len(raw))

	for _, r := range raw {
		sellerID := strings.TrimSpace(r.SellerID)
		if sellerID == "" {
			c.logger.Warn("[cleaner] Dropping order %q without seller_id", r.OrderID)
			continue
		}

		result = append(result, models.Order{
			ID:           strings.TrimSpace(r.OrderID),
			SellerID:     sellerID,
			Date:         c.parseDate(r.OrderDate),
			DeliveryDays: c.parseNumber(r.DeliveryDays, ruleNonNegative),
			OnTime:       c.parseBool(r.OnTimeDelivery),
			Returned:     c.parseBool(r.Returned),
		})
	}

	c.logSummary("orders", len(raw), len(result))
	return result
}

func (c *cleanPass) cleanReviews(raw []*models.RawReview) []models.Review {
	seen := make(map[string]struct{}, len(raw))
	result := make([]models.Review, 0, len(raw))

	for _, r := range raw {
		id := strings.TrimSpace(r.ReviewID)
		sellerID := strings.TrimSpace(r.SellerID)
		if id == "" || sellerID == "" {
			c.logger.Warn("[cleaner] Dropping review with missing review_id or seller_id (%q/%q)", id, sellerID)
			continue
		}
		if _, dup := seen[id]; dup {
			c.logger.Debug("[cleaner] Duplicate review skipped: %s", id)
			continue
		}
		seen[id] = struct{}{}

		result = append(result, models.Review{
			ID:       id,
			SellerID: sellerID,
			Rating:   c.parseNumber(r.Rating, ruleRating),
			Text:     parseText(r.ReviewText),
			Date:     c.parseDate(r.ReviewDate),
		})
	}

	c.logSummary("reviews", len(raw), len(result))
	return result
}

func (c *cleanPass) logSummary(kind string, before, after int) {
	if before != after {
		c.logger.Info("[cleaner] %s: %d → %d (dropped %d)", kind, before, after, before-after)
	}
}

// parseNumber parses a float and checks it against a validator rule.
func (c *cleanPass) parseNumber(raw *string, rule string) models.Optional[float64] {
	s, ok := present(raw)
	if !ok {
		return models.Optional[float64]{}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return c.malformed(raw)
	}
	if err := c.validate.Var(v, rule); err != nil {
		return c.malformed(raw)
	}
	return models.Some(v)
}

// parseBool accepts the spellings produced by CSV exports and Postgres text
// casts: 1/0, true/false, t/f, yes/no and 1.0/0.0.
func (c *cleanPass) parseBool(raw *string) models.Optional[bool] {
	s, ok := present(raw)
	if !ok {
		return models.Optional[bool]{}
	}

	switch strings.ToLower(s) {
	case "yes", "y":
		return models.Some(true)
	case "no", "n":
		return models.Some(false)
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return models.Some(b)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		switch f {
		case 1:
			return models.Some(true)
		case 0:
			return models.Some(false)
		}
	}

	c.invalid++
	c.logger.Debug("[cleaner] Malformed boolean %q", s)
	return models.Invalid[bool]()
}

func (c *cleanPass) parseDate(raw *string) models.Optional[time.Time] {
	s, ok := present(raw)
	if !ok {
		return models.Optional[time.Time]{}
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return models.Some(t)
		}
	}

	c.invalid++
	c.logger.Debug("[cleaner] Malformed date %q", s)
	return models.Invalid[time.Time]()
}

func (c *cleanPass) malformed(raw *string) models.Optional[float64] {
	c.invalid++
	c.logger.Debug("[cleaner] Malformed number %q", *raw)
	return models.Invalid[float64]()
}

// parseText keeps review bodies verbatim: burst detection compares exact text.
func parseText(raw *string) models.Optional[string] {
	if raw == nil {
		return models.Optional[string]{}
	}
	return models.Some(*raw)
}

func present(raw *string) (string, bool) {
	if raw == nil {
		return "", false
	}
	s := strings.TrimSpace(*raw)
	return s, s != ""
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r)
	})
	return strings.Join(fields, " ")
}
