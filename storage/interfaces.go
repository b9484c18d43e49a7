package storage

import (
	"context"

	"trustscore/models"
)

// SnapshotSource is the interface any data backend must satisfy. Load
// returns the complete sellers, orders and reviews collections or an error;
// it never returns a partial snapshot.
type SnapshotSource interface {
	Load(ctx context.Context) (*models.RawSnapshot, error)
	Close() error
}

// ScoreWriter is the interface for exporting computed score cards.
type ScoreWriter interface {
	WriteScores(cards []models.ScoreCard) error
	Close() error
}

// Column sets shared by every source. Identifiers here are trusted constants.
var (
	sellerColumns = []string{"seller_id", "seller_name", "account_age_days", "avg_response_time_hours"}
	orderColumns  = []string{"order_id", "seller_id", "order_date", "delivery_days", "on_time_delivery", "returned"}
	reviewColumns = []string{"review_id", "seller_id", "rating", "review_text", "review_date"}
)

// row gives access to a record by column name. A nil result means the column
// is absent or NULL.
type row interface {
	get(col string) *string
}

func str(r row, col string) string {
	if v := r.get(col); v != nil {
		return *v
	}
	return ""
}

func sellerFromRow(r row) *models.RawSeller {
	return &models.RawSeller{
		SellerID:             str(r, "seller_id"),
		SellerName:           str(r, "seller_name"),
		AccountAgeDays:       r.get("account_age_days"),
		AvgResponseTimeHours: r.get("avg_response_time_hours"),
	}
}

func orderFromRow(r row) *models.RawOrder {
	return &models.RawOrder{
		OrderID:        str(r, "order_id"),
		SellerID:       str(r, "seller_id"),
		OrderDate:      r.get("order_date"),
		DeliveryDays:   r.get("delivery_days"),
		OnTimeDelivery: r.get("on_time_delivery"),
		Returned:       r.get("returned"),
	}
}

func reviewFromRow(r row) *models.RawReview {
	return &models.RawReview{
		ReviewID:   str(r, "review_id"),
		SellerID:   str(r, "seller_id"),
		Rating:     r.get("rating"),
		ReviewText: r.get("review_text"),
		ReviewDate: r.get("review_date"),
	}
}
