package models

import "time"

// Optional carries a field that may be absent or unparseable in the source
// data. Every sub-score resolves absence through Get, so a missing column and
// a malformed cell fall back to the same documented default.
type Optional[T any] struct {
	Value     T
	Present   bool
	Malformed bool
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Present: true}
}

// Invalid returns an Optional for a value that was present but unusable.
func Invalid[T any]() Optional[T] {
	return Optional[T]{Malformed: true}
}

// Get returns the value and whether it can be used.
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Present && !o.Malformed
}

// Or returns the value, or fallback when it is missing or malformed.
func (o Optional[T]) Or(fallback T) T {
	if v, ok := o.Get(); ok {
		return v
	}
	return fallback
}

// RawSeller is a seller row exactly as the data source returned it.
// A nil field means the column was absent or NULL.
type RawSeller struct {
	SellerID             string
	SellerName           string
	AccountAgeDays       *string
	AvgResponseTimeHours *string
}

// RawOrder is an order row exactly as the data source returned it.
type RawOrder struct {
	OrderID        string
	SellerID       string
	OrderDate      *string
	DeliveryDays   *string
	OnTimeDelivery *string
	Returned       *string
}

// RawReview is a review row exactly as the data source returned it.
type RawReview struct {
	ReviewID   string
	SellerID   string
	Rating     *string
	ReviewText *string
	ReviewDate *string
}

// RawSnapshot is the unprocessed output of a SnapshotSource.
type RawSnapshot struct {
	Sellers []*RawSeller
	Orders  []*RawOrder
	Reviews []*RawReview
}

// Seller is a cleaned seller record.
type Seller struct {
	ID                   string
	Name                 string
	AccountAgeDays       Optional[float64]
	AvgResponseTimeHours Optional[float64]
}

// Order is a cleaned order record. It belongs to exactly one seller.
type Order struct {
	ID           string
	SellerID     string
	Date         Optional[time.Time]
	DeliveryDays Optional[float64]
	OnTime       Optional[bool]
	Returned     Optional[bool]
}

// Review is a cleaned review record. Whether it is genuine is decided by the
// review analyzer, not carried here.
type Review struct {
	ID       string
	SellerID string
	Rating   Optional[float64]
	Text     Optional[string]
	Date     Optional[time.Time]
}

// Snapshot is the immutable input of one scoring run.
type Snapshot struct {
	Sellers []Seller
	Orders  []Order
	Reviews []Review
}
