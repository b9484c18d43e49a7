package models

import (
	"sort"
	"time"
)

// RiskLevel is the discrete tier derived from a trust score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Metrics holds the six published sub-scores, each in [0, 100].
type Metrics struct {
	Delivery        float64 `json:"delivery"`
	ReturnRateScore float64 `json:"return_rate_score"`
	Response        float64 `json:"response"`
	Authenticity    float64 `json:"authenticity"`
	Consistency     float64 `json:"consistency"`
	Age             float64 `json:"age"`
}

// ReviewStats counts a seller's reviews by authenticity verdict.
type ReviewStats struct {
	FakeReviews int `json:"fake_reviews"`
	RealReviews int `json:"real_reviews"`
}

// ScoreCard is the per-seller output of a scoring run. The JSON shape is
// consumed by the dashboards and must keep these field names.
type ScoreCard struct {
	SellerID        string      `json:"seller_id"`
	Name            string      `json:"name"`
	TrustScore      float64     `json:"trust_score"`
	ConfidenceScore float64     `json:"confidence_score"`
	RiskLevel       RiskLevel   `json:"risk_level"`
	Metrics         Metrics     `json:"metrics"`
	Stats           ReviewStats `json:"stats"`
}

// SuspiciousSet is the set of review IDs flagged in one run. It is never
// modified after construction.
type SuspiciousSet struct {
	ids map[string]struct{}
}

// NewSuspiciousSet copies ids into a new set.
func NewSuspiciousSet(ids ...string) SuspiciousSet {
	m := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return SuspiciousSet{ids: m}
}

// Contains reports whether the review id was flagged.
func (s SuspiciousSet) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of flagged reviews.
func (s SuspiciousSet) Len() int {
	return len(s.ids)
}

// IDs returns the flagged review ids in ascending order.
func (s SuspiciousSet) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Report is the complete result of one run: the snapshot it was computed
// from, the suspicious reviews and a card per seller.
type Report struct {
	RunID       string
	GeneratedAt time.Time
	Duration    time.Duration
	Snapshot    *Snapshot
	Suspicious  SuspiciousSet
	Cards       []ScoreCard
}
