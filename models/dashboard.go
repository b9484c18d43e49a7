package models

// DashboardStats summarises a run across all sellers.
type DashboardStats struct {
	TotalSellers    int     `json:"total_sellers"`
	AvgTrustScore   float64 `json:"avg_trust_score"`
	HighRiskCount   int     `json:"high_risk_count"`
	MediumRiskCount int     `json:"medium_risk_count"`
	LowRiskCount    int     `json:"low_risk_count"`
}

// AdminDashboard is the platform-wide view.
type AdminDashboard struct {
	Stats   DashboardStats `json:"stats"`
	Sellers []ScoreCard    `json:"sellers"`
}

// ReviewView is a review as shown on the seller dashboard.
type ReviewView struct {
	ReviewID   string   `json:"review_id"`
	SellerID   string   `json:"seller_id"`
	Rating     *float64 `json:"rating"`
	ReviewText string   `json:"review_text"`
	ReviewDate string   `json:"review_date,omitempty"`
	Suspicious bool     `json:"suspicious"`
}

// SellerSummary holds raw activity counts for one seller.
type SellerSummary struct {
	AvgRating    float64 `json:"avg_rating"`
	TotalReviews int     `json:"total_reviews"`
	TotalOrders  int     `json:"total_orders"`
}

// Sentiment buckets reviews by rating.
type Sentiment struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// Benchmarks are platform averages a seller is compared against.
type Benchmarks struct {
	AvgTrustScore   float64 `json:"avg_trust_score"`
	AvgDelivery     float64 `json:"avg_delivery"`
	AvgReturn       float64 `json:"avg_return"`
	AvgResponse     float64 `json:"avg_response"`
	AvgAuthenticity float64 `json:"avg_authenticity"`
}

// Insight is a single piece of advice for a seller.
type Insight struct {
	Type string `json:"type"`
	Icon string `json:"icon"`
	Msg  string `json:"msg"`
}

// SellerDashboard is the seller-facing view of one score card.
type SellerDashboard struct {
	ScoreCard  ScoreCard     `json:"score_card"`
	Reviews    []ReviewView  `json:"reviews"`
	Summary    SellerSummary `json:"summary"`
	Sentiment  Sentiment     `json:"sentiment_analysis"`
	Benchmarks Benchmarks    `json:"benchmarks"`
	Insights   []Insight     `json:"insights"`
}

// BuyerView is the public summary shown to buyers.
type BuyerView struct {
	SellerName      string      `json:"seller_name"`
	TrustScore      float64     `json:"trust_score"`
	RiskLevel       RiskLevel   `json:"risk_level"`
	ConfidenceScore float64     `json:"confidence_score"`
	Metrics         Metrics     `json:"metrics"`
	Stats           ReviewStats `json:"stats"`
}
