package services

import (
	"errors"
	"fmt"

	"trustscore/models"
)

// ErrSellerNotFound is returned when a dashboard is requested for a seller
// that is not in the report.
var ErrSellerNotFound = errors.New("seller not found")

const (
	negativeSentimentRatio = 0.2
	lowConfidence          = 60.0
)

// BuildDashboardStats summarises cards. Empty input yields zeros.
func BuildDashboardStats(cards []models.ScoreCard) models.DashboardStats {
	stats := models.DashboardStats{TotalSellers: len(cards)}
	if len(cards) == 0 {
		return stats
	}

	var total float64
	for _, c := range cards {
		total += c.TrustScore
		switch c.RiskLevel {
		case models.RiskHigh:
			stats.HighRiskCount++
		case models.RiskLow:
			stats.LowRiskCount++
		}
	}
	stats.MediumRiskCount = stats.TotalSellers - stats.HighRiskCount - stats.LowRiskCount
	stats.AvgTrustScore = round1(total / float64(len(cards)))
	return stats
}

// BuildAdminDashboard returns the platform-wide view of a report.
func BuildAdminDashboard(r *models.Report) models.AdminDashboard {
	return models.AdminDashboard{
		Stats:   BuildDashboardStats(r.Cards),
		Sellers: r.Cards,
	}
}

// BuildBuyerView returns the public summary for one seller.
func BuildBuyerView(r *models.Report, sellerID string) (*models.BuyerView, error) {
	card, ok := findCard(r.Cards, sellerID)
	if !ok {
		return nil, fmt.Errorf("buyer view %q: %w", sellerID, ErrSellerNotFound)
	}
	return &models.BuyerView{
		SellerName:      card.Name,
		TrustScore:      card.TrustScore,
		RiskLevel:       card.RiskLevel,
		ConfidenceScore: card.ConfidenceScore,
		Metrics:         card.Metrics,
		Stats:           card.Stats,
	}, nil
}

// BuildSellerDashboard returns the seller-facing view: the score card, the
// seller's reviews, platform benchmarks and advice.
func BuildSellerDashboard(r *models.Report, sellerID string) (*models.SellerDashboard, error) {
	card, ok := findCard(r.Cards, sellerID)
	if !ok {
		return nil, fmt.Errorf("seller dashboard %q: %w", sellerID, ErrSellerNotFound)
	}

	d := &models.SellerDashboard{
		ScoreCard:  card,
		Reviews:    []models.ReviewView{},
		Benchmarks: buildBenchmarks(r.Cards),
	}

	var ratingSum float64
	rated := 0
	if r.Snapshot != nil {
		for _, o := range r.Snapshot.Orders {
			if o.SellerID == sellerID {
				d.Summary.TotalOrders++
			}
		}
		for i := range r.Snapshot.Reviews {
			rv := &r.Snapshot.Reviews[i]
			if rv.SellerID != sellerID {
				continue
			}
			view := models.ReviewView{
				ReviewID:   rv.ID,
				SellerID:   rv.SellerID,
				ReviewText: rv.Text.Or(""),
				Suspicious: r.Suspicious.Contains(rv.ID),
			}
			if date, ok := rv.Date.Get(); ok {
				view.ReviewDate = date.Format("2006-01-02 15:04:05")
			}
			if rating, ok := rv.Rating.Get(); ok {
				view.Rating = &rating
				ratingSum += rating
				rated++
				switch {
				case rating >= 4:
					d.Sentiment.Positive++
				case rating == 3:
					d.Sentiment.Neutral++
				default:
					d.Sentiment.Negative++
				}
			}
			d.Reviews = append(d.Reviews, view)
		}
	}

	d.Summary.TotalReviews = len(d.Reviews)
	if rated > 0 {
		d.Summary.AvgRating = round1(ratingSum / float64(rated))
	}
	d.Insights = buildInsights(card, d.Benchmarks, d.Sentiment)
	return d, nil
}

func buildBenchmarks(cards []models.ScoreCard) models.Benchmarks {
	if len(cards) == 0 {
		return models.Benchmarks{}
	}
	var b models.Benchmarks
	for _, c := range cards {
		b.AvgTrustScore += c.TrustScore
		b.AvgDelivery += c.Metrics.Delivery
		b.AvgReturn += c.Metrics.ReturnRateScore
		b.AvgResponse += c.Metrics.Response
		b.AvgAuthenticity += c.Metrics.Authenticity
	}
	n := float64(len(cards))
	return models.Benchmarks{
		AvgTrustScore:   round1(b.AvgTrustScore / n),
		AvgDelivery:     round1(b.AvgDelivery / n),
		AvgReturn:       round1(b.AvgReturn / n),
		AvgResponse:     round1(b.AvgResponse / n),
		AvgAuthenticity: round1(b.AvgAuthenticity / n),
	}
}

func buildInsights(card models.ScoreCard, b models.Benchmarks, s models.Sentiment) []models.Insight {
	var out []models.Insight

	if card.Metrics.Delivery < b.AvgDelivery {
		out = append(out, models.Insight{
			Type: "warning",
			Icon: "fa-truck",
			Msg: fmt.Sprintf("Your Delivery Score (%.1f) is below average (%.1f). Consider faster shipping options.",
				card.Metrics.Delivery, b.AvgDelivery),
		})
	} else {
		out = append(out, models.Insight{
			Type: "success",
			Icon: "fa-check-circle",
			Msg:  "Great work! Your delivery times are faster than the platform average.",
		})
	}

	if card.Metrics.ReturnRateScore < b.AvgReturn {
		out = append(out, models.Insight{
			Type: "warning",
			Icon: "fa-rotate-left",
			Msg:  "Return Rate is high. Improve product descriptions to match customer expectations.",
		})
	}

	positive := s.Positive
	if positive == 0 {
		positive = 1
	}
	if float64(s.Negative) > float64(positive)*negativeSentimentRatio {
		out = append(out, models.Insight{
			Type: "danger",
			Icon: "fa-comments",
			Msg:  "Negative sentiment is rising. Review recent low-rated feedback immediately.",
		})
	}

	if card.ConfidenceScore < lowConfidence {
		out = append(out, models.Insight{
			Type: "info",
			Icon: "fa-chart-line",
			Msg:  "Complete more orders to increase your Confidence Score and unlock premium badges.",
		})
	}

	return out
}

func findCard(cards []models.ScoreCard, sellerID string) (models.ScoreCard, bool) {
	for _, c := range cards {
		if c.SellerID == sellerID {
			return c, true
		}
	}
	return models.ScoreCard{}, false
}
