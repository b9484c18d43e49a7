package services

import (
	"math"

	"github.com/shopspring/decimal"

	"trustscore/models"
	"trustscore/utils"
)

// Composite weights. They sum to 1.
const (
	weightDelivery     = 0.25
	weightReturn       = 0.20
	weightResponse     = 0.15
	weightAuthenticity = 0.20
	weightConsistency  = 0.10
	weightAge          = 0.10
)

const (
	// DefaultSubScore is used whenever the data behind a sub-score is
	// missing, malformed or empty.
	DefaultSubScore = 50.0

	maxScore = 100.0

	onTimeMaxDeliveryDays  = 5.0
	returnRatePenalty      = 200.0
	responsePenaltyPerHour = 4.0
	stdDevPenalty          = 50.0
	fullAgeDays            = 730.0
	fullConfidenceOrders   = 200.0

	lowRiskAbove   = 85.0
	mediumRiskFrom = 70.0
)

// TrustEngine turns a snapshot into one ScoreCard per seller.
type TrustEngine struct {
	logger   *utils.Logger
	analyzer *ReviewAnalyzer
	workers  int
}

// NewTrustEngine creates a TrustEngine that scores sellers on up to workers
// goroutines.
func NewTrustEngine(logger *utils.Logger, workers int) *TrustEngine {
	return &TrustEngine{
		logger:   logger,
		analyzer: NewReviewAnalyzer(logger, workers),
		workers:  workers,
	}
}

// Compute detects suspicious reviews and scores every seller in snap.
func (e *TrustEngine) Compute(snap *models.Snapshot) ([]models.ScoreCard, models.SuspiciousSet) {
	suspicious := e.analyzer.DetectSuspicious(snap.Reviews)
	return e.Score(snap, suspicious), suspicious
}

// Score returns one card per seller, in the order of snap.Sellers. Orders and
// reviews of sellers absent from the snapshot are ignored. snap is not
// modified.
func (e *TrustEngine) Score(snap *models.Snapshot, suspicious models.SuspiciousSet) []models.ScoreCard {
	cards := make([]models.ScoreCard, len(snap.Sellers))
	if len(snap.Sellers) == 0 {
		return cards
	}

	ordersBySeller := make(map[string][]*models.Order)
	for i := range snap.Orders {
		o := &snap.Orders[i]
		ordersBySeller[o.SellerID] = append(ordersBySeller[o.SellerID], o)
	}
	reviewsBySeller := groupReviewsBySeller(snap.Reviews)

	pool := utils.NewWorkerPool(e.workers)
	for i := range snap.Sellers {
		i := i
		pool.Submit(func() {
			s := &snap.Sellers[i]
			cards[i] = scoreSeller(s, ordersBySeller[s.ID], reviewsBySeller[s.ID], suspicious)
		})
	}
	pool.Wait()

	e.logger.Info("[engine] Scored %d sellers", len(cards))
	return cards
}

func scoreSeller(s *models.Seller, orders []*models.Order, reviews []*models.Review, suspicious models.SuspiciousSet) models.ScoreCard {
	var validRatings []float64
	valid := 0
	for _, r := range reviews {
		if suspicious.Contains(r.ID) {
			continue
		}
		valid++
		if rating, ok := r.Rating.Get(); ok {
			validRatings = append(validRatings, rating)
		}
	}

	delivery := deliveryScore(orders)
	returns := returnScore(orders)
	response := responseScore(s)
	age := ageScore(s)
	authenticity := authenticityScore(len(reviews), valid)
	consistency := consistencyScore(validRatings)

	trust := weightDelivery*delivery +
		weightReturn*returns +
		weightResponse*response +
		weightAuthenticity*authenticity +
		weightConsistency*consistency +
		weightAge*age

	return models.ScoreCard{
		SellerID:        s.ID,
		Name:            s.Name,
		TrustScore:      round1(trust),
		ConfidenceScore: round1(ConfidenceScore(len(orders))),
		RiskLevel:       RiskLevelFor(trust),
		Metrics: models.Metrics{
			Delivery:        round1(delivery),
			ReturnRateScore: round1(returns),
			Response:        round1(response),
			Authenticity:    round1(authenticity),
			Consistency:     round1(consistency),
			Age:             round1(age),
		},
		Stats: models.ReviewStats{
			FakeReviews: len(reviews) - valid,
			RealReviews: valid,
		},
	}
}

// deliveryScore prefers explicit on-time flags. Without them it counts
// deliveries of at most five days among orders that were delivered at all;
// zero days marks a cancelled order.
func deliveryScore(orders []*models.Order) float64 {
	flagged, onTime := 0, 0
	for _, o := range orders {
		if v, ok := o.OnTime.Get(); ok {
			flagged++
			if v {
				onTime++
			}
		}
	}
	if flagged > 0 {
		return maxScore * float64(onTime) / float64(flagged)
	}

	delivered, fast := 0, 0
	for _, o := range orders {
		if days, ok := o.DeliveryDays.Get(); ok && days > 0 {
			delivered++
			if days <= onTimeMaxDeliveryDays {
				fast++
			}
		}
	}
	if delivered > 0 {
		return maxScore * float64(fast) / float64(delivered)
	}
	return DefaultSubScore
}

func returnScore(orders []*models.Order) float64 {
	flagged, returned := 0, 0
	for _, o := range orders {
		if v, ok := o.Returned.Get(); ok {
			flagged++
			if v {
				returned++
			}
		}
	}
	if flagged == 0 {
		return DefaultSubScore
	}
	rate := float64(returned) / float64(flagged)
	return math.Max(0, maxScore-rate*returnRatePenalty)
}

func responseScore(s *models.Seller) float64 {
	hours, ok := s.AvgResponseTimeHours.Get()
	if !ok {
		return DefaultSubScore
	}
	return clamp(maxScore - hours*responsePenaltyPerHour)
}

func ageScore(s *models.Seller) float64 {
	days, ok := s.AccountAgeDays.Get()
	if !ok {
		return DefaultSubScore
	}
	return clamp(maxScore * days / fullAgeDays)
}

func authenticityScore(total, valid int) float64 {
	if total == 0 {
		return DefaultSubScore
	}
	return maxScore * float64(valid) / float64(total)
}

// consistencyScore rewards a narrow spread of genuine ratings.
func consistencyScore(ratings []float64) float64 {
	if len(ratings) < 2 {
		return DefaultSubScore
	}
	return math.Max(0, maxScore-sampleStdDev(ratings)*stdDevPenalty)
}

func sampleStdDev(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))

	var sq float64
	for _, x := range xs {
		d := x - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(xs)-1))
}

// ConfidenceScore reflects how much order volume backs a trust score;
// 200 orders give full confidence.
func ConfidenceScore(orderCount int) float64 {
	return math.Min(maxScore, maxScore*float64(orderCount)/fullConfidenceOrders)
}

// RiskLevelFor maps a trust score to its tier. Both 70 and 85 are Medium.
func RiskLevelFor(trustScore float64) models.RiskLevel {
	switch {
	case trustScore > lowRiskAbove:
		return models.RiskLow
	case trustScore >= mediumRiskFrom:
		return models.RiskMedium
	default:
		return models.RiskHigh
	}
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(maxScore, v))
}

// round1 rounds half away from zero to one decimal place.
func round1(v float64) float64 {
	return decimal.NewFromFloat(v).Round(1).InexactFloat64()
}
