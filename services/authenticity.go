package services

import (
	"strings"
	"unicode/utf8"

	"trustscore/models"
	"trustscore/utils"
)

const (
	// BurstThreshold is how many identical same-day reviews one seller must
	// receive before all of them count as coordinated. It favours precision
	// over recall: organic buyers rarely repeat text verbatim on one day.
	BurstThreshold = 5

	// MinReviewsForBurstCheck exempts sellers too small to host a burst.
	MinReviewsForBurstCheck = 5

	// ShortSpamMaxLength is the exclusive upper bound, in characters, on the
	// body of a five-star review flagged as low-effort spam.
	ShortSpamMaxLength = 8

	// ShortSpamRating is the only rating the short-spam rule applies to.
	ShortSpamRating = 5.0
)

// burstKey groups a seller's reviews by calendar day and exact body text.
type burstKey struct {
	day  string
	text string
}

// ReviewAnalyzer flags reviews that look like coordinated manipulation or
// low-effort spam. It is deterministic and keeps no state between calls.
type ReviewAnalyzer struct {
	logger  *utils.Logger
	workers int
}

// NewReviewAnalyzer creates a ReviewAnalyzer that checks sellers on up to
// workers goroutines.
func NewReviewAnalyzer(logger *utils.Logger, workers int) *ReviewAnalyzer {
	return &ReviewAnalyzer{logger: logger, workers: workers}
}

// DetectSuspicious returns the ids of every review caught by the burst rule
// or the short-spam rule.
func (a *ReviewAnalyzer) DetectSuspicious(reviews []models.Review) models.SuspiciousSet {
	if len(reviews) == 0 {
		return models.NewSuspiciousSet()
	}

	flagged := utils.NewIDSet()
	pool := utils.NewWorkerPool(a.workers)

	for sellerID, sellerReviews := range groupReviewsBySeller(reviews) {
		if len(sellerReviews) < MinReviewsForBurstCheck {
			continue
		}
		sellerID, sellerReviews := sellerID, sellerReviews
		pool.Submit(func() {
			for _, id := range a.detectBursts(sellerID, sellerReviews) {
				flagged.Add(id)
			}
		})
	}
	pool.Wait()
	burstCount := flagged.Size()

	spamCount := 0
	for i := range reviews {
		if isShortSpam(&reviews[i]) {
			flagged.Add(reviews[i].ID)
			spamCount++
		}
	}

	a.logger.Info("[analyzer] %d of %d reviews suspicious (burst: %d, short spam: %d)",
		flagged.Size(), len(reviews), burstCount, spamCount)

	return models.NewSuspiciousSet(flagged.Slice()...)
}

// detectBursts returns the ids of one seller's reviews that belong to a
// burst. A seller whose review dates cannot be read is skipped.
func (a *ReviewAnalyzer) detectBursts(sellerID string, reviews []*models.Review) (ids []string) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("[analyzer] Burst check for seller %s aborted: %v", sellerID, r)
			ids = nil
		}
	}()

	for _, r := range reviews {
		if r.Date.Malformed {
			a.logger.Warn("[analyzer] Seller %s has malformed review dates, skipping burst check", sellerID)
			return nil
		}
	}

	counts := make(map[burstKey]int)
	for _, r := range reviews {
		if key, ok := burstKeyFor(r); ok {
			counts[key]++
		}
	}

	for _, r := range reviews {
		if key, ok := burstKeyFor(r); ok && counts[key] >= BurstThreshold {
			ids = append(ids, r.ID)
		}
	}

	if len(ids) > 0 {
		a.logger.Debug("[analyzer] Seller %s: %d reviews in bursts", sellerID, len(ids))
	}
	return ids
}

// burstKeyFor reports false for reviews that cannot take part in a burst:
// those without a date or with a blank body.
func burstKeyFor(r *models.Review) (burstKey, bool) {
	text, ok := r.Text.Get()
	if !ok || strings.TrimSpace(text) == "" {
		return burstKey{}, false
	}
	date, ok := r.Date.Get()
	if !ok {
		return burstKey{}, false
	}
	return burstKey{day: date.Format("2006-01-02"), text: text}, true
}

// isShortSpam treats a missing body as empty. Reviews without a usable
// rating are never spam.
func isShortSpam(r *models.Review) bool {
	rating, ok := r.Rating.Get()
	if !ok || rating != ShortSpamRating {
		return false
	}
	return utf8.RuneCountInString(r.Text.Or("")) < ShortSpamMaxLength
}

func groupReviewsBySeller(reviews []models.Review) map[string][]*models.Review {
	out := make(map[string][]*models.Review)
	for i := range reviews {
		r := &reviews[i]
		out[r.SellerID] = append(out[r.SellerID], r)
	}
	return out
}
