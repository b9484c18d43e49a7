package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"trustscore/models"
)

var scoreHeader = []string{
	"seller_id", "name", "trust_score", "confidence_score", "risk_level",
	"delivery", "return_rate_score", "response", "authenticity", "consistency", "age",
	"fake_reviews", "real_reviews",
}

var _ ScoreWriter = (*CSVWriter)(nil)

// CSVWriter exports score cards to a CSV file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(scoreHeader); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// WriteScores appends one row per card.
func (c *CSVWriter) WriteScores(cards []models.ScoreCard) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, card := range cards {
		row := []string{
			card.SellerID,
			card.Name,
			formatScore(card.TrustScore),
			formatScore(card.ConfidenceScore),
			string(card.RiskLevel),
			formatScore(card.Metrics.Delivery),
			formatScore(card.Metrics.ReturnRateScore),
			formatScore(card.Metrics.Response),
			formatScore(card.Metrics.Authenticity),
			formatScore(card.Metrics.Consistency),
			formatScore(card.Metrics.Age),
			strconv.Itoa(card.Stats.FakeReviews),
			strconv.Itoa(card.Stats.RealReviews),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
