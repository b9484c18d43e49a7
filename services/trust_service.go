package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"trustscore/metrics"
	"trustscore/models"
	"trustscore/utils"
)

// ErrUpstreamUnavailable means no snapshot could be loaded, so no scores
// were computed.
var ErrUpstreamUnavailable = errors.New("snapshot source unavailable")

// SnapshotLoader supplies the raw data for a run.
type SnapshotLoader interface {
	Load(ctx context.Context) (*models.RawSnapshot, error)
}

// Options tunes a TrustService.
type Options struct {
	Workers        int
	MaxRetries     int
	RetryBaseDelay time.Duration
}

// TrustService runs the load, clean, detect and score pipeline.
type TrustService struct {
	source  SnapshotLoader
	cleaner *Cleaner
	engine  *TrustEngine
	retry   *utils.RetryConfig
	logger  *utils.Logger
}

// NewTrustService wires a pipeline around source.
func NewTrustService(source SnapshotLoader, opts Options, logger *utils.Logger) *TrustService {
	return &TrustService{
		source:  source,
		cleaner: NewCleaner(logger),
		engine:  NewTrustEngine(logger, opts.Workers),
		retry: &utils.RetryConfig{
			MaxAttempts: opts.MaxRetries,
			BaseDelay:   opts.RetryBaseDelay,
			Logger:      logger,
		},
		logger: logger,
	}
}

// Run computes a fresh report. It returns either a complete report or an
// error; when the snapshot cannot be loaded the error wraps
// ErrUpstreamUnavailable.
func (s *TrustService) Run(ctx context.Context) (*models.Report, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := s.logger.With("run_id", runID)

	var raw *models.RawSnapshot
	err := s.retry.Do(ctx, "load-snapshot", func(ctx context.Context) error {
		snap, err := s.source.Load(ctx)
		if err != nil {
			return err
		}
		raw = snap
		return nil
	})
	if err != nil {
		metrics.ObserveRun(metrics.OutcomeUpstreamUnavailable, time.Since(start))
		log.Error("[pipeline] Could not load snapshot: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}

	snap := s.cleaner.Clean(raw)
	cards, suspicious := s.engine.Compute(snap)

	report := &models.Report{
		RunID:       runID,
		GeneratedAt: time.Now(),
		Duration:    time.Since(start),
		Snapshot:    snap,
		Suspicious:  suspicious,
		Cards:       cards,
	}

	stats := BuildDashboardStats(cards)
	metrics.ObserveRun(metrics.OutcomeSuccess, report.Duration)
	metrics.SetRunResult(suspicious.Len(), map[string]int{
		string(models.RiskLow):    stats.LowRiskCount,
		string(models.RiskMedium): stats.MediumRiskCount,
		string(models.RiskHigh):   stats.HighRiskCount,
	})

	log.Info("[pipeline] Run complete in %v: %d sellers (low %d, medium %d, high %d), %d suspicious reviews",
		report.Duration.Round(time.Millisecond), stats.TotalSellers,
		stats.LowRiskCount, stats.MediumRiskCount, stats.HighRiskCount, suspicious.Len())
	return report, nil
}
