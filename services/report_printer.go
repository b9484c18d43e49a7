package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"trustscore/models"
)

const topN = 5

// ReportPrinter renders a run report for the terminal.
type ReportPrinter struct {
	out io.Writer
}

// NewReportPrinter creates a ReportPrinter writing to out.
func NewReportPrinter(out io.Writer) *ReportPrinter {
	return &ReportPrinter{out: out}
}

// Print writes the full report for r.
func (p *ReportPrinter) Print(r *models.Report) {
	sep := strings.Repeat("═", 58)
	thin := strings.Repeat("─", 58)
	stats := BuildDashboardStats(r.Cards)

	p.printf("\n\033[1;35m%s\033[0m\n", sep)
	p.printf("\033[1;35m  🛡  SELLER TRUST SCORE REPORT\033[0m\n")
	p.printf("\033[1;35m%s\033[0m\n\n", sep)

	// Overview
	p.printf("\033[1;33m  Overview\033[0m\n")
	p.printf("  %s\n", thin)
	p.printf("  Run ID              : %s\n", r.RunID)
	if r.Snapshot != nil {
		p.printf("  Orders analysed     : \033[1m%d\033[0m\n", len(r.Snapshot.Orders))
		p.printf("  Reviews analysed    : \033[1m%d\033[0m\n", len(r.Snapshot.Reviews))
	}
	p.printf("  Suspicious reviews  : \033[1;31m%d\033[0m\n", r.Suspicious.Len())
	p.printf("  Sellers scored      : \033[1m%d\033[0m\n", stats.TotalSellers)
	p.printf("  Average trust score : \033[1;32m%.1f\033[0m\n", stats.AvgTrustScore)
	p.printf("\n")

	// Risk distribution
	p.printf("\033[1;33m  Risk Distribution\033[0m\n")
	p.printf("  %s\n", thin)
	p.printf("  %-8s %s (%d)\n", models.RiskLow, strings.Repeat("█", stats.LowRiskCount), stats.LowRiskCount)
	p.printf("  %-8s %s (%d)\n", models.RiskMedium, strings.Repeat("█", stats.MediumRiskCount), stats.MediumRiskCount)
	p.printf("  %-8s %s (%d)\n", models.RiskHigh, strings.Repeat("█", stats.HighRiskCount), stats.HighRiskCount)
	p.printf("\n")

	if len(r.Cards) == 0 {
		p.printf("  No sellers in snapshot\n")
		p.printf("\n\033[1;35m%s\033[0m\n\n", sep)
		return
	}

	sorted := make([]models.ScoreCard, len(r.Cards))
	copy(sorted, r.Cards)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TrustScore > sorted[j].TrustScore
	})

	p.printf("\033[1;33m  Top %d Most Trusted Sellers\033[0m\n", topN)
	p.printf("  %s\n", thin)
	for i, c := range sorted[:min(topN, len(sorted))] {
		p.printCard(i+1, c)
	}
	p.printf("\n")

	p.printf("\033[1;33m  Highest Risk Sellers\033[0m\n")
	p.printf("  %s\n", thin)
	shown := 0
	for i := len(sorted) - 1; i >= 0 && shown < topN; i-- {
		if sorted[i].RiskLevel != models.RiskHigh {
			break
		}
		shown++
		p.printCard(shown, sorted[i])
	}
	if shown == 0 {
		p.printf("  No high risk sellers\n")
	}
	p.printf("\n")

	// Sellers hit by flagged reviews
	p.printf("\033[1;33m  Sellers With Flagged Reviews\033[0m\n")
	p.printf("  %s\n", thin)
	flagged := make([]models.ScoreCard, 0, len(sorted))
	for _, c := range sorted {
		if c.Stats.FakeReviews > 0 {
			flagged = append(flagged, c)
		}
	}
	sort.SliceStable(flagged, func(i, j int) bool {
		return flagged[i].Stats.FakeReviews > flagged[j].Stats.FakeReviews
	})
	if len(flagged) == 0 {
		p.printf("  No flagged reviews\n")
	}
	for _, c := range flagged[:min(topN, len(flagged))] {
		p.printf("  %-30s %d fake / %d real  (authenticity %.1f)\n",
			truncate(c.Name, 28), c.Stats.FakeReviews, c.Stats.RealReviews, c.Metrics.Authenticity)
	}

	p.printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func (p *ReportPrinter) printCard(rank int, c models.ScoreCard) {
	p.printf("  \033[1m%d.\033[0m %-30s %s  confidence %5.1f  %s\n",
		rank, truncate(c.Name, 28), colorScore(c), c.ConfidenceScore, c.RiskLevel)
}

func (p *ReportPrinter) printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

func colorScore(c models.ScoreCard) string {
	color := "32"
	switch c.RiskLevel {
	case models.RiskMedium:
		color = "33"
	case models.RiskHigh:
		color = "31"
	}
	return fmt.Sprintf("\033[1;%sm%5.1f\033[0m", color, c.TrustScore)
}

// truncate shortens s to max runes, ending in "..." when cut.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
