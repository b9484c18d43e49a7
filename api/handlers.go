package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"trustscore/models"
	"trustscore/services"
	"trustscore/utils"
)

// ReportRunner produces a fresh report. services.TrustService implements it.
type ReportRunner interface {
	Run(ctx context.Context) (*models.Report, error)
}

// Handler serves the dashboard endpoints. Every request scores a fresh
// snapshot; nothing is cached between requests.
type Handler struct {
	runner ReportRunner
	logger *utils.Logger
}

// NewHandler creates a Handler backed by runner.
func NewHandler(runner ReportRunner, logger *utils.Logger) *Handler {
	return &Handler{runner: runner, logger: logger}
}

// Health reports liveness without touching the data source.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListSellers returns every seller's score card.
func (h *Handler) ListSellers(c *gin.Context) {
	report, ok := h.report(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, report.Cards)
}

// DashboardStats returns platform-wide totals and risk counts.
func (h *Handler) DashboardStats(c *gin.Context) {
	report, ok := h.report(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, services.BuildDashboardStats(report.Cards))
}

// AdminDashboard returns the stats together with all score cards.
func (h *Handler) AdminDashboard(c *gin.Context) {
	report, ok := h.report(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, services.BuildAdminDashboard(report))
}

// SellerDashboard returns the dashboard for the seller_id query parameter.
func (h *Handler) SellerDashboard(c *gin.Context) {
	sellerID := c.Query("seller_id")
	if sellerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "seller_id is required"})
		return
	}

	report, ok := h.report(c)
	if !ok {
		return
	}
	d, err := services.BuildSellerDashboard(report, sellerID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// BuyerView returns the public summary of the seller in the path.
func (h *Handler) BuyerView(c *gin.Context) {
	report, ok := h.report(c)
	if !ok {
		return
	}
	v, err := services.BuildBuyerView(report, c.Param("seller_id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) report(c *gin.Context) (*models.Report, bool) {
	report, err := h.runner.Run(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	if report.Cards == nil {
		report.Cards = []models.ScoreCard{}
	}
	return report, true
}

// fail maps pipeline errors to status codes.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUpstreamUnavailable):
		h.logger.Error("[http] %s: %v", c.FullPath(), err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "failed to load data from database"})
	case errors.Is(err, services.ErrSellerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "seller not found"})
	default:
		h.logger.Error("[http] %s: %v", c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal server error"})
	}
}
