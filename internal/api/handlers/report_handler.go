// internal/api/handlers/report_handler.go
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/hasithasandunlakshan/inventory-console/internal/analytics"
	"github.com/hasithasandunlakshan/inventory-console/internal/cache"
	"github.com/hasithasandunlakshan/inventory-console/internal/domain"
)

// ReportHandler serves assembled report sections to the browser console.
// Reads only; all writes go through the order service directly.
type ReportHandler struct {
	aggregator *analytics.Aggregator
	cache      cache.ReportCache
}

func NewReportHandler(aggregator *analytics.Aggregator, reportCache cache.ReportCache) *ReportHandler {
	return &ReportHandler{aggregator: aggregator, cache: reportCache}
}

func parseReportFilter(c *gin.Context) domain.SearchFilter {
	filter := domain.SearchFilter{
		Q:        strings.TrimSpace(c.Query("q")),
		DateFrom: strings.TrimSpace(c.Query("dateFrom")),
		DateTo:   strings.TrimSpace(c.Query("dateTo")),
	}
	if status, ok := domain.ParseStatus(c.Query("status")); ok {
		filter.Status = status
	}
	if id, err := strconv.ParseInt(c.Query("supplierId"), 10, 64); err == nil && id > 0 {
		filter.SupplierID = id
	}
	return filter
}

func (h *ReportHandler) loadReport(c *gin.Context) *analytics.Report {
	filter := parseReportFilter(c)
	ctx := c.Request.Context()

	if cached, hit, err := h.cache.GetReport(ctx, filter); err == nil && hit {
		return cached
	} else if err != nil {
		log.Warn().Err(err).Msg("report cache read failed, rebuilding")
	}

	report := h.aggregator.BuildReport(ctx, filter)
	if err := h.cache.SetReport(ctx, filter, report); err != nil {
		log.Warn().Err(err).Msg("report cache write failed")
	}
	return report
}

// GetFullReport returns every section; degraded sections carry their state so
// the console renders placeholders instead of error chrome.
func (h *ReportHandler) GetFullReport(c *gin.Context) {
	c.JSON(http.StatusOK, h.loadReport(c))
}

// GetTopSuppliers returns only the supplier spend ranking.
func (h *ReportHandler) GetTopSuppliers(c *gin.Context) {
	c.JSON(http.StatusOK, h.loadReport(c).TopSuppliers)
}

// GetMonthlyTrend returns only the month-bucketed trend series.
func (h *ReportHandler) GetMonthlyTrend(c *gin.Context) {
	c.JSON(http.StatusOK, h.loadReport(c).MonthlyTrends)
}

// GetSummary returns the KPI summary section.
func (h *ReportHandler) GetSummary(c *gin.Context) {
	c.JSON(http.StatusOK, h.loadReport(c).Summary)
}
