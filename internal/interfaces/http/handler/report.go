package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/labqueue/backend/internal/application/queueing"
	"github.com/labqueue/backend/internal/application/reporting"
)

// ReportHandler handles operational reporting HTTP requests
type ReportHandler struct {
	BaseHandler
	reportService  *reporting.ReportService
	metricsService *reporting.MetricsService
	queueService   *queueing.QueueService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *reporting.ReportService, metricsService *reporting.MetricsService, queueService *queueing.QueueService) *ReportHandler {
	return &ReportHandler{
		reportService:  reportService,
		metricsService: metricsService,
		queueService:   queueService,
	}
}

// Dashboard godoc
// @Summary      Get today's operational dashboard
// @Tags         reports
// @Router       /reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.reportService.Dashboard(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	// Queue summary comes from the cache layer so the dashboard reflects
	// live queue state alongside the day's persisted counters.
	queues, err := h.queueService.Summary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{
		"dashboard": dashboard,
		"queues":    queues,
	})
}

// TicketsByDay godoc
// @Summary      Ticket volume per day over a date range
// @Tags         reports
// @Router       /reports/tickets-by-day [get]
func (h *ReportHandler) TicketsByDay(c *gin.Context) {
	var filter reporting.ReportRangeFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	results, err := h.reportService.TicketsByDay(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, results)
}

// TicketsByHour godoc
// @Summary      Ticket volume per hour of day over a date range
// @Tags         reports
// @Router       /reports/tickets-by-hour [get]
func (h *ReportHandler) TicketsByHour(c *gin.Context) {
	var filter reporting.ReportRangeFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	results, err := h.reportService.TicketsByHour(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, results)
}

// ByService godoc
// @Summary      Ticket breakdown per service type
// @Tags         reports
// @Router       /reports/by-service [get]
func (h *ReportHandler) ByService(c *gin.Context) {
	var filter reporting.ReportRangeFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	results, err := h.reportService.ByService(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, results)
}

// ByStation godoc
// @Summary      Ticket breakdown per attention station
// @Tags         reports
// @Router       /reports/by-station [get]
func (h *ReportHandler) ByStation(c *gin.Context) {
	var filter reporting.ReportRangeFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	results, err := h.reportService.ByStation(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, results)
}

// WaitTimeDistribution godoc
// @Summary      Histogram of patient wait times
// @Tags         reports
// @Router       /reports/wait-times [get]
func (h *ReportHandler) WaitTimeDistribution(c *gin.Context) {
	var filter reporting.ReportRangeFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	results, err := h.reportService.WaitTimeDistribution(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, results)
}

// DailyMetrics godoc
// @Summary      List pre-aggregated daily metrics over a date range
// @Tags         reports
// @Router       /reports/daily-metrics [get]
func (h *ReportHandler) DailyMetrics(c *gin.Context) {
	from, err := parseDateQuery(c, "from", time.Now().AddDate(0, 0, -30))
	if err != nil {
		h.BadRequest(c, "Invalid from date, expected YYYY-MM-DD")
		return
	}
	to, err := parseDateQuery(c, "to", time.Now())
	if err != nil {
		h.BadRequest(c, "Invalid to date, expected YYYY-MM-DD")
		return
	}

	results, err := h.metricsService.ListRange(c.Request.Context(), from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, results)
}

// RollupDay godoc
// @Summary      Trigger the daily metrics rollup for a given day
// @Tags         reports
// @Router       /reports/rollup [post]
func (h *ReportHandler) RollupDay(c *gin.Context) {
	day, err := parseDateQuery(c, "date", time.Now())
	if err != nil {
		h.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	count, err := h.metricsService.RollupDay(c.Request.Context(), day)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"rolled_up": count})
}

func parseDateQuery(c *gin.Context, name string, fallback time.Time) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	return time.Parse("2006-01-02", raw)
}
