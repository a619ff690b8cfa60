package dashboard

import (
	"context"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinical-dashboard/internal/middleware"
	"github.com/jwalitptl/clinical-dashboard/internal/model"
	"github.com/jwalitptl/clinical-dashboard/pkg/errors"
	"github.com/jwalitptl/clinical-dashboard/pkg/httputil"
)

// DashboardServicer is the query surface the handler depends on.
type DashboardServicer interface {
	Options(ctx context.Context) (*model.FilterOptions, error)
	Dashboard(ctx context.Context, q model.DashboardQuery) (*model.Dashboard, error)
	Metrics(ctx context.Context, q model.DashboardQuery) (*model.Metrics, error)
	DeliveryTypes(ctx context.Context, q model.DashboardQuery) (*model.ChartConfig, error)
	Complications(ctx context.Context, q model.DashboardQuery) (*model.ChartConfig, error)
	MonthlyTrend(ctx context.Context, q model.DashboardQuery) (*model.ChartConfig, error)
	Records(ctx context.Context, q model.DashboardQuery) (*model.TableData, error)
	ExportCSV(ctx context.Context, q model.DashboardQuery, w io.Writer) error
}

type Handler struct {
	service DashboardServicer
	cache   middleware.CacheConfig
}

func NewHandler(service DashboardServicer, cache middleware.CacheConfig) *Handler {
	return &Handler{service: service, cache: cache}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	dashboard := r.Group("/dashboard")
	{
		dashboard.GET("", h.GetDashboard)
		dashboard.GET("/options", middleware.Cache(h.cache), h.GetOptions)
		dashboard.GET("/metrics", h.GetMetrics)
		dashboard.GET("/charts/delivery-types", h.chart(DashboardServicer.DeliveryTypes))
		dashboard.GET("/charts/complications", h.chart(DashboardServicer.Complications))
		dashboard.GET("/charts/monthly-trend", h.chart(DashboardServicer.MonthlyTrend))
		dashboard.GET("/records", h.ListRecords)
		dashboard.GET("/records.csv", h.ExportRecords)
	}
}

func (h *Handler) GetOptions(c *gin.Context) {
	opts, err := h.service.Options(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, opts)
}

func (h *Handler) GetDashboard(c *gin.Context) {
	q, ok := bindQuery(c)
	if !ok {
		return
	}

	d, err := h.service.Dashboard(c.Request.Context(), q)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, d)
}

func (h *Handler) GetMetrics(c *gin.Context) {
	q, ok := bindQuery(c)
	if !ok {
		return
	}

	m, err := h.service.Metrics(c.Request.Context(), q)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, m)
}

func (h *Handler) chart(build func(DashboardServicer, context.Context, model.DashboardQuery) (*model.ChartConfig, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, ok := bindQuery(c)
		if !ok {
			return
		}

		chart, err := build(h.service, c.Request.Context(), q)
		if err != nil {
			httputil.RespondWithError(c, err)
			return
		}
		httputil.RespondWithSuccess(c, chart)
	}
}

func (h *Handler) ListRecords(c *gin.Context) {
	q, ok := bindQuery(c)
	if !ok {
		return
	}

	table, err := h.service.Records(c.Request.Context(), q)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, table)
}

// ExportRecords streams the filtered table as CSV. Errors after the first
// byte cannot change the status, so they are only attached for logging.
func (h *Handler) ExportRecords(c *gin.Context) {
	q, ok := bindQuery(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="admissions.csv"`)

	if err := h.service.ExportCSV(c.Request.Context(), q, c.Writer); err != nil {
		if c.Writer.Written() {
			_ = c.Error(err)
			return
		}
		c.Writer.Header().Del("Content-Type")
		c.Writer.Header().Del("Content-Disposition")
		httputil.RespondWithError(c, err)
	}
}

func bindQuery(c *gin.Context) (model.DashboardQuery, bool) {
	var q model.DashboardQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid query parameters", err))
		return q, false
	}
	return q, true
}
