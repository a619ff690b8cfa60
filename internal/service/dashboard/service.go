package dashboard

import (
	"context"
	stderrors "errors"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinical-dashboard/internal/model"
	"github.com/jwalitptl/clinical-dashboard/internal/service/analytics"
	"github.com/jwalitptl/clinical-dashboard/internal/service/dataset"
	"github.com/jwalitptl/clinical-dashboard/pkg/errors"
	"github.com/jwalitptl/clinical-dashboard/pkg/logger"
	"github.com/jwalitptl/clinical-dashboard/pkg/messaging"
	"github.com/jwalitptl/clinical-dashboard/pkg/metrics"
)

// DatasetLoader hands out the generated admissions table.
type DatasetLoader interface {
	Load(ctx context.Context, p dataset.Params) ([]model.AdmissionRecord, error)
	Ready(p dataset.Params) bool
}

// Service answers dashboard queries against one dataset parameter set.
type Service struct {
	store     DatasetLoader
	params    dataset.Params
	publisher messaging.Publisher
	metrics   *metrics.Metrics
	log       *logger.Logger
	now       func() time.Time
}

func NewService(store DatasetLoader, params dataset.Params, publisher messaging.Publisher, m *metrics.Metrics, log *logger.Logger) *Service {
	if publisher == nil {
		publisher = messaging.NopPublisher{}
	}
	if m == nil {
		m = metrics.NewNop()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		store:     store,
		params:    params.Normalize(),
		publisher: publisher,
		metrics:   m,
		log:       log.WithComponent("dashboard"),
		now:       time.Now,
	}
}

// Ready reports whether the dataset has been generated.
func (s *Service) Ready() bool {
	return s.store.Ready(s.params)
}

// Options returns the sidebar choices with the dataset's admission date range.
func (s *Service) Options(ctx context.Context) (*model.FilterOptions, error) {
	table, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	minDate, maxDate := dateRange(table)
	return &model.FilterOptions{
		Services:   model.Services(),
		Physicians: model.Physicians(),
		MinDate:    minDate.Format(model.DateLayout),
		MaxDate:    maxDate.Format(model.DateLayout),
	}, nil
}

// Dashboard computes the full page for q and publishes a dashboard.viewed event.
func (s *Service) Dashboard(ctx context.Context, q model.DashboardQuery) (*model.Dashboard, error) {
	view, filter, err := s.view(ctx, q)
	if err != nil {
		return nil, err
	}

	result := &model.Dashboard{
		Filter:  appliedFilter(filter),
		Metrics: buildMetrics(view),
		Charts: model.Charts{
			DeliveryTypes: DeliveryTypeChart(view),
			Complications: ComplicationsChart(view),
			MonthlyTrend:  MonthlyTrendChart(view),
		},
		Table:       BuildTable(view.SortedByDateDescending(), q.Page, q.PageSize),
		GeneratedAt: s.now().UTC(),
	}

	s.publishViewed(ctx, result.Filter, view.Count())
	return result, nil
}

func (s *Service) Metrics(ctx context.Context, q model.DashboardQuery) (*model.Metrics, error) {
	view, _, err := s.view(ctx, q)
	if err != nil {
		return nil, err
	}
	m := buildMetrics(view)
	return &m, nil
}

func (s *Service) DeliveryTypes(ctx context.Context, q model.DashboardQuery) (*model.ChartConfig, error) {
	view, _, err := s.view(ctx, q)
	if err != nil {
		return nil, err
	}
	return DeliveryTypeChart(view), nil
}

func (s *Service) Complications(ctx context.Context, q model.DashboardQuery) (*model.ChartConfig, error) {
	view, _, err := s.view(ctx, q)
	if err != nil {
		return nil, err
	}
	return ComplicationsChart(view), nil
}

func (s *Service) MonthlyTrend(ctx context.Context, q model.DashboardQuery) (*model.ChartConfig, error) {
	view, _, err := s.view(ctx, q)
	if err != nil {
		return nil, err
	}
	return MonthlyTrendChart(view), nil
}

// Records returns one page of the filtered records, newest admission first.
func (s *Service) Records(ctx context.Context, q model.DashboardQuery) (*model.TableData, error) {
	view, _, err := s.view(ctx, q)
	if err != nil {
		return nil, err
	}
	return BuildTable(view.SortedByDateDescending(), q.Page, q.PageSize), nil
}

// ExportCSV writes every filtered record, newest admission first.
func (s *Service) ExportCSV(ctx context.Context, q model.DashboardQuery, w io.Writer) error {
	view, _, err := s.view(ctx, q)
	if err != nil {
		return err
	}
	return WriteCSV(w, view.SortedByDateDescending())
}

// load fetches the table. A deadline hit during a cold generation is
// reported as unavailable rather than internal.
func (s *Service) load(ctx context.Context) ([]model.AdmissionRecord, error) {
	table, err := s.store.Load(ctx, s.params)
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) {
			return nil, errors.Unavailable("request timeout", err)
		}
		return nil, err
	}
	return table, nil
}

// view resolves q against the table before any aggregation runs.
func (s *Service) view(ctx context.Context, q model.DashboardQuery) (*analytics.FilteredView, analytics.Filter, error) {
	table, err := s.load(ctx)
	if err != nil {
		return nil, analytics.Filter{}, err
	}

	minDate, maxDate := dateRange(table)
	filter, err := resolveFilter(q, minDate, maxDate)
	if err != nil {
		return nil, analytics.Filter{}, err
	}

	start := time.Now()
	view := analytics.ApplyFilters(table, filter)
	s.metrics.FilterDuration.Observe(time.Since(start).Seconds())
	s.metrics.FilteredRecords.Observe(float64(view.Count()))

	return view, filter, nil
}

func (s *Service) publishViewed(ctx context.Context, filter model.AppliedFilter, count int) {
	event := model.DashboardViewedEvent{
		ID:         uuid.NewString(),
		OccurredAt: s.now().UTC(),
		Filter:     filter,
		Count:      count,
	}

	if err := s.publisher.Publish(ctx, model.EventDashboardViewed, event); err != nil {
		s.metrics.EventsPublished.WithLabelValues(model.EventDashboardViewed, "error").Inc()
		s.log.Error(err, "failed to publish event",
			"event_type", model.EventDashboardViewed,
			"event_id", event.ID,
		)
		return
	}
	s.metrics.EventsPublished.WithLabelValues(model.EventDashboardViewed, "success").Inc()
}

func buildMetrics(view *analytics.FilteredView) model.Metrics {
	return model.Metrics{
		TotalDeliveries: view.Count(),
		CesareanRate:    view.CesareanRate(),
		ReadmissionRate: view.ReadmissionRate(),
		AverageStay:     view.AverageStay(),
	}
}

func dateRange(table []model.AdmissionRecord) (time.Time, time.Time) {
	if len(table) == 0 {
		return time.Time{}, time.Time{}
	}
	minDate, maxDate := table[0].AdmissionDate, table[0].AdmissionDate
	for _, r := range table[1:] {
		if r.AdmissionDate.Before(minDate) {
			minDate = r.AdmissionDate
		}
		if r.AdmissionDate.After(maxDate) {
			maxDate = r.AdmissionDate
		}
	}
	return minDate, maxDate
}
