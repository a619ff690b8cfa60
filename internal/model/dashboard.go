package model

import "time"

// DashboardQuery carries the sidebar selections. A nil Services or
// Physicians slice means "everything"; a slice holding only empty strings
// is an explicit empty selection.
type DashboardQuery struct {
	Services   []string `form:"service"`
	Physicians []string `form:"physician"`
	From       string   `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To         string   `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Page       int      `form:"page" binding:"omitempty,min=1"`
	PageSize   int      `form:"page_size" binding:"omitempty,min=1,max=1000"`
}

// AppliedFilter echoes the resolved filter back to the client.
type AppliedFilter struct {
	Services   []Service   `json:"services"`
	Physicians []Physician `json:"physicians"`
	From       string      `json:"from"`
	To         string      `json:"to"`
}

// FilterOptions are the sidebar choices and their first-render defaults.
type FilterOptions struct {
	Services   []Service   `json:"services"`
	Physicians []Physician `json:"physicians"`
	MinDate    string      `json:"min_date"`
	MaxDate    string      `json:"max_date"`
}

// Metrics are the four headline indicators.
type Metrics struct {
	TotalDeliveries int     `json:"total_deliveries"`
	CesareanRate    float64 `json:"cesarean_rate"`
	ReadmissionRate float64 `json:"readmission_rate"`
	AverageStay     float64 `json:"average_stay_days"`
}

// Charts groups the three chart configs of the page.
type Charts struct {
	DeliveryTypes *ChartConfig `json:"delivery_types"`
	Complications *ChartConfig `json:"complications_by_service"`
	MonthlyTrend  *ChartConfig `json:"monthly_trend"`
}

// Dashboard is the full page payload.
type Dashboard struct {
	Filter      AppliedFilter `json:"filter"`
	Metrics     Metrics       `json:"metrics"`
	Charts      Charts        `json:"charts"`
	Table       *TableData    `json:"table"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// DashboardViewedEvent is published each time a dashboard is computed.
type DashboardViewedEvent struct {
	ID         string        `json:"id"`
	OccurredAt time.Time     `json:"occurred_at"`
	Filter     AppliedFilter `json:"filter"`
	Count      int           `json:"count"`
}

// EventDashboardViewed is the event type of DashboardViewedEvent.
const EventDashboardViewed = "dashboard.viewed"
