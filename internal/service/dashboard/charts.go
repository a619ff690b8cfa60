package dashboard

import (
	"github.com/jwalitptl/clinical-dashboard/internal/model"
	"github.com/jwalitptl/clinical-dashboard/internal/service/analytics"
)

const (
	TitleDeliveryTypes = "Delivery Type"
	TitleComplications = "Complications by Service"
	TitleMonthlyTrend  = "Deliveries per Month"
)

var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// DeliveryTypeChart is a pie over the delivery types present in the view.
func DeliveryTypeChart(view *analytics.FilteredView) *model.ChartConfig {
	breakdown := view.DeliveryTypeBreakdown()

	points := make([]model.ChartPoint, 0, len(breakdown))
	for _, dt := range model.DeliveryTypes() {
		if n := breakdown[dt]; n > 0 {
			points = append(points, model.ChartPoint{Label: string(dt), Value: float64(n)})
		}
	}

	series := []model.ChartSeries{}
	if len(points) > 0 {
		series = append(series, model.ChartSeries{Name: TitleDeliveryTypes, Data: points})
	}

	return &model.ChartConfig{
		ChartType:  model.ChartPie,
		Title:      TitleDeliveryTypes,
		Series:     series,
		Colors:     assignColors(len(points)),
		ShowLegend: true,
	}
}

// ComplicationsChart groups bars by service with one zero-filled series per
// complication present in the view.
func ComplicationsChart(view *analytics.FilteredView) *model.ChartConfig {
	counts := view.ComplicationsByService()

	presentService := make(map[model.Service]bool)
	presentComplication := make(map[model.Complication]bool)
	for k := range counts {
		presentService[k.Service] = true
		presentComplication[k.Complication] = true
	}

	services := make([]model.Service, 0, len(presentService))
	for _, s := range model.Services() {
		if presentService[s] {
			services = append(services, s)
		}
	}

	series := []model.ChartSeries{}
	for _, c := range model.Complications() {
		if !presentComplication[c] {
			continue
		}
		points := make([]model.ChartPoint, 0, len(services))
		for _, s := range services {
			points = append(points, model.ChartPoint{
				Label: string(s),
				Value: float64(counts[model.ServiceComplication{Service: s, Complication: c}]),
			})
		}
		series = append(series, model.ChartSeries{
			Name:  string(c),
			Data:  points,
			Color: defaultColors[len(series)%len(defaultColors)],
		})
	}

	return &model.ChartConfig{
		ChartType:  model.ChartBar,
		Title:      TitleComplications,
		XAxis:      "Service",
		YAxis:      "Count",
		BarMode:    model.BarModeGroup,
		Series:     series,
		Colors:     assignColors(len(series)),
		ShowLegend: true,
		ShowGrid:   true,
	}
}

// MonthlyTrendChart is a line with markers over the months present, ascending.
func MonthlyTrendChart(view *analytics.FilteredView) *model.ChartConfig {
	trend := view.MonthlyTrend()

	series := []model.ChartSeries{}
	if len(trend) > 0 {
		points := make([]model.ChartPoint, 0, len(trend))
		for _, mc := range trend {
			points = append(points, model.ChartPoint{Label: mc.Month, Value: float64(mc.Count)})
		}
		series = append(series, model.ChartSeries{Name: "Deliveries", Data: points, Color: defaultColors[0]})
	}

	return &model.ChartConfig{
		ChartType:  model.ChartLine,
		Title:      TitleMonthlyTrend,
		XAxis:      "Month",
		YAxis:      "Deliveries",
		Markers:    true,
		Series:     series,
		Colors:     assignColors(len(series)),
		ShowLegend: false,
		ShowGrid:   true,
	}
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}
