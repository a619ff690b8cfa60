package analytics

import (
	"math"
	"slices"
	"sort"

	"github.com/jwalitptl/clinical-dashboard/internal/model"
)

// FilteredView is the subset of records passing a Filter plus the aggregates
// derived from it. Every accessor degrades to zero or empty on an empty view.
type FilteredView struct {
	records []model.AdmissionRecord
}

func (v *FilteredView) Count() int {
	return len(v.records)
}

// CesareanRate is the percentage of cesarean deliveries.
func (v *FilteredView) CesareanRate() float64 {
	return v.percent(func(r model.AdmissionRecord) bool {
		return r.DeliveryType == model.DeliveryCesarean
	})
}

// ReadmissionRate is the percentage of admissions readmitted within 7 days.
func (v *FilteredView) ReadmissionRate() float64 {
	return v.percent(func(r model.AdmissionRecord) bool {
		return r.ReadmittedWithin7Days
	})
}

// AverageStay is the mean length of stay in days.
func (v *FilteredView) AverageStay() float64 {
	if len(v.records) == 0 {
		return 0
	}
	var total int
	for _, r := range v.records {
		total += r.LengthOfStayDays
	}
	return RoundTo2(float64(total) / float64(len(v.records)))
}

func (v *FilteredView) DeliveryTypeBreakdown() map[model.DeliveryType]int {
	out := make(map[model.DeliveryType]int)
	for _, r := range v.records {
		out[r.DeliveryType]++
	}
	return out
}

func (v *FilteredView) ComplicationsByService() map[model.ServiceComplication]int {
	out := make(map[model.ServiceComplication]int)
	for _, r := range v.records {
		out[model.ServiceComplication{Service: r.Service, Complication: r.Complication}]++
	}
	return out
}

// MonthlyTrend counts admissions per month present in the view, ascending.
func (v *FilteredView) MonthlyTrend() []model.MonthCount {
	counts := make(map[string]int)
	for _, r := range v.records {
		counts[r.AdmissionMonth]++
	}

	months := make([]string, 0, len(counts))
	for m := range counts {
		months = append(months, m)
	}
	sort.Strings(months)

	trend := make([]model.MonthCount, 0, len(months))
	for _, m := range months {
		trend = append(trend, model.MonthCount{Month: m, Count: counts[m]})
	}
	return trend
}

// SortedByDateDescending returns a copy ordered newest first. Ties keep
// generation order.
func (v *FilteredView) SortedByDateDescending() []model.AdmissionRecord {
	out := append([]model.AdmissionRecord(nil), v.records...)
	slices.SortStableFunc(out, func(a, b model.AdmissionRecord) int {
		return b.AdmissionDate.Compare(a.AdmissionDate)
	})
	return out
}

func (v *FilteredView) percent(match func(model.AdmissionRecord) bool) float64 {
	if len(v.records) == 0 {
		return 0
	}
	var n int
	for _, r := range v.records {
		if match(r) {
			n++
		}
	}
	return RoundTo2(float64(n) / float64(len(v.records)) * 100)
}

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(val float64) float64 {
	return math.Round(val*100) / 100
}
