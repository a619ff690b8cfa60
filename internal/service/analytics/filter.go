package analytics

import (
	"time"

	"github.com/jwalitptl/clinical-dashboard/internal/model"
)

// Filter selects records by service, physician and an inclusive admission
// date range. Empty Services or Physicians select nothing.
type Filter struct {
	Services   []model.Service
	Physicians []model.Physician
	From       time.Time
	To         time.Time
}

// ApplyFilters returns the view of table passing every predicate of f.
// Records keep their generation order. The view owns its records, so later
// changes to table do not leak into it.
func ApplyFilters(table []model.AdmissionRecord, f Filter) *FilteredView {
	from := model.CalendarDay(f.From)
	to := model.CalendarDay(f.To)

	if len(f.Services) == 0 || len(f.Physicians) == 0 || from.After(to) {
		return &FilteredView{}
	}

	services := make(map[model.Service]bool, len(f.Services))
	for _, s := range f.Services {
		services[s] = true
	}
	physicians := make(map[model.Physician]bool, len(f.Physicians))
	for _, p := range f.Physicians {
		physicians[p] = true
	}

	records := make([]model.AdmissionRecord, 0, len(table))
	for _, r := range table {
		if !services[r.Service] || !physicians[r.Physician] {
			continue
		}
		day := model.CalendarDay(r.AdmissionDate)
		if day.Before(from) || day.After(to) {
			continue
		}
		records = append(records, r)
	}

	return &FilteredView{records: records}
}
