package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/jwalitptl/clinical-dashboard/internal/model"
	"github.com/jwalitptl/clinical-dashboard/internal/service/analytics"
	"github.com/jwalitptl/clinical-dashboard/pkg/errors"
)

const DefaultPageSize = 100

// resolveFilter applies first-render defaults: all services, all physicians
// and the table's full admission date range.
func resolveFilter(q model.DashboardQuery, minDate, maxDate time.Time) (analytics.Filter, error) {
	services, err := parseSelection(q.Services, model.Services(), model.ParseService, "service")
	if err != nil {
		return analytics.Filter{}, err
	}
	physicians, err := parseSelection(q.Physicians, model.Physicians(), model.ParsePhysician, "physician")
	if err != nil {
		return analytics.Filter{}, err
	}
	from, err := parseDate(q.From, minDate, "from")
	if err != nil {
		return analytics.Filter{}, err
	}
	to, err := parseDate(q.To, maxDate, "to")
	if err != nil {
		return analytics.Filter{}, err
	}

	return analytics.Filter{
		Services:   services,
		Physicians: physicians,
		From:       from,
		To:         to,
	}, nil
}

// parseSelection returns all when values is nil. Values may repeat or hold
// comma separated lists; blanks are skipped, so a lone empty value is an
// explicit empty selection.
func parseSelection[T comparable](values []string, all []T, parse func(string) (T, bool), name string) ([]T, error) {
	if values == nil {
		return all, nil
	}

	out := make([]T, 0, len(all))
	seen := make(map[T]bool, len(all))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			item, ok := parse(part)
			if !ok {
				return nil, errors.BadRequest(fmt.Sprintf("unknown %s %q", name, part), nil)
			}
			if !seen[item] {
				seen[item] = true
				out = append(out, item)
			}
		}
	}
	return out, nil
}

func parseDate(value string, fallback time.Time, name string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	t, err := time.Parse(model.DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, errors.BadRequest(fmt.Sprintf("invalid %s date, expected YYYY-MM-DD", name), err)
	}
	return t, nil
}

func appliedFilter(f analytics.Filter) model.AppliedFilter {
	return model.AppliedFilter{
		Services:   f.Services,
		Physicians: f.Physicians,
		From:       f.From.Format(model.DateLayout),
		To:         f.To.Format(model.DateLayout),
	}
}

// pageBounds resolves pagination. Without a page size the whole table is one page.
func pageBounds(page, pageSize, total int) model.Pagination {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		if page == 1 {
			pageSize = max(total, 1)
		} else {
			pageSize = DefaultPageSize
		}
	}
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}
	return model.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: totalPages,
	}
}
