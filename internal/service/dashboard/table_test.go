package dashboard

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinical-dashboard/internal/model"
)

func TestBuildTable_SinglePageByDefault(t *testing.T) {
	records := sampleTable()
	table := BuildTable(records, 0, 0)

	assert.Equal(t, TitleRecords, table.Title)
	assert.Len(t, table.Columns, len(recordColumns))
	require.Len(t, table.Rows, len(records))
	assert.Equal(t, model.Pagination{Page: 1, PageSize: 4, Total: 4, TotalPage: 1}, *table.Pagination)

	row := table.Rows[1]
	assert.Equal(t, []string{
		"P0001", "2023-02-10", "Emergency", "Dra. Martínez", "Vaginal Delivery",
		"Readmission", "4", "Female", "2023-02-14", "Yes", "2023-02",
	}, row)
}

func TestBuildTable_Pagination(t *testing.T) {
	records := sampleTable()

	tests := []struct {
		name     string
		page     int
		pageSize int
		wantRows int
		wantPage model.Pagination
	}{
		{"first page", 1, 3, 3, model.Pagination{Page: 1, PageSize: 3, Total: 4, TotalPage: 2}},
		{"last page", 2, 3, 1, model.Pagination{Page: 2, PageSize: 3, Total: 4, TotalPage: 2}},
		{"past the end", 5, 3, 0, model.Pagination{Page: 5, PageSize: 3, Total: 4, TotalPage: 2}},
		{"page without size", 2, 0, 0, model.Pagination{Page: 2, PageSize: DefaultPageSize, Total: 4, TotalPage: 1}},
		{"huge page", math.MaxInt, 1000, 0, model.Pagination{Page: math.MaxInt, PageSize: 1000, Total: 4, TotalPage: 1}},
		{"huge page small size", math.MaxInt / 2, 2, 0, model.Pagination{Page: math.MaxInt / 2, PageSize: 2, Total: 4, TotalPage: 2}},
		{"huge size", 1, math.MaxInt, 4, model.Pagination{Page: 1, PageSize: math.MaxInt, Total: 4, TotalPage: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := BuildTable(records, tt.page, tt.pageSize)
			assert.Len(t, table.Rows, tt.wantRows)
			assert.Equal(t, tt.wantPage, *table.Pagination)
		})
	}
}

func TestBuildTable_Empty(t *testing.T) {
	table := BuildTable(nil, 0, 0)
	assert.Empty(t, table.Rows)
	assert.NotNil(t, table.Rows)
	assert.Equal(t, 0, table.Pagination.TotalPage)
}
