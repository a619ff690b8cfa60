package dashboard

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/jwalitptl/clinical-dashboard/internal/model"
)

const TitleRecords = "Detailed Records"

var recordColumns = []model.Column{
	{Key: "patient_id", Label: "Patient ID", Type: "text", Align: "left"},
	{Key: "admission_date", Label: "Admission Date", Type: "date", Align: "left"},
	{Key: "service", Label: "Service", Type: "text", Align: "left"},
	{Key: "physician", Label: "Physician", Type: "text", Align: "left"},
	{Key: "delivery_type", Label: "Delivery Type", Type: "text", Align: "left"},
	{Key: "complication", Label: "Complication", Type: "text", Align: "left"},
	{Key: "length_of_stay_days", Label: "Length of Stay (days)", Type: "number", Align: "right"},
	{Key: "sex", Label: "Sex", Type: "text", Align: "left"},
	{Key: "discharge_date", Label: "Discharge Date", Type: "date", Align: "left"},
	{Key: "readmitted_within_7_days", Label: "Readmitted within 7 days", Type: "text", Align: "center"},
	{Key: "admission_month", Label: "Month", Type: "text", Align: "left"},
}

// BuildTable renders one page of records, which must already be sorted.
func BuildTable(records []model.AdmissionRecord, page, pageSize int) *model.TableData {
	p := pageBounds(page, pageSize, len(records))

	start := len(records)
	if p.Page <= p.TotalPage {
		start = (p.Page - 1) * p.PageSize
	}
	end := start + min(p.PageSize, len(records)-start)

	rows := make([][]string, 0, end-start)
	for _, r := range records[start:end] {
		rows = append(rows, recordRow(r))
	}

	columns := make([]model.Column, len(recordColumns))
	copy(columns, recordColumns)

	return &model.TableData{
		Title:      TitleRecords,
		Columns:    columns,
		Rows:       rows,
		Pagination: &p,
	}
}

// WriteCSV writes a header row and one row per record.
func WriteCSV(w io.Writer, records []model.AdmissionRecord) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(recordColumns))
	for i, c := range recordColumns {
		header[i] = c.Key
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range records {
		if err := cw.Write(recordRow(r)); err != nil {
			return fmt.Errorf("write csv row %s: %w", r.PatientID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func recordRow(r model.AdmissionRecord) []string {
	readmitted := "No"
	if r.ReadmittedWithin7Days {
		readmitted = "Yes"
	}
	return []string{
		r.PatientID,
		r.AdmissionDate.Format(model.DateLayout),
		string(r.Service),
		string(r.Physician),
		string(r.DeliveryType),
		string(r.Complication),
		strconv.Itoa(r.LengthOfStayDays),
		string(r.Sex),
		r.DischargeDate.Format(model.DateLayout),
		readmitted,
		r.AdmissionMonth,
	}
}
