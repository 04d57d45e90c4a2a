package report

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat maps a query value to a Format; empty means CSV.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// Render writes the report in the given format.
func Render(f Format, rep *Report, daily []DailySales) ([]byte, error) {
	switch f {
	case FormatCSV:
		return WriteCSV(rep, daily)
	case FormatXLSX:
		return WriteXLSX(rep, daily)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(f))
}

// exportRows lays the report and daily series out as one table with a
// section column, so spreadsheets can filter each block.
func exportRows(rep *Report, daily []DailySales) [][]string {
	rows := [][]string{
		{"section", "key", "quantity", "amount", "share"},
		{"summary", "completed", strconv.Itoa(rep.CompletedCount), rep.TotalRevenue.StringFixed(2), ""},
		{"summary", "pending", strconv.Itoa(rep.PendingCount), "", ""},
		{"summary", "canceled", strconv.Itoa(rep.CanceledCount), "", ""},
		{"summary", "average_ticket", "", rep.AverageTicket.StringFixed(2), ""},
	}
	for _, p := range rep.TopProducts {
		rows = append(rows, []string{"top_product", p.Title, strconv.Itoa(p.Quantity), "", ""})
	}
	for _, c := range rep.TopCategories {
		rows = append(rows, []string{"top_category", c.Name, strconv.Itoa(c.Quantity), c.Revenue.StringFixed(2), c.Share.StringFixed(2)})
	}
	for _, m := range rep.Monthly {
		key := time.Date(m.Year, time.Month(m.Month), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
		rows = append(rows, []string{"monthly", key, "", m.Total.StringFixed(2), ""})
	}
	for _, d := range daily {
		qty := 0
		for _, it := range d.Items {
			if it.Quantity > 0 {
				qty += it.Quantity
			}
		}
		rows = append(rows, []string{"daily", d.Date.Format("2006-01-02"), strconv.Itoa(qty), d.Total.StringFixed(2), ""})
	}
	return rows
}

func WriteCSV(rep *Report, daily []DailySales) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(exportRows(rep, daily)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const xlsxSheet = "Report"

// WriteXLSX renders the same table as WriteCSV into a single worksheet, with
// the quantity, amount and share columns stored as numbers.
func WriteXLSX(rep *Report, daily []DailySales) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return nil, err
	}

	for i, row := range exportRows(rep, daily) {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v
			if i > 0 && j >= 2 && v != "" {
				if n, err := strconv.ParseFloat(v, 64); err == nil {
					cells[j] = n
				}
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &cells); err != nil {
			return nil, err
		}
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(xlsxSheet, "A1", "E1", header); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
