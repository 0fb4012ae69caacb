package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/i474232898/bikeshare-dashboard/internal/rental"
)

const summarySheet = "Summary"

// WriteXLSX writes the report tables, plus the filtered rows when records is
// non-nil, as an XLSX workbook.
func WriteXLSX(w io.Writer, rep Report, records []rental.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	if err := writeSummary(f, rep); err != nil {
		return err
	}

	for _, t := range rep.Tables() {
		if err := writeStatTable(f, t); err != nil {
			return fmt.Errorf("write sheet %s: %w", t.ID, err)
		}
	}

	if records != nil {
		if err := writeRecords(f, records); err != nil {
			return fmt.Errorf("write records: %w", err)
		}
	}

	f.SetActiveSheet(0)
	_, err := f.WriteTo(w)
	return err
}

func writeSummary(f *excelize.File, rep Report) error {
	sel := rep.Selection
	years := make([]string, len(sel.Years))
	for i, y := range sel.Years {
		years[i] = fmt.Sprint(y)
	}

	rows := [][]interface{}{
		{"Table", rep.TableID},
		{"Years", strings.Join(years, ", ")},
		{"Seasons", strings.Join(sel.Seasons, ", ")},
		{"Weather", strings.Join(sel.Weather, ", ")},
		{"Day type", string(sel.DayType)},
		{},
		{"Days", rep.Metrics.Days},
		{"Total rentals", rep.Metrics.TotalRentals},
		{"Mean rentals per day", round2(rep.Metrics.MeanRentals)},
		{"Max rentals", rep.Metrics.MaxRentals},
		{"Min rentals", rep.Metrics.MinRentals},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SetColWidth(summarySheet, "A", "A", 24)
}

func writeStatTable(f *excelize.File, t StatTable) error {
	name := sheetName(t.ID)
	if _, err := f.NewSheet(name); err != nil {
		return err
	}

	sw, err := f.NewStreamWriter(name)
	if err != nil {
		return err
	}

	header := make([]interface{}, 0, len(t.Columns)+1)
	header = append(header, t.Title)
	for _, c := range t.Columns {
		header = append(header, c)
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for i, r := range t.Rows {
		row := make([]interface{}, 0, len(r.Values)+1)
		row = append(row, r.Label)
		for _, v := range r.Values {
			row = append(row, v)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	return sw.Flush()
}

var recordHeader = []interface{}{
	"date", "year", "season", "weather_condition", "day_type", "weekday",
	"temperature", "humidity", "casual", "registered", "count",
	"recency", "r_score", "f_score", "m_score", "rfm_code", "segment",
	"temp_category", "hum_category", "rental_volume_category",
}

func writeRecords(f *excelize.File, records []rental.Record) error {
	const name = "Records"
	if _, err := f.NewSheet(name); err != nil {
		return err
	}

	sw, err := f.NewStreamWriter(name)
	if err != nil {
		return err
	}
	if err := sw.SetRow("A1", recordHeader); err != nil {
		return err
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			r.Date.Format("2006-01-02"), r.Year, r.Season, r.Weather, r.DayType, r.Weekday,
			r.Temperature, r.Humidity, r.Casual, r.Registered, r.Count,
			r.Recency, r.RScore, r.FScore, r.MScore, r.RFMCode, r.Segment,
			r.TempCategory, r.HumCategory, r.RentalVolumeCategory,
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	return sw.Flush()
}

// sheetName fits an identifier into Excel's 31 character sheet name limit.
func sheetName(id string) string {
	if len(id) > 31 {
		return id[:31]
	}
	return id
}
