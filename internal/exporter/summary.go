package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"gdreport/internal/survey"
)

// SummarySheet is the worksheet name used by WriteSummaryXLSX.
const SummarySheet = "Summary"

// SummaryRecords flattens a summary into a header and one record per group.
// labels name the metric columns; when it is shorter than the metric list the
// column name is used instead. Undefined means are left empty.
func SummaryRecords(summary *survey.SummaryTable, labels []string) ([]string, [][]string) {
	headers := make([]string, 0, len(summary.MetricColumns)+2)
	headers = append(headers, summary.GroupColumn, "Responses")
	for i, col := range summary.MetricColumns {
		headers = append(headers, labelAt(labels, i, col))
	}

	records := make([][]string, 0, len(summary.Rows))
	for _, row := range summary.Rows {
		record := make([]string, 0, len(headers))
		record = append(record, row.Group, formatInt(row.Responses))
		for _, m := range row.Means {
			record = append(record, formatMean(m))
		}
		records = append(records, record)
	}
	return headers, records
}

// WriteSummaryXLSX writes the summary as an Excel workbook with a line chart
// of every metric across groups.
func WriteSummaryXLSX(out io.Writer, summary *survey.SummaryTable, labels []string, title string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headers, _ := SummaryRecords(summary, labels)
	if err := f.SetSheetRow(SummarySheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i, row := range summary.Rows {
		values := make([]interface{}, 0, len(row.Means)+2)
		values = append(values, row.Group, row.Responses)
		for _, m := range row.Means {
			if m.Valid() {
				values = append(values, m.Value)
			} else {
				values = append(values, nil)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	if len(summary.Rows) > 0 && len(summary.MetricColumns) > 0 {
		if err := addSummaryChart(f, summary, len(headers), title); err != nil {
			return err
		}
	}

	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func addSummaryChart(f *excelize.File, summary *survey.SummaryTable, columns int, title string) error {
	last := len(summary.Rows) + 1
	categories := fmt.Sprintf("%s!$A$2:$A$%d", SummarySheet, last)

	series := make([]excelize.ChartSeries, 0, len(summary.MetricColumns))
	for i := range summary.MetricColumns {
		col, err := excelize.ColumnNumberToName(i + 3)
		if err != nil {
			return err
		}
		series = append(series, excelize.ChartSeries{
			Name:       fmt.Sprintf("%s!$%s$1", SummarySheet, col),
			Categories: categories,
			Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", SummarySheet, col, col, last),
			Marker:     excelize.ChartMarker{Symbol: "circle", Size: 6},
		})
	}

	anchor, err := excelize.CoordinatesToCellName(columns+2, 2)
	if err != nil {
		return err
	}

	chart := &excelize.Chart{
		Type:         excelize.Line,
		Series:       series,
		Title:        []excelize.RichTextRun{{Text: title}},
		Legend:       excelize.ChartLegend{Position: "bottom"},
		ShowBlanksAs: "gap",
		Dimension:    excelize.ChartDimension{Width: 640, Height: 360},
	}
	if err := f.AddChart(SummarySheet, anchor, chart); err != nil {
		return fmt.Errorf("failed to add chart: %w", err)
	}
	return nil
}

func labelAt(labels []string, i int, fallback string) string {
	if i < len(labels) && labels[i] != "" {
		return labels[i]
	}
	return fallback
}
