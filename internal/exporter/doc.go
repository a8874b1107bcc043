// Package exporter writes report data to CSV and Excel files.
//
// This package contains two main components:
//
// CSVWriter: Core CSV writing functionality with support for headers, append
// mode and UTF-8 BOM for Excel compatibility. In append mode the header row is
// written only when the target file is empty, which makes it suitable for
// append-only logs.
//
// Summary exports: SummaryRecords flattens an aggregated survey summary into
// CSV rows, and WriteSummaryXLSX builds a workbook with the same table plus a
// native line chart of every metric per group.
//
// Example usage:
//
//	writer := exporter.NewCSVWriter("data/reports", logger)
//	headers, records := exporter.SummaryRecords(summary, labels)
//	err := writer.WriteCSV("summary.csv", exporter.WriteOptions{
//		Headers:   headers,
//		Records:   records,
//		BOMPrefix: true,
//	})
//
//	// Stream an Excel workbook to an HTTP response
//	err = exporter.WriteSummaryXLSX(w, summary, labels, "Survey summary")
package exporter
