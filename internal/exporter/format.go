package exporter

import (
	"fmt"

	"gdreport/internal/survey"
)

// formatFloat formats a float64 value for CSV output with exactly 2 decimal places
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}

// formatMean formats a group mean, leaving undefined means empty
func formatMean(m survey.Mean) string {
	if !m.Valid() {
		return ""
	}
	return formatFloat(m.Value)
}
