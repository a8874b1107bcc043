// Package survey loads the cultural-expectations survey export and computes the
// per-group summary shown on the report page.
//
// The package has three parts:
//
// Loader: reads a delimited (.csv) or spreadsheet (.xlsx) export into a Table.
// A missing file is reported as ErrDataUnavailable so callers can render a
// placeholder instead of failing the whole page.
//
// Schema: the fixed shape of a survey row (one group column and the metric
// columns) known at integration time.
//
// Aggregate: groups records by the exact text of the group column and computes
// the arithmetic mean of every metric over the numeric values in each group.
//
// Example usage:
//
//	table, err := survey.Load(ctx, "survey_data.csv")
//	if errors.Is(err, survey.ErrDataUnavailable) {
//	    // show placeholder
//	}
//	summary, err := survey.AggregateSchema(table, survey.DefaultSchema())
package survey
