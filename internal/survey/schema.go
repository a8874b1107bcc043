package survey

import (
	"fmt"
	"strings"
)

// Column names of the Google Form export used by the report.
const (
	ColCountry      = "Where did you grow up?"
	ColComfort      = "How comfortable are you with direct disagreement during group work?"
	ColDirectness   = "How direct do you think feedback should be?"
	ColSavingFace   = "How important is “saving face” (not embarrassing someone) when giving feedback?"
	ColAcceptHigher = "In your culture, how acceptable is it to disagree with someone older or higher status?"
)

// Metric is one numeric survey question on the 1-5 scale.
type Metric struct {
	Key    string `yaml:"key" json:"key"`
	Column string `yaml:"column" json:"column"`
	Label  string `yaml:"label" json:"label"`
}

// Schema is the fixed shape of a survey row.
type Schema struct {
	GroupColumn string   `yaml:"group_column" json:"group_column"`
	Metrics     []Metric `yaml:"metrics" json:"metrics"`
}

// DefaultSchema returns the four feedback questions grouped by country.
func DefaultSchema() Schema {
	return Schema{
		GroupColumn: ColCountry,
		Metrics: []Metric{
			{Key: "comfort", Column: ColComfort, Label: "Comfort with disagreement"},
			{Key: "directness", Column: ColDirectness, Label: "Directness of feedback"},
			{Key: "saving_face", Column: ColSavingFace, Label: "Importance of saving face"},
			{Key: "accept_higher", Column: ColAcceptHigher, Label: "Disagreeing with higher status"},
		},
	}
}

// MetricColumns returns the metric column names in schema order.
func (s Schema) MetricColumns() []string {
	cols := make([]string, len(s.Metrics))
	for i, m := range s.Metrics {
		cols[i] = m.Column
	}
	return cols
}

// Labels returns the metric labels, falling back to the column name.
func (s Schema) Labels() []string {
	labels := make([]string, len(s.Metrics))
	for i, m := range s.Metrics {
		labels[i] = m.Label
		if labels[i] == "" {
			labels[i] = m.Column
		}
	}
	return labels
}

// Check verifies that the table carries every column of the schema.
func (s Schema) Check(t *Table) error {
	return requireColumns(t, append([]string{s.GroupColumn}, s.MetricColumns()...))
}

func requireColumns(t *Table, columns []string) error {
	var missing []string
	for _, c := range columns {
		if _, ok := t.Index(c); !ok {
			missing = append(missing, fmt.Sprintf("%q", c))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return nil
}
