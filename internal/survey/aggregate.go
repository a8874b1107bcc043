package survey

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// Mean is the average of one metric within one group. A mean over zero
// numeric values is undefined and reported as invalid (JSON null).
type Mean struct {
	Value float64
	Count int
}

// Valid reports whether at least one numeric value contributed.
func (m Mean) Valid() bool {
	return m.Count > 0
}

// MarshalJSON encodes an invalid mean as null.
func (m Mean) MarshalJSON() ([]byte, error) {
	if !m.Valid() {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

// SummaryRow holds the means of one group.
type SummaryRow struct {
	Group     string `json:"group"`
	Responses int    `json:"responses"`
	Means     []Mean `json:"means"`
}

// SummaryTable is the per-group aggregate of a Table.
type SummaryTable struct {
	GroupColumn   string       `json:"group_column"`
	MetricColumns []string     `json:"metric_columns"`
	Rows          []SummaryRow `json:"rows"`
}

// Groups returns the group labels in row order.
func (s *SummaryTable) Groups() []string {
	groups := make([]string, len(s.Rows))
	for i, r := range s.Rows {
		groups[i] = r.Group
	}
	return groups
}

// Row returns the summary row of a group.
func (s *SummaryTable) Row(group string) (SummaryRow, bool) {
	for _, r := range s.Rows {
		if r.Group == group {
			return r, true
		}
	}
	return SummaryRow{}, false
}

type accumulator struct {
	responses int
	sums      []float64
	counts    []int
}

// Aggregate groups the table by the exact text of groupColumn and computes the
// mean of each metric column over the numeric values of every group. Labels are
// compared without any normalization. Records with no group label are skipped.
// Rows are ordered ascending by group label.
func Aggregate(t *Table, groupColumn string, metricColumns []string) (*SummaryTable, error) {
	if err := requireColumns(t, append([]string{groupColumn}, metricColumns...)); err != nil {
		return nil, err
	}

	gIdx, _ := t.Index(groupColumn)
	mIdx := make([]int, len(metricColumns))
	for i, c := range metricColumns {
		mIdx[i], _ = t.Index(c)
	}

	groups := make(map[string]*accumulator)
	for _, rec := range t.Records {
		g := rec[gIdx]
		if g.Missing {
			continue
		}
		acc, ok := groups[g.Raw]
		if !ok {
			acc = &accumulator{
				sums:   make([]float64, len(metricColumns)),
				counts: make([]int, len(metricColumns)),
			}
			groups[g.Raw] = acc
		}
		acc.responses++
		for i, idx := range mIdx {
			if v := rec[idx]; v.Numeric {
				acc.sums[i] += v.Num
				acc.counts[i]++
			}
		}
	}

	labels := make([]string, 0, len(groups))
	for label := range groups {
		labels = append(labels, label)
	}
	sortLabels(labels)

	summary := &SummaryTable{
		GroupColumn:   groupColumn,
		MetricColumns: append([]string(nil), metricColumns...),
		Rows:          make([]SummaryRow, 0, len(labels)),
	}
	for _, label := range labels {
		acc := groups[label]
		row := SummaryRow{
			Group:     label,
			Responses: acc.responses,
			Means:     make([]Mean, len(metricColumns)),
		}
		for i := range metricColumns {
			if acc.counts[i] > 0 {
				row.Means[i] = Mean{Value: acc.sums[i] / float64(acc.counts[i]), Count: acc.counts[i]}
			}
		}
		summary.Rows = append(summary.Rows, row)
	}
	return summary, nil
}

// AggregateSchema checks the table against the schema and aggregates it.
func AggregateSchema(t *Table, s Schema) (*SummaryTable, error) {
	if err := s.Check(t); err != nil {
		return nil, err
	}
	return Aggregate(t, s.GroupColumn, s.MetricColumns())
}

// sortLabels orders numerically when every label is a number, otherwise by
// byte-wise string comparison.
func sortLabels(labels []string) {
	nums := make(map[string]float64, len(labels))
	for _, l := range labels {
		f, err := strconv.ParseFloat(strings.TrimSpace(l), 64)
		if err != nil {
			sort.Strings(labels)
			return
		}
		nums[l] = f
	}
	sort.SliceStable(labels, func(i, j int) bool {
		if nums[labels[i]] != nums[labels[j]] {
			return nums[labels[i]] < nums[labels[j]]
		}
		return labels[i] < labels[j]
	})
}
