package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

// Survey column names as exported by the Google Form.
const (
	CountryColumn     = "Where did you grow up?"
	ComfortColumn     = "How comfortable are you with direct disagreement during group work?"
	DirectnessColumn  = "How direct do you think feedback should be?"
	SavingFaceColumn  = "How important is “saving face” (not embarrassing someone) when giving feedback?"
	AcceptHighColumn  = "In your culture, how acceptable is it to disagree with someone older or higher status?"
	TimestampColumn   = "Timestamp"
	SurveyFixtureName = "survey_data.csv"
)

// SurveyHeader returns the header row of a full survey export.
func SurveyHeader() []string {
	return []string{
		TimestampColumn,
		CountryColumn,
		ComfortColumn,
		DirectnessColumn,
		SavingFaceColumn,
		AcceptHighColumn,
	}
}

// SampleSurveyRows returns a small set of realistic responses. Vietnam has two
// answers, United States one and Brazil one with a blank directness answer.
func SampleSurveyRows() [][]string {
	return [][]string{
		{"2024/11/01 10:02:11", "Vietnam", "2", "2", "5", "2"},
		{"2024/11/01 10:15:40", "Vietnam", "4", "3", "4", "2"},
		{"2024/11/01 11:01:05", "United States", "5", "5", "2", "4"},
		{"2024/11/02 08:47:19", "Brazil", "4", "", "3", "3"},
	}
}

// WriteSurveyCSV writes header and rows to dir/name and returns the path.
func WriteSurveyCSV(t *testing.T, dir, name string, header []string, rows [][]string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create survey fixture: %v", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		t.Fatalf("write survey header: %v", err)
	}
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("write survey rows: %v", err)
	}
	return path
}

// WriteSampleSurvey writes the sample survey into dir and returns its path.
func WriteSampleSurvey(t *testing.T, dir string) string {
	t.Helper()
	return WriteSurveyCSV(t, dir, SurveyFixtureName, SurveyHeader(), SampleSurveyRows())
}
