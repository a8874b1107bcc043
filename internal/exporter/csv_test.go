package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gdreport/internal/shared/testutil"
)

func setupTestEnv(t *testing.T) (*CSVWriter, string) {
	t.Helper()

	tempDir := t.TempDir()
	logger, _ := testutil.NewTestLogger(t)
	return NewCSVWriter(filepath.Join(tempDir, "reports"), logger), tempDir
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	content = bytes.TrimPrefix(content, utf8BOM)
	return strings.Split(strings.TrimSpace(string(content)), "\n")
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	writer, tempDir := setupTestEnv(t)

	tests := []struct {
		name     string
		filePath string
		options  WriteOptions
		validate func(t *testing.T, filePath string)
	}{
		{
			name:     "basic write with headers",
			filePath: "test_basic.csv",
			options: WriteOptions{
				Headers: []string{"Country", "Comfort", "Directness"},
				Records: [][]string{
					{"Vietnam", "3.00", "2.50"},
					{"US", "5.00", "5.00"},
				},
			},
			validate: func(t *testing.T, filePath string) {
				lines := readLines(t, filePath)
				assert.Len(t, lines, 3) // header + 2 records
				assert.Equal(t, "Country,Comfort,Directness", lines[0])
				assert.Equal(t, "Vietnam,3.00,2.50", lines[1])
				assert.Equal(t, "US,5.00,5.00", lines[2])
			},
		},
		{
			name:     "write with BOM prefix",
			filePath: "test_bom.csv",
			options: WriteOptions{
				Headers:   []string{"Country", "Comfort"},
				Records:   [][]string{{"Brazil", "4.50"}},
				BOMPrefix: true,
			},
			validate: func(t *testing.T, filePath string) {
				content, err := os.ReadFile(filePath)
				require.NoError(t, err)
				assert.True(t, bytes.HasPrefix(content, utf8BOM))

				lines := readLines(t, filePath)
				assert.Equal(t, "Country,Comfort", lines[0])
			},
		},
		{
			name:     "write without headers",
			filePath: "test_no_headers.csv",
			options: WriteOptions{
				Records: [][]string{{"Data1", "Data2"}, {"Data3", "Data4"}},
			},
			validate: func(t *testing.T, filePath string) {
				lines := readLines(t, filePath)
				assert.Equal(t, []string{"Data1,Data2", "Data3,Data4"}, lines)
			},
		},
		{
			name:     "append to empty file writes headers",
			filePath: "nested/test_append_new.csv",
			options: WriteOptions{
				Headers: []string{"timestamp", "name"},
				Records: [][]string{{"2024-11-02T09:30:00Z", "Linh"}},
				Append:  true,
			},
			validate: func(t *testing.T, filePath string) {
				lines := readLines(t, filePath)
				assert.Equal(t, []string{"timestamp,name", "2024-11-02T09:30:00Z,Linh"}, lines)
			},
		},
		{
			name:     "empty records",
			filePath: "test_empty.csv",
			options: WriteOptions{
				Headers: []string{"Col1", "Col2"},
				Records: [][]string{},
			},
			validate: func(t *testing.T, filePath string) {
				assert.Equal(t, []string{"Col1,Col2"}, readLines(t, filePath))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := writer.WriteCSV(tt.filePath, tt.options)
			require.NoError(t, err)
			tt.validate(t, filepath.Join(tempDir, "reports", tt.filePath))
		})
	}
}

func TestCSVWriter_AppendToCSV(t *testing.T) {
	writer, tempDir := setupTestEnv(t)
	fullPath := filepath.Join(tempDir, "reports", "append_test.csv")
	headers := []string{"Col1", "Col2"}

	require.NoError(t, writer.AppendToCSV("append_test.csv", headers, [][]string{{"Initial1", "Initial2"}}))
	require.NoError(t, writer.AppendToCSV("append_test.csv", headers, [][]string{{"Appended1", "Appended2"}}))
	require.NoError(t, writer.AppendToCSV("append_test.csv", headers, [][]string{{"NewData1", "NewData2"}}))

	lines := readLines(t, fullPath)
	assert.Equal(t, []string{
		"Col1,Col2",
		"Initial1,Initial2",
		"Appended1,Appended2",
		"NewData1,NewData2",
	}, lines)
}

func TestCSVWriter_OpenFailure(t *testing.T) {
	writer, tempDir := setupTestEnv(t)
	target := filepath.Join(tempDir, "reports", "is_a_dir")
	require.NoError(t, os.MkdirAll(target, 0755))

	err := writer.AppendToCSV(target, []string{"A"}, [][]string{{"1"}})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open file")
}

func TestCSVWriter_ResolvePath(t *testing.T) {
	writer, tempDir := setupTestEnv(t)
	abs := filepath.Join(tempDir, "elsewhere", "file.csv")

	assert.Equal(t, abs, writer.resolvePath(abs))
	assert.Equal(t, filepath.Join(tempDir, "reports", "summary.csv"), writer.resolvePath("summary.csv"))
	assert.Equal(t, "summary.csv", NewCSVWriter("", nil).resolvePath("summary.csv"))
}

func TestEncodeCSV_SpecialCharacters(t *testing.T) {
	headers := []string{"Name", "Comments"}
	records := [][]string{
		{"Linh, coach", "Said \"be direct\"\nthen paused"},
		{"Ngọc", "Cảm ơn 😀"},
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeCSV(&buf, headers, records, false))

	all, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, headers, all[0])
	assert.Equal(t, records[0], all[1])
	assert.Equal(t, records[1], all[2])
}
