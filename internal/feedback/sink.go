package feedback

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"gdreport/internal/exporter"
)

// Log is the append-only feedback log at a single path.
type Log struct {
	path      string
	writer    *exporter.CSVWriter
	validator *Validator
	logger    *slog.Logger

	mu sync.Mutex
}

// NewLog creates a log that writes to path. The file is created on the first
// append.
func NewLog(path string, logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{
		path:      path,
		writer:    exporter.NewCSVWriter("", logger),
		validator: NewValidator(),
		logger:    logger.With(slog.String("component", "feedback_log")),
	}
}

// Path returns the location of the log file.
func (l *Log) Path() string {
	return l.path
}

// Append validates rec and writes it as one row. The header is written when
// the file is new or empty.
func (l *Log) Append(ctx context.Context, rec Record) error {
	if err := l.validator.Validate(rec); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	err := l.writer.AppendToCSV(l.path, Header, [][]string{rec.Strings()})
	if err != nil {
		l.logger.ErrorContext(ctx, "failed to append feedback",
			slog.String("path", l.path),
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}

	l.logger.InfoContext(ctx, "feedback appended",
		slog.String("role", string(rec.Role)),
		slog.Int("rating", rec.Rating))
	return nil
}

// List reads every record back in file order. A missing log is empty.
func (l *Log) List(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	file, err := os.Open(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open feedback log: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(Header)

	records := make([]Record, 0)
	for row := 1; ; row++ {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read feedback log: %w", err)
		}
		if row == 1 {
			continue
		}
		rec, err := parseRecord(fields)
		if err != nil {
			return nil, fmt.Errorf("feedback log row %d: %w", row, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
