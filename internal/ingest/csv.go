package ingest

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"go.uber.org/zap"
)

// DecodeCSV turns raw CSV text into records keyed by the header row. Every
// value is trimmed of surrounding whitespace and stays a string; typed
// coercion happens later in field extraction. Failure isolation is per row:
// a column-count mismatch or row parse error drops that row with a log line
// and the rest of the batch survives.
func DecodeCSV(text string, logger *zap.Logger) []RawRecord {
	if logger == nil {
		logger = zap.NewNop()
	}
	text = strings.TrimPrefix(text, "\uFEFF")
	if strings.TrimSpace(text) == "" {
		return nil
	}

	r := csv.NewReader(strings.NewReader(text))
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		logger.Warn("csv header unreadable", zap.Error(err))
		return nil
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var records []RawRecord
	for line := 2; ; line++ {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			logger.Warn("csv row skipped", zap.Int("line", line), zap.Error(err))
			continue
		}
		if len(row) != len(header) {
			logger.Warn("csv row skipped",
				zap.Int("line", line),
				zap.Int("columns", len(row)),
				zap.Int("expected", len(header)),
			)
			continue
		}
		rec := make(RawRecord, len(header))
		for i, key := range header {
			rec[key] = strings.TrimSpace(row[i])
		}
		records = append(records, rec)
	}
	return records
}
