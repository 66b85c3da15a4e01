// Package cli provides the command-line interface for the wave analysis
// application.
package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	apperrors "wavescan/internal/errors"
	"wavescan/internal/models"
)

// barRecord is the CSV row shape for bar data files.
type barRecord struct {
	Timestamp string  `csv:"timestamp"`
	Open      float64 `csv:"open"`
	High      float64 `csv:"high"`
	Low       float64 `csv:"low"`
	Close     float64 `csv:"close"`
}

// timestampLayouts are tried in order for non-numeric timestamp columns.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// LoadBars reads an OHLC bar series from a CSV file. The file must carry a
// header row with timestamp, open, high, low and close columns; timestamps
// may be unix epoch values or datetime strings.
func LoadBars(path string) ([]models.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewDataError(path, "opening bar file", err)
	}
	defer f.Close()

	var records []*barRecord
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		return nil, apperrors.NewDataError(path, "decoding CSV", err)
	}
	if len(records) == 0 {
		return nil, apperrors.NewDataError(path, "file contains no bars", apperrors.ErrDataNotFound)
	}

	bars := make([]models.Bar, 0, len(records))
	for i, r := range records {
		ts, err := parseTimestamp(r.Timestamp)
		if err != nil {
			return nil, apperrors.NewDataError(path, fmt.Sprintf("row %d", i+1), err)
		}
		bars = append(bars, models.Bar{
			Timestamp: ts,
			Open:      r.Open,
			High:      r.High,
			Low:       r.Low,
			Close:     r.Close,
		})
	}
	return bars, nil
}

// parseTimestamp accepts unix epoch integers (seconds or milliseconds) and
// the datetime layouts in timestampLayouts.
func parseTimestamp(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Unix(), nil
		}
	}
	return 0, fmt.Errorf("unrecognized timestamp %q", s)
}
