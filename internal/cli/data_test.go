package cli

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "wavescan/internal/errors"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bars.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing temp CSV: %v", err)
	}
	return path
}

func TestLoadBars(t *testing.T) {
	path := writeTempCSV(t, `timestamp,open,high,low,close
1700000000,100.0,101.5,99.5,101.0
1700003600,101.0,102.0,100.5,101.5
1700007200,101.5,103.0,101.0,102.8
`)

	bars, err := LoadBars(path)
	if err != nil {
		t.Fatalf("LoadBars: %v", err)
	}
	if len(bars) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(bars))
	}
	if bars[0].Timestamp != 1700000000 || bars[0].High != 101.5 {
		t.Errorf("first bar parsed incorrectly: %+v", bars[0])
	}
	if bars[2].Close != 102.8 {
		t.Errorf("last close: expected 102.8, got %v", bars[2].Close)
	}
}

func TestLoadBars_DatetimeColumn(t *testing.T) {
	path := writeTempCSV(t, `timestamp,open,high,low,close
2024-01-02 09:15:00,100.0,101.5,99.5,101.0
2024-01-02 09:16:00,101.0,102.0,100.5,101.5
`)

	bars, err := LoadBars(path)
	if err != nil {
		t.Fatalf("LoadBars: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}
	if bars[1].Timestamp-bars[0].Timestamp != 60 {
		t.Errorf("expected bars one minute apart, got %d seconds", bars[1].Timestamp-bars[0].Timestamp)
	}
}

func TestLoadBars_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadBars(filepath.Join(t.TempDir(), "nope.csv"))
		var derr *apperrors.DataError
		if !apperrors.As(err, &derr) {
			t.Errorf("expected a data error, got %v", err)
		}
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeTempCSV(t, "timestamp,open,high,low,close\n")
		_, err := LoadBars(path)
		if !apperrors.Is(err, apperrors.ErrDataNotFound) {
			t.Errorf("expected ErrDataNotFound, got %v", err)
		}
	})

	t.Run("bad timestamp", func(t *testing.T) {
		path := writeTempCSV(t, "timestamp,open,high,low,close\nnot-a-time,1,2,0.5,1\n")
		if _, err := LoadBars(path); err == nil {
			t.Error("expected an error for an unparseable timestamp")
		}
	})
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "1700000000", want: 1700000000},
		{in: "1700000000000", want: 1700000000000},
		{in: " 42 ", want: 42},
		{in: "2024-01-02", want: 1704153600},
		{in: "2024-01-02T09:15:00Z", want: 1704186900},
		{in: "", wantErr: true},
		{in: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parseTimestamp(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseTimestamp(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseTimestamp(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseTimestamp(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
