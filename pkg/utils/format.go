// Package utils provides shared utility functions.
package utils

import (
	"fmt"
	"strings"
	"time"
)

// FormatPrice formats a price with two decimal places and grouped thousands.
func FormatPrice(value float64) string {
	negative := value < 0
	if negative {
		value = -value
	}

	str := fmt.Sprintf("%.2f", value)
	parts := strings.Split(str, ".")
	result := groupThousands(parts[0]) + "." + parts[1]
	if negative {
		result = "-" + result
	}
	return result
}

// groupThousands inserts a comma every three digits from the right.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	result := s[n-3:]
	s = s[:n-3]
	for len(s) > 3 {
		result = s[len(s)-3:] + "," + result
		s = s[:len(s)-3]
	}
	return s + "," + result
}

// FormatPercent formats a percentage with sign.
func FormatPercent(value float64) string {
	sign := ""
	if value > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, value)
}

// FormatTimestamp renders a unix epoch timestamp with the given layout.
// Values above 1e12 are treated as milliseconds.
func FormatTimestamp(ts int64, layout string) string {
	if layout == "" {
		layout = "2006-01-02 15:04"
	}
	t := time.Unix(ts, 0)
	if ts > 1e12 {
		t = time.UnixMilli(ts)
	}
	return t.UTC().Format(layout)
}
