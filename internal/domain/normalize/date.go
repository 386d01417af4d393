package normalize

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Spreadsheet serial day numbers count days since 1899-12-30.
// Only values in this window are read as serials; other bare numbers go to dateparse.
const (
	serialMin = 20000 // 1954-10-03
	serialMax = 80000 // 2118-12-08
)

var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC) //nolint:gochecknoglobals // fixed epoch

// Date parses a raw cell as a calendar date (UTC midnight).
// Empty or unparsable input returns false.
func Date(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f >= serialMin && f <= serialMax {
			return Day(serialEpoch.AddDate(0, 0, int(math.Floor(f)))), true
		}
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return Day(t), true
}

const secondsPerDay = 24 * 60 * 60

// Day truncates t to its calendar date at UTC midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole calendar days from "from" to "to" (negative when to is earlier).
func DaysBetween(from, to time.Time) int {
	// Both ends sit on UTC midnight, so the second difference divides evenly.
	return int((Day(to).Unix() - Day(from).Unix()) / secondsPerDay)
}

// DateColumn parses every raw cell with Date. Blank cells count as Blank,
// unparsable ones as Malformed.
func DateColumn(raws []string) ([]time.Time, []bool, Diagnostics) {
	dates := make([]time.Time, len(raws))
	ok := make([]bool, len(raws))
	d := Diagnostics{Total: len(raws)}
	for i, raw := range raws {
		if strings.TrimSpace(raw) == "" {
			d.Blank++
			continue
		}
		dates[i], ok[i] = Date(raw)
		if !ok[i] {
			d.Malformed++
		}
	}
	return dates, ok, d
}
