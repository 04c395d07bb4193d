package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Spreadsheet serials count days from this epoch (the Lotus/Excel 1900
// system, with its leap-year quirk folded into the epoch).
var serialEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

const (
	minSerial = 1
	maxSerial = 100000
)

// ParseDate converts a date in any supported statement format to an ISO
// 8601 date string. It accepts DD/MM/YYYY, DD-MM-YYYY, YYYY-MM-DD,
// YYYY/MM/DD, two-digit-year variants (pivot 50) and numeric spreadsheet
// serials, and strips trailing time components. Calendar-invalid input
// reports ok=false; today's date is never substituted.
func ParseDate(value string) (string, bool) {
	return ParseDateHint(value, "")
}

// ParseDateHint is ParseDate with an optional format hint such as
// "DD/MM/YYYY" or "MM/DD/YYYY" from a prior column analysis. The hint only
// disambiguates field order; all other handling is unchanged.
func ParseDateHint(value, hint string) (string, bool) {
	s := strings.TrimSpace(value)
	if s == "" {
		return "", false
	}

	// "10/01/2026 15:04:05" and ISO "T" timestamps carry a time suffix.
	if i := strings.IndexAny(s, " T"); i > 0 && strings.Contains(s[i+1:], ":") {
		s = s[:i]
	}

	if !strings.ContainsAny(s, "/-") {
		if serial, err := strconv.ParseFloat(s, 64); err == nil {
			return fromSerial(serial)
		}
		return "", false
	}

	sep := "/"
	if !strings.Contains(s, "/") {
		sep = "-"
	}
	parts := strings.Split(s, sep)
	if len(parts) != 3 {
		return "", false
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return "", false
		}
		nums[i] = n
	}

	var year, month, day int
	switch {
	case len(parts[0]) == 4:
		year, month, day = nums[0], nums[1], nums[2]
	case strings.HasPrefix(strings.ToUpper(hint), "MM"):
		month, day, year = nums[0], nums[1], nums[2]
	default:
		day, month, year = nums[0], nums[1], nums[2]
	}

	if len(parts[0]) != 4 && year < 100 {
		if year < 50 {
			year += 2000
		} else {
			year += 1900
		}
	}

	return buildDate(year, month, day)
}

func fromSerial(serial float64) (string, bool) {
	days := math.Trunc(serial)
	if days < minSerial || days > maxSerial {
		return "", false
	}
	return serialEpoch.AddDate(0, 0, int(days)).Format("2006-01-02"), true
}

// buildDate reconstructs the date and confirms the components round-trip,
// rejecting overflow like 31/02 that time.Date would silently normalize.
func buildDate(year, month, day int) (string, bool) {
	if year < 1000 || month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}
