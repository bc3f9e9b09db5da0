package payroll

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"hrpayroll/internal/platform/spreadsheet"
)

var errUnparsable = errors.New("unrecognised value")

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
}

var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"01/02/2006 15:04:05",
	"1/2/2006 15:04",
}

var clockLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04:05 PM",
	"3:04 PM",
	"3:04PM",
	"03:04 PM",
}

type clock struct {
	hour, min, sec int
}

// parseWorkDate accepts the usual written forms, a datetime, or an Excel
// serial number.
func parseWorkDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errUnparsable
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return dateOf(t), nil
		}
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return dateOf(t), nil
		}
	}
	if serial, err := strconv.ParseFloat(raw, 64); err == nil && serial >= 1 {
		t, err := spreadsheet.ParseExcelSerial(serial)
		if err != nil {
			return time.Time{}, err
		}
		return dateOf(t), nil
	}
	return time.Time{}, errUnparsable
}

// parseClock reads a time of day. Spreadsheet cells may also carry it as a
// day fraction or as a full datetime whose date part is ignored.
func parseClock(raw string) (clock, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return clock{}, errUnparsable
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, strings.ToUpper(raw)); err == nil {
			return clock{t.Hour(), t.Minute(), t.Second()}, nil
		}
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return clock{t.Hour(), t.Minute(), t.Second()}, nil
		}
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && f >= 0 {
		_, frac := math.Modf(f)
		secs := int(math.Round(frac * 86400))
		if secs >= 86400 {
			secs = 86399
		}
		return clock{secs / 3600, secs % 3600 / 60, secs % 60}, nil
	}
	return clock{}, errUnparsable
}

func (c clock) on(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.hour, c.min, c.sec, 0, time.UTC)
}

func parseAmount(raw string) (float64, error) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errUnparsable
	}
	return f, nil
}

// parseEmployeeID accepts "7" and the "7.0" spreadsheets write for integer
// cells.
func parseEmployeeID(raw string) (int64, error) {
	f, err := parseAmount(raw)
	if err != nil || f <= 0 || f != math.Trunc(f) || f > math.MaxInt64 {
		return 0, errUnparsable
	}
	return int64(f), nil
}
