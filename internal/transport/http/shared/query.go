package shared

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

type Page struct {
	Limit  int
	Offset int
}

// Page reads limit and offset from the query string. A limit above maxLimit
// is clamped; anything that is not a usable integer is reported.
func (v *Validator) Page(query url.Values, defaultLimit, maxLimit int) Page {
	page := Page{Limit: defaultLimit}
	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			v.Add("limit", "must be a positive integer")
		} else {
			page.Limit = min(n, maxLimit)
		}
	}
	if raw := strings.TrimSpace(query.Get("offset")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			v.Add("offset", "must be zero or a positive integer")
		} else {
			page.Offset = n
		}
	}
	return page
}

// ParseDate reads a calendar date. Full RFC3339 timestamps are accepted and
// cut down to their date.
func ParseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse(time.DateOnly, value)
}
