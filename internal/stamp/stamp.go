// Package stamp parses and formats the day-first timestamps used on the
// command line and in reports.
package stamp

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// Layout is the full timestamp layout, e.g. "23.06.2021 07:53:55".
	Layout = "02.01.2006 15:04:05"
	// DateLayout is accepted as input and means midnight of that day.
	DateLayout = "02.01.2006"
)

var ErrInvalidStamp = errors.New("invalid timestamp")

// Parse reads s in Layout or DateLayout, interpreted in local time.
func Parse(s string) (time.Time, error) {
	return ParseIn(s, time.Local)
}

// ParseIn is Parse with an explicit location.
func ParseIn(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{Layout, DateLayout} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q, want %q or %q", ErrInvalidStamp, s, Layout, DateLayout)
}

// Format renders t in Layout, or DateLayout when t falls exactly on midnight.
func Format(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	h, m, s := t.Clock()
	if h == 0 && m == 0 && s == 0 && t.Nanosecond() == 0 {
		return t.Format(DateLayout)
	}
	return t.Format(Layout)
}
