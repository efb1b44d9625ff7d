// Package dates turns user-supplied date text into ISO calendar dates.
package dates

import (
	"errors"
	"fmt"
	"strings"
	"time"

	naturaldate "github.com/tj/go-naturaldate"
)

// Layout is the ISO calendar date format used for every stored date.
const Layout = "2006-01-02"

var ErrEmpty = errors.New("empty date")

// Parse accepts YYYY-MM-DD or a natural phrase such as "next monday" or
// "tomorrow", resolved relative to now. Phrases lean towards the future.
func Parse(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrEmpty
	}
	if t, err := time.ParseInLocation(Layout, s, now.Location()); err == nil {
		return t, nil
	}
	t, err := naturaldate.Parse(strings.ToLower(s), now, naturaldate.WithDirection(naturaldate.Future))
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return Day(t), nil
}

// Day truncates t to midnight in its own location.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekStart returns the Monday on or before t.
func WeekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return Day(t.AddDate(0, 0, -offset))
}

// Week returns the Monday and Sunday of the week containing t.
func Week(t time.Time) (string, string) {
	start := WeekStart(t)
	return start.Format(Layout), start.AddDate(0, 0, 6).Format(Layout)
}

// Range resolves an optional from/to pair. Unless both are given the range
// is the current Monday-to-Sunday week; a date that is given must still
// parse. An end before the start is returned as is and selects no meals.
func Range(from, to string, now time.Time) (string, string, error) {
	var start, end time.Time
	var err error

	if strings.TrimSpace(from) != "" {
		if start, err = Parse(from, now); err != nil {
			return "", "", err
		}
	}
	if strings.TrimSpace(to) != "" {
		if end, err = Parse(to, now); err != nil {
			return "", "", err
		}
	}

	if start.IsZero() || end.IsZero() {
		s, e := Week(now)
		return s, e, nil
	}
	return start.Format(Layout), end.Format(Layout), nil
}
