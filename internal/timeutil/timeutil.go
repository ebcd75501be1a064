// Package timeutil provides utility functions for working with times
// entered on the command line.
package timeutil

import (
	"strings"
	"time"

	dps "github.com/markusmobius/go-dateparser"

	"github.com/ayoisaiah/proctor/internal/apperr"
)

var (
	errEmptyTime = &apperr.Error{
		Message: "time value is empty",
		Kind:    apperr.KindValidation,
	}

	errParseTime = &apperr.Error{
		Message: "unable to parse time: %s",
		Kind:    apperr.KindValidation,
	}
)

// FromStr parses an absolute timestamp or a natural language expression
// such as "yesterday" or "3 hours ago" relative to now.
func FromStr(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errEmptyTime
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}

	cfg := &dps.Configuration{
		CurrentTime: now,
	}

	d, err := dps.Parse(cfg, s)
	if err != nil {
		return time.Time{}, errParseTime.Fmt(s).Wrap(err)
	}

	return d.Time, nil
}

// RoundToStart resets the given time to the start of the day.
func RoundToStart(t time.Time) time.Time {
	return time.Date(
		t.Year(),
		t.Month(),
		t.Day(),
		0,
		0,
		0,
		0,
		t.Location(),
	)
}

// RoundToEnd resets the given time to the end of the day.
func RoundToEnd(t time.Time) time.Time {
	return time.Date(
		t.Year(),
		t.Month(),
		t.Day(),
		23,
		59,
		59,
		0,
		t.Location(),
	)
}
