package booking

import (
	"fmt"
	"time"
)

// TimeRange is a half-open interval [start, end) within a single day, held as
// minutes since midnight. Immutable, safe to share.
type TimeRange struct {
	start int
	end   int
}

// NewTimeRange parses "HH:MM" start and end times. Fails with ErrInvalidRange
// when either time is malformed or start >= end.
func NewTimeRange(start, end string) (TimeRange, error) {
	s, err := parseTimeOfDay(start)
	if err != nil {
		return TimeRange{}, ErrInvalidRange
	}
	e, err := parseTimeOfDay(end)
	if err != nil {
		return TimeRange{}, ErrInvalidRange
	}
	if s >= e {
		return TimeRange{}, ErrInvalidRange
	}
	return TimeRange{start: s, end: e}, nil
}

func parseTimeOfDay(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

func formatTimeOfDay(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Overlaps is strict half-open: back-to-back ranges (10:00-11:00 and
// 11:00-12:00) do not overlap.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.start < other.end && other.start < r.end
}

// DurationHours returns the length of the range in hours, fractional allowed.
func (r TimeRange) DurationHours() float64 {
	return float64(r.end-r.start) / 60.0
}

func (r TimeRange) Start() string { return formatTimeOfDay(r.start) }
func (r TimeRange) End() string   { return formatTimeOfDay(r.end) }

func (r TimeRange) String() string {
	return fmt.Sprintf("%s a %s", r.Start(), r.End())
}
