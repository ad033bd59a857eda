package booking

import "math"

// Cost prices a reservation: hourly rate times duration, rounded half-up to
// cents. Applied once at creation; the stored value is never re-derived.
func Cost(hourlyRate float64, r TimeRange) float64 {
	return roundCents(hourlyRate * r.DurationHours())
}

func roundCents(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
