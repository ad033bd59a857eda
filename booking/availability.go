package booking

import (
	"context"
	"sort"

	"condominio-server/models"
)

// AvailabilityIndex answers "is this range free for an area on a date?" using
// the reservations visible through the store. A linear scan per query is fine:
// occupancy per area per day is bounded by the number of non-overlapping slots
// in a day.
type AvailabilityIndex struct {
	store ReservationStore
}

func NewAvailabilityIndex(store ReservationStore) *AvailabilityIndex {
	return &AvailabilityIndex{store: store}
}

// IsAvailable reports whether candidate is free for the area on the date.
// excludeID (when non-zero) skips one reservation, so an edit does not
// conflict with itself. On conflict the blocking range is returned.
func (ai *AvailabilityIndex) IsAvailable(ctx context.Context, areaID uint, date string, candidate TimeRange, excludeID uint) (bool, *TimeRange, error) {
	blocking, err := ai.store.FindBlocking(ctx, areaID, date, excludeID)
	if err != nil {
		return false, nil, err
	}
	if conflict := FirstConflict(blocking, candidate); conflict != nil {
		return false, conflict, nil
	}
	return true, nil, nil
}

// OccupiedRanges returns the day's blocking ranges ordered by start time.
// Absence of data means full availability.
func (ai *AvailabilityIndex) OccupiedRanges(ctx context.Context, areaID uint, date string) ([]TimeRange, error) {
	blocking, err := ai.store.FindBlocking(ctx, areaID, date, 0)
	if err != nil {
		return nil, err
	}
	ranges := make([]TimeRange, 0, len(blocking))
	for _, res := range blocking {
		r, err := NewTimeRange(res.StartTime, res.EndTime)
		if err != nil {
			continue // stored rows were validated at creation
		}
		ranges = append(ranges, r)
	}
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].start < ranges[j].start })
	return ranges, nil
}

// FirstConflict returns the range of the first stored reservation that
// overlaps candidate, or nil when the slot is free. Shared with the storage
// layer, which re-checks inside its write transaction.
func FirstConflict(existing []models.Reservation, candidate TimeRange) *TimeRange {
	for _, res := range existing {
		if !Blocks(res.Status) {
			continue
		}
		r, err := NewTimeRange(res.StartTime, res.EndTime)
		if err != nil {
			continue
		}
		if r.Overlaps(candidate) {
			return &r
		}
	}
	return nil
}
