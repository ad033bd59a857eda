package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"condominio-server/booking"
	"condominio-server/models"
)

var blockingStates = []string{models.ReservationPending, models.ReservationConfirmed}

// ReservationStore is the GORM-backed implementation of
// booking.ReservationStore. Writes invalidate the per-day occupancy cache.
type ReservationStore struct {
	db *gorm.DB
}

func NewReservationStore(db *gorm.DB) *ReservationStore {
	return &ReservationStore{db: db}
}

func (s *ReservationStore) FindBlocking(ctx context.Context, areaID uint, date string, excludeID uint) ([]models.Reservation, error) {
	q := s.db.WithContext(ctx).
		Where("area_id = ? AND date = ? AND status IN ?", areaID, date, blockingStates)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var out []models.Reservation
	if err := q.Order("start_time ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("query blocking reservations: %w", err)
	}
	return out, nil
}

func (s *ReservationStore) Get(ctx context.Context, id uint) (*models.Reservation, error) {
	var res models.Reservation
	if err := s.db.WithContext(ctx).First(&res, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, booking.ErrNotFound
		}
		return nil, fmt.Errorf("get reservation %d: %w", id, err)
	}
	return &res, nil
}

// Create inserts a new reservation. The availability check and the insert run
// in one transaction holding a row lock on the area, so two concurrent
// requests for the same (area, date) serialize and the loser gets a
// SlotConflictError instead of a double booking.
func (s *ReservationStore) Create(ctx context.Context, res *models.Reservation) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var area models.CommonArea
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&area, res.AreaID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return booking.ErrAreaNotFound
			}
			return fmt.Errorf("lock area %d: %w", res.AreaID, err)
		}

		var existing []models.Reservation
		if err := tx.Where("area_id = ? AND date = ? AND status IN ?", res.AreaID, res.Date, blockingStates).
			Find(&existing).Error; err != nil {
			return fmt.Errorf("recheck availability: %w", err)
		}
		candidate, err := booking.NewTimeRange(res.StartTime, res.EndTime)
		if err != nil {
			return err
		}
		if conflict := booking.FirstConflict(existing, candidate); conflict != nil {
			return &booking.SlotConflictError{Conflict: *conflict}
		}

		if err := tx.Create(res).Error; err != nil {
			return fmt.Errorf("create reservation: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	InvalidateOccupiedCache(ctx, res.AreaID, res.Date)
	return nil
}

// Transition applies a state change only if the stored row is still in
// fromState. Zero rows affected means a concurrent transition won.
func (s *ReservationStore) Transition(ctx context.Context, res *models.Reservation, fromState string) error {
	result := s.db.WithContext(ctx).Model(&models.Reservation{}).
		Where("id = ? AND status = ?", res.ID, fromState).
		Updates(map[string]interface{}{
			"status":     res.Status,
			"admin_note": res.AdminNote,
			"decided_by": res.DecidedBy,
			"decided_at": res.DecidedAt,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("transition reservation %d: %w", res.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return booking.ErrStaleState
	}
	InvalidateOccupiedCache(ctx, res.AreaID, res.Date)
	return nil
}

// AreaStore implements booking.AreaCatalog. Read-only: nothing here mutates
// an area's rate or status.
type AreaStore struct {
	db *gorm.DB
}

func NewAreaStore(db *gorm.DB) *AreaStore {
	return &AreaStore{db: db}
}

func (s *AreaStore) GetArea(ctx context.Context, id uint) (*models.CommonArea, error) {
	var area models.CommonArea
	if err := s.db.WithContext(ctx).First(&area, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, booking.ErrAreaNotFound
		}
		return nil, fmt.Errorf("get area %d: %w", id, err)
	}
	return &area, nil
}

// Occupied-ranges day cache: a derived view in redis, deleted (never patched)
// on every reservation write for the same day.

const occupiedCacheTTL = 10 * time.Minute

func occupiedCacheKey(areaID uint, date string) string {
	return fmt.Sprintf("occupied:%d:%s", areaID, date)
}

func InvalidateOccupiedCache(ctx context.Context, areaID uint, date string) {
	if Redis == nil {
		return
	}
	Redis.Del(ctx, occupiedCacheKey(areaID, date))
}

// CachedOccupiedRanges returns the cached "HH:MM a HH:MM" list for a day, or
// false on a miss.
func CachedOccupiedRanges(ctx context.Context, areaID uint, date string) ([]string, bool) {
	if Redis == nil {
		return nil, false
	}
	raw, err := Redis.Get(ctx, occupiedCacheKey(areaID, date)).Result()
	if err != nil {
		return nil, false
	}
	var ranges []string
	if err := json.Unmarshal([]byte(raw), &ranges); err != nil {
		return nil, false
	}
	return ranges, true
}

func StoreOccupiedRanges(ctx context.Context, areaID uint, date string, ranges []string) {
	if Redis == nil {
		return
	}
	raw, err := json.Marshal(ranges)
	if err != nil {
		return
	}
	Redis.Set(ctx, occupiedCacheKey(areaID, date), raw, occupiedCacheTTL)
}
