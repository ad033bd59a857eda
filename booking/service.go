package booking

import (
	"context"
	"time"

	"condominio-server/models"
)

// ReservationStore is the persistence collaborator. Implementations must make
// Create atomic with respect to other bookings for the same (area, date): the
// GORM implementation locks the area row and re-checks overlap before the
// insert, returning *SlotConflictError when it loses the race.
type ReservationStore interface {
	// FindBlocking returns PENDIENTE/CONFIRMADA reservations for the area and
	// date, ordered by start time, skipping excludeID when non-zero.
	FindBlocking(ctx context.Context, areaID uint, date string, excludeID uint) ([]models.Reservation, error)
	Get(ctx context.Context, id uint) (*models.Reservation, error)
	Create(ctx context.Context, res *models.Reservation) error
	// Transition persists res only if the stored row is still in fromState,
	// failing with ErrStaleState otherwise (optimistic lock on id + state).
	Transition(ctx context.Context, res *models.Reservation, fromState string) error
}

// AreaCatalog is the read-only resource lookup. The engine never mutates an
// area.
type AreaCatalog interface {
	GetArea(ctx context.Context, id uint) (*models.CommonArea, error)
}

// Notifier receives reservation events. Delivery is best-effort and never
// affects the outcome of an operation.
type Notifier interface {
	Notify(res *models.Reservation, event string)
}

// Reservation event kinds handed to the Notifier.
const (
	EventRequested = "reserva_creada"
	EventApproved  = "reserva_aprobada"
	EventRejected  = "reserva_rechazada"
	EventCancelled = "reserva_cancelada"
	EventCompleted = "reserva_completada"
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

const dateLayout = "2006-01-02"

// Service is the booking facade: it validates requests against the
// availability index, prices them, creates reservations in PENDIENTE and
// drives lifecycle transitions.
type Service struct {
	store        ReservationStore
	areas        AreaCatalog
	availability *AvailabilityIndex
	notifier     Notifier
	clock        Clock
}

// NewService wires the engine. notifier may be nil; clock defaults to the
// real clock when nil.
func NewService(store ReservationStore, areas AreaCatalog, notifier Notifier, clock Clock) *Service {
	if clock == nil {
		clock = realClock{}
	}
	return &Service{
		store:        store,
		areas:        areas,
		availability: NewAvailabilityIndex(store),
		notifier:     notifier,
		clock:        clock,
	}
}

// Availability exposes the index for read-only occupancy queries.
func (s *Service) Availability() *AvailabilityIndex {
	return s.availability
}

type BookingRequest struct {
	AreaID      uint
	RequesterID uint
	Date        string // YYYY-MM-DD
	StartTime   string // HH:MM
	EndTime     string // HH:MM
	PartySize   int
	Purpose     string
	Motive      string
}

// RequestBooking validates the request, prices it and creates the reservation
// in PENDIENTE. The store re-checks the slot inside its write transaction, so
// two concurrent requests for overlapping ranges cannot both succeed.
func (s *Service) RequestBooking(ctx context.Context, req BookingRequest) (*models.Reservation, error) {
	rng, err := NewTimeRange(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	if _, err := time.Parse(dateLayout, req.Date); err != nil {
		return nil, ErrInvalidRequest
	}
	if req.Date < s.clock.Now().Format(dateLayout) {
		return nil, ErrInvalidRequest
	}
	if req.PartySize < 1 {
		return nil, ErrInvalidRequest
	}

	area, err := s.areas.GetArea(ctx, req.AreaID)
	if err != nil {
		return nil, err
	}
	if !area.IsActive() {
		return nil, ErrAreaUnavailable
	}
	if area.Capacity > 0 && req.PartySize > area.Capacity {
		return nil, ErrInvalidRequest
	}

	ok, conflict, err := s.availability.IsAvailable(ctx, req.AreaID, req.Date, rng, 0)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &SlotConflictError{Conflict: *conflict}
	}

	res := &models.Reservation{
		AreaID:      req.AreaID,
		RequesterID: req.RequesterID,
		Date:        req.Date,
		StartTime:   rng.Start(),
		EndTime:     rng.End(),
		Purpose:     req.Purpose,
		Motive:      req.Motive,
		PartySize:   req.PartySize,
		Status:      models.ReservationPending,
		TotalCost:   Cost(area.HourlyRate, rng),
	}
	if err := s.store.Create(ctx, res); err != nil {
		return nil, err
	}
	s.notify(res, EventRequested)
	return res, nil
}

// Approve moves PENDIENTE -> CONFIRMADA. The area must still be ACTIVO.
// Overlap against other PENDIENTE requests is deliberately not re-checked:
// competing pending requests are resolved by admin choice, and
// ConflictingPending surfaces them.
func (s *Service) Approve(ctx context.Context, id, adminID uint) (*models.Reservation, error) {
	res, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(res.Status, models.ReservationConfirmed) {
		return nil, &InvalidTransitionError{From: res.Status, Attempted: TransitionApprove}
	}

	area, err := s.areas.GetArea(ctx, res.AreaID)
	if err != nil {
		return nil, err
	}
	if !area.IsActive() {
		return nil, ErrAreaUnavailable
	}

	from := res.Status
	now := s.clock.Now()
	res.Status = models.ReservationConfirmed
	res.DecidedBy = &adminID
	res.DecidedAt = &now
	if err := s.store.Transition(ctx, res, from); err != nil {
		return nil, err
	}
	s.notify(res, EventApproved)
	return res, nil
}

// Reject moves PENDIENTE -> RECHAZADA. A note explaining the rejection is
// mandatory.
func (s *Service) Reject(ctx context.Context, id, adminID uint, note string) (*models.Reservation, error) {
	if note == "" {
		return nil, ErrInvalidRequest
	}
	res, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.Status != models.ReservationPending {
		return nil, &InvalidTransitionError{From: res.Status, Attempted: TransitionReject}
	}

	from := res.Status
	now := s.clock.Now()
	res.Status = models.ReservationRejected
	res.AdminNote = note
	res.DecidedBy = &adminID
	res.DecidedAt = &now
	if err := s.store.Transition(ctx, res, from); err != nil {
		return nil, err
	}
	s.notify(res, EventRejected)
	return res, nil
}

// Cancel moves PENDIENTE or CONFIRMADA -> CANCELADA. Caller authorization is
// the transport layer's concern. note is optional.
func (s *Service) Cancel(ctx context.Context, id uint, note string) (*models.Reservation, error) {
	res, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(res.Status, models.ReservationCancelled) {
		return nil, &InvalidTransitionError{From: res.Status, Attempted: TransitionCancel}
	}

	from := res.Status
	res.Status = models.ReservationCancelled
	if note != "" {
		res.AdminNote = note
	}
	if err := s.store.Transition(ctx, res, from); err != nil {
		return nil, err
	}
	s.notify(res, EventCancelled)
	return res, nil
}

// Complete moves CONFIRMADA -> COMPLETADA once the reserved date has occurred.
func (s *Service) Complete(ctx context.Context, id, adminID uint) (*models.Reservation, error) {
	res, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.Status != models.ReservationConfirmed {
		return nil, &InvalidTransitionError{From: res.Status, Attempted: TransitionComplete}
	}
	if res.Date > s.clock.Now().Format(dateLayout) {
		return nil, ErrNotYetOccurred
	}

	from := res.Status
	res.Status = models.ReservationCompleted
	if err := s.store.Transition(ctx, res, from); err != nil {
		return nil, err
	}
	s.notify(res, EventCompleted)
	return res, nil
}

// Revalidate checks whether a new range would be free for an existing
// reservation, excluding the reservation itself. Used when editing a pending
// reservation.
func (s *Service) Revalidate(ctx context.Context, id uint, startTime, endTime string) (bool, error) {
	rng, err := NewTimeRange(startTime, endTime)
	if err != nil {
		return false, err
	}
	res, err := s.store.Get(ctx, id)
	if err != nil {
		return false, err
	}
	ok, _, err := s.availability.IsAvailable(ctx, res.AreaID, res.Date, rng, res.ID)
	return ok, err
}

// ConflictingPending lists other PENDIENTE reservations whose ranges overlap
// the given reservation's slot. Approving one of two competing requests does
// not auto-reject the other; this lets the admin UI surface the clash.
func (s *Service) ConflictingPending(ctx context.Context, id uint) ([]models.Reservation, error) {
	res, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	rng, err := NewTimeRange(res.StartTime, res.EndTime)
	if err != nil {
		return nil, err
	}
	blocking, err := s.store.FindBlocking(ctx, res.AreaID, res.Date, res.ID)
	if err != nil {
		return nil, err
	}
	var out []models.Reservation
	for _, other := range blocking {
		if other.Status != models.ReservationPending {
			continue
		}
		or, err := NewTimeRange(other.StartTime, other.EndTime)
		if err != nil {
			continue
		}
		if or.Overlaps(rng) {
			out = append(out, other)
		}
	}
	return out, nil
}

func (s *Service) notify(res *models.Reservation, event string) {
	if s.notifier != nil {
		s.notifier.Notify(res, event)
	}
}
