package routes

import (
	"errors"
	"net/http"
	"time"

	"condominio-server/booking"
	"condominio-server/models"
	"condominio-server/storage"
	"condominio-server/utils"

	"github.com/kataras/iris/v12"
)

// Booking is the reservation engine, wired in main.
var Booking *booking.Service

type ReservationInput struct {
	AreaID    uint   `json:"areaId" validate:"required"`
	Date      string `json:"date" validate:"required"`
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime" validate:"required"`
	PartySize int    `json:"partySize" validate:"required,min=1"`
	Purpose   string `json:"purpose" validate:"omitempty,oneof=uso_personal evento reunion deporte otro"`
	Motive    string `json:"motive" validate:"max=200"`
}

// writeEngineError maps the engine's typed failures to HTTP responses.
func writeEngineError(ctx iris.Context, err error) {
	var conflict *booking.SlotConflictError
	var transition *booking.InvalidTransitionError
	switch {
	case errors.As(err, &conflict):
		ctx.StatusCode(http.StatusConflict)
		ctx.JSON(iris.Map{
			"error":    "slot_conflict",
			"message":  conflict.Error(),
			"conflict": iris.Map{"startTime": conflict.Conflict.Start(), "endTime": conflict.Conflict.End()},
		})
	case errors.As(err, &transition):
		ctx.StatusCode(http.StatusBadRequest)
		ctx.JSON(iris.Map{
			"error":   "invalid_transition",
			"message": transition.Error(),
			"from":    transition.From,
		})
	case errors.Is(err, booking.ErrStaleState):
		utils.JSONError(ctx, http.StatusConflict, "stale_state", "the reservation was modified concurrently, refetch and retry")
	case errors.Is(err, booking.ErrInvalidRange), errors.Is(err, booking.ErrInvalidRequest), errors.Is(err, booking.ErrNotYetOccurred):
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, booking.ErrAreaUnavailable):
		utils.JSONError(ctx, http.StatusBadRequest, "area_unavailable", err.Error())
	case errors.Is(err, booking.ErrNotFound), errors.Is(err, booking.ErrAreaNotFound):
		utils.JSONError(ctx, http.StatusNotFound, "not_found", err.Error())
	default:
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", "internal error")
	}
}

func requestUserID(ctx iris.Context) (uint, bool) {
	v := ctx.Values().Get("userID")
	if v == nil {
		ctx.StatusCode(iris.StatusUnauthorized)
		ctx.JSON(iris.Map{"message": "User not authenticated"})
		return 0, false
	}
	id, ok := v.(uint)
	if !ok {
		ctx.StatusCode(iris.StatusUnauthorized)
		ctx.JSON(iris.Map{"message": "Invalid user ID"})
		return 0, false
	}
	return id, true
}

// POST /api/reservation
func CreateReservation(ctx iris.Context) {
	userID, ok := requestUserID(ctx)
	if !ok {
		return
	}

	var input ReservationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	res, err := Booking.RequestBooking(ctx.Request().Context(), booking.BookingRequest{
		AreaID:      input.AreaID,
		RequesterID: userID,
		Date:        input.Date,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		PartySize:   input.PartySize,
		Purpose:     input.Purpose,
		Motive:      input.Motive,
	})
	if err != nil {
		writeEngineError(ctx, err)
		return
	}

	ctx.StatusCode(http.StatusCreated)
	ctx.JSON(iris.Map{"data": res})
}

// GET /api/reservation/{id}
func GetReservation(ctx iris.Context) {
	userID, ok := requestUserID(ctx)
	if !ok {
		return
	}
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid reservation id")
		return
	}

	var res models.Reservation
	if err := storage.DB.Preload("Area").First(&res, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "reservation not found")
		return
	}
	if res.RequesterID != userID {
		utils.JSONError(ctx, http.StatusForbidden, "forbidden", "not your reservation")
		return
	}
	ctx.JSON(iris.Map{"data": res})
}

// GET /api/reservation/mine
func GetMyReservations(ctx iris.Context) {
	userID, ok := requestUserID(ctx)
	if !ok {
		return
	}

	q := storage.DB.Where("requester_id = ?", userID)
	if status := ctx.URLParamDefault("status", ""); status != "" {
		q = q.Where("status = ?", status)
	}

	var reservations []models.Reservation
	if err := q.Preload("Area").Order("date DESC, start_time DESC").Find(&reservations).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", "failed to fetch reservations")
		return
	}
	ctx.JSON(iris.Map{"data": reservations})
}

// GET /api/reservation/upcoming
// The requester's pending and confirmed reservations from today onward,
// soonest first.
func GetUpcomingReservations(ctx iris.Context) {
	userID, ok := requestUserID(ctx)
	if !ok {
		return
	}

	today := time.Now().Format("2006-01-02")
	var reservations []models.Reservation
	err := storage.DB.Preload("Area").
		Where("requester_id = ? AND date >= ? AND status IN ?",
			userID, today, []string{models.ReservationPending, models.ReservationConfirmed}).
		Order("date ASC, start_time ASC").
		Find(&reservations).Error
	if err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", "failed to fetch reservations")
		return
	}
	ctx.JSON(iris.Map{"data": reservations})
}

// POST /api/reservation/{id}/cancel { note }
func CancelReservation(ctx iris.Context) {
	userID, ok := requestUserID(ctx)
	if !ok {
		return
	}
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid reservation id")
		return
	}

	// residents may only cancel their own reservations
	var res models.Reservation
	if err := storage.DB.First(&res, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "reservation not found")
		return
	}
	if res.RequesterID != userID {
		utils.JSONError(ctx, http.StatusForbidden, "forbidden", "not your reservation")
		return
	}

	var body struct {
		Note string `json:"note"`
	}
	ctx.ReadJSON(&body) // body is optional

	updated, err := Booking.Cancel(ctx.Request().Context(), id, body.Note)
	if err != nil {
		writeEngineError(ctx, err)
		return
	}
	ctx.JSON(iris.Map{"data": updated})
}

// POST /api/reservation/{id}/revalidate { startTime, endTime }
// Used while editing a pending reservation: checks the new range against the
// day's occupancy, excluding the reservation itself.
func RevalidateReservation(ctx iris.Context) {
	userID, ok := requestUserID(ctx)
	if !ok {
		return
	}
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid reservation id")
		return
	}

	var res models.Reservation
	if err := storage.DB.First(&res, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "reservation not found")
		return
	}
	if res.RequesterID != userID {
		utils.JSONError(ctx, http.StatusForbidden, "forbidden", "not your reservation")
		return
	}

	var body struct {
		StartTime string `json:"startTime" validate:"required"`
		EndTime   string `json:"endTime" validate:"required"`
	}
	if err := ctx.ReadJSON(&body); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	available, err := Booking.Revalidate(ctx.Request().Context(), id, body.StartTime, body.EndTime)
	if err != nil {
		writeEngineError(ctx, err)
		return
	}
	ctx.JSON(iris.Map{"available": available})
}
