package routes

import (
	"net/http"
	"time"

	"condominio-server/models"
	"condominio-server/storage"
	"condominio-server/utils"

	"github.com/kataras/iris/v12"
)

// GET /api/admin/reservations?status=&areaId=&date=&page=&per_page=
func AdminListReservations(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 20)
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	q := storage.DB.Model(&models.Reservation{})
	if status := ctx.URLParamDefault("status", ""); status != "" {
		q = q.Where("status = ?", status)
	}
	if areaID := ctx.URLParamIntDefault("areaId", 0); areaID > 0 {
		q = q.Where("area_id = ?", areaID)
	}
	if date := ctx.URLParamDefault("date", ""); date != "" {
		q = q.Where("date = ?", date)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", "failed to count reservations")
		return
	}

	var reservations []models.Reservation
	err := q.Preload("Area").Preload("Requester").
		Order("date DESC, start_time DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&reservations).Error
	if err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", "failed to fetch reservations")
		return
	}
	utils.JSONPage(ctx, reservations, page, perPage, total)
}

// GET /api/admin/reservations/upcoming
// Confirmed reservations from today onward, soonest first.
func AdminUpcomingReservations(ctx iris.Context) {
	var reservations []models.Reservation
	err := storage.DB.Preload("Area").Preload("Requester").
		Where("status = ? AND date >= ?", models.ReservationConfirmed, time.Now().Format("2006-01-02")).
		Order("date ASC, start_time ASC").
		Limit(50).
		Find(&reservations).Error
	if err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", "failed to fetch reservations")
		return
	}
	ctx.JSON(iris.Map{"data": reservations})
}

// GET /api/admin/reservations/{id}
// Includes the other pending requests that overlap the same slot, so the
// admin sees the clash before deciding.
func AdminGetReservation(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid reservation id")
		return
	}

	var res models.Reservation
	if err := storage.DB.Preload("Area").Preload("Requester").First(&res, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "reservation not found")
		return
	}

	conflicting, err := Booking.ConflictingPending(ctx.Request().Context(), id)
	if err != nil {
		writeEngineError(ctx, err)
		return
	}
	ctx.JSON(iris.Map{"data": res, "conflictingPending": conflicting})
}

// POST /api/admin/reservations/{id}/approve
func AdminApproveReservation(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid reservation id")
		return
	}
	adminID, ok := requestUserID(ctx)
	if !ok {
		return
	}

	var before models.Reservation
	storage.DB.First(&before, id)

	res, err := Booking.Approve(ctx.Request().Context(), id, adminID)
	if err != nil {
		writeEngineError(ctx, err)
		return
	}
	utils.Audit(ctx, "reservation.approve", "reservation", id, before, res)

	conflicting, _ := Booking.ConflictingPending(ctx.Request().Context(), id)
	ctx.JSON(iris.Map{"data": res, "conflictingPending": conflicting})
}

// POST /api/admin/reservations/{id}/reject { note }
func AdminRejectReservation(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid reservation id")
		return
	}
	adminID, ok := requestUserID(ctx)
	if !ok {
		return
	}

	var body struct {
		Note string `json:"note" validate:"required"`
	}
	if err := ctx.ReadJSON(&body); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var before models.Reservation
	storage.DB.First(&before, id)

	res, err := Booking.Reject(ctx.Request().Context(), id, adminID, body.Note)
	if err != nil {
		writeEngineError(ctx, err)
		return
	}
	utils.Audit(ctx, "reservation.reject", "reservation", id, before, res)
	ctx.JSON(iris.Map{"data": res})
}

// POST /api/admin/reservations/{id}/cancel { note }
func AdminCancelReservation(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid reservation id")
		return
	}

	var body struct {
		Note string `json:"note"`
	}
	ctx.ReadJSON(&body)

	var before models.Reservation
	storage.DB.First(&before, id)

	res, err := Booking.Cancel(ctx.Request().Context(), id, body.Note)
	if err != nil {
		writeEngineError(ctx, err)
		return
	}
	utils.Audit(ctx, "reservation.cancel", "reservation", id, before, res)
	ctx.JSON(iris.Map{"data": res})
}

// POST /api/admin/reservations/{id}/complete
func AdminCompleteReservation(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid reservation id")
		return
	}
	adminID, ok := requestUserID(ctx)
	if !ok {
		return
	}

	var before models.Reservation
	storage.DB.First(&before, id)

	res, err := Booking.Complete(ctx.Request().Context(), id, adminID)
	if err != nil {
		writeEngineError(ctx, err)
		return
	}
	utils.Audit(ctx, "reservation.complete", "reservation", id, before, res)
	ctx.JSON(iris.Map{"data": res})
}

type statusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// GET /api/admin/reservations/stats
func AdminReservationStats(ctx iris.Context) {
	var counts []statusCount
	err := storage.DB.Model(&models.Reservation{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", "failed to fetch stats")
		return
	}

	byStatus := map[string]int64{}
	var total int64
	for _, c := range counts {
		byStatus[c.Status] = c.Count
		total += c.Count
	}

	// revenue counts confirmed and completed reservations
	var revenue float64
	err = storage.DB.Model(&models.Reservation{}).
		Where("status IN ?", []string{models.ReservationConfirmed, models.ReservationCompleted}).
		Select("COALESCE(SUM(total_cost), 0)").
		Scan(&revenue).Error
	if err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", "failed to fetch stats")
		return
	}

	ctx.JSON(iris.Map{
		"total":    total,
		"byStatus": byStatus,
		"revenue":  revenue,
	})
}

// GET /api/admin/audit?page=&per_page=
func AdminListAuditLog(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 50)
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 200 {
		perPage = 50
	}

	q := storage.DB.Model(&models.AuditLog{})
	if action := ctx.URLParamDefault("action", ""); action != "" {
		q = q.Where("action = ?", action)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", "failed to count audit entries")
		return
	}

	var entries []models.AuditLog
	err := q.Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&entries).Error
	if err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", "failed to fetch audit entries")
		return
	}
	utils.JSONPage(ctx, entries, page, perPage, total)
}
