package routes

import (
	"net/http"
	"time"

	"condominio-server/booking"
	"condominio-server/models"
	"condominio-server/storage"
	"condominio-server/utils"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/kataras/iris/v12"
)

// GET /api/area
func GetAreas(ctx iris.Context) {
	q := storage.DB.Order("name ASC")
	if status := ctx.URLParamDefault("status", ""); status != "" {
		q = q.Where("status = ?", status)
	}
	var areas []models.CommonArea
	if err := q.Find(&areas).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", "failed to fetch areas")
		return
	}
	ctx.JSON(iris.Map{"data": areas})
}

// GET /api/area/{id}
func GetArea(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid area id")
		return
	}
	var area models.CommonArea
	if err := storage.DB.First(&area, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "area not found")
		return
	}
	ctx.JSON(iris.Map{"data": area})
}

// GET /api/area/{id}/occupied?date=YYYY-MM-DD
// Lists the taken "HH:MM a HH:MM" slots for a day, served from the redis day
// cache when warm.
func GetAreaOccupied(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid area id")
		return
	}
	date := ctx.URLParamDefault("date", "")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_request", "date must be YYYY-MM-DD")
		return
	}

	if cached, ok := storage.CachedOccupiedRanges(ctx.Request().Context(), id, date); ok {
		ctx.JSON(iris.Map{"date": date, "occupied": cached})
		return
	}

	ranges, err := Booking.Availability().OccupiedRanges(ctx.Request().Context(), id, date)
	if err != nil {
		writeEngineError(ctx, err)
		return
	}
	occupied := make([]string, 0, len(ranges))
	for _, r := range ranges {
		occupied = append(occupied, r.String())
	}
	storage.StoreOccupiedRanges(ctx.Request().Context(), id, date, occupied)
	ctx.JSON(iris.Map{"date": date, "occupied": occupied})
}

// GET /api/area/available?date=YYYY-MM-DD
// Active areas with their occupied slots for the day.
func GetAvailableAreas(ctx iris.Context) {
	date := ctx.URLParamDefault("date", "")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_request", "date must be YYYY-MM-DD")
		return
	}

	var areas []models.CommonArea
	if err := storage.DB.Where("status = ?", models.AreaStatusActive).Order("name ASC").Find(&areas).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", "failed to fetch areas")
		return
	}

	type areaAvailability struct {
		Area     models.CommonArea `json:"area"`
		Occupied []string          `json:"occupied"`
	}
	out := make([]areaAvailability, 0, len(areas))
	for _, area := range areas {
		occupied, ok := storage.CachedOccupiedRanges(ctx.Request().Context(), area.ID, date)
		if !ok {
			ranges, err := Booking.Availability().OccupiedRanges(ctx.Request().Context(), area.ID, date)
			if err != nil {
				writeEngineError(ctx, err)
				return
			}
			occupied = make([]string, 0, len(ranges))
			for _, r := range ranges {
				occupied = append(occupied, r.String())
			}
			storage.StoreOccupiedRanges(ctx.Request().Context(), area.ID, date, occupied)
		}
		out = append(out, areaAvailability{Area: area, Occupied: occupied})
	}
	ctx.JSON(iris.Map{"date": date, "data": out})
}

type AreaInput struct {
	Name        string  `json:"name" validate:"required,max=120"`
	Description string  `json:"description"`
	Capacity    int     `json:"capacity" validate:"min=0"`
	HourlyRate  float64 `json:"hourlyRate" validate:"min=0"`
	OpeningTime string  `json:"openingTime"`
	ClosingTime string  `json:"closingTime"`
}

func validAreaHours(opening, closing string) bool {
	if opening == "" && closing == "" {
		return true
	}
	_, err := booking.NewTimeRange(opening, closing)
	return err == nil
}

// POST /api/admin/areas
func AdminCreateArea(ctx iris.Context) {
	var input AreaInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if !validAreaHours(input.OpeningTime, input.ClosingTime) {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_request", "opening hours must be a valid HH:MM range")
		return
	}

	area := models.CommonArea{
		Name:        input.Name,
		Description: input.Description,
		Capacity:    input.Capacity,
		HourlyRate:  input.HourlyRate,
		Status:      models.AreaStatusActive,
		OpeningTime: input.OpeningTime,
		ClosingTime: input.ClosingTime,
	}
	if err := storage.DB.Create(&area).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", "failed to create area")
		return
	}
	utils.Audit(ctx, "area.create", "area", area.ID, nil, area)
	ctx.StatusCode(http.StatusCreated)
	ctx.JSON(iris.Map{"data": area})
}

// PUT /api/admin/areas/{id}
// Rate changes only affect reservations created afterwards: existing rows keep
// the cost computed at creation.
func AdminUpdateArea(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid area id")
		return
	}
	var area models.CommonArea
	if err := storage.DB.First(&area, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "area not found")
		return
	}

	var input AreaInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if !validAreaHours(input.OpeningTime, input.ClosingTime) {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_request", "opening hours must be a valid HH:MM range")
		return
	}

	before := area
	area.Name = input.Name
	area.Description = input.Description
	area.Capacity = input.Capacity
	area.HourlyRate = input.HourlyRate
	if input.OpeningTime != "" {
		area.OpeningTime = input.OpeningTime
	}
	if input.ClosingTime != "" {
		area.ClosingTime = input.ClosingTime
	}
	if err := storage.DB.Save(&area).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", "failed to update area")
		return
	}
	utils.Audit(ctx, "area.update", "area", area.ID, before, area)
	ctx.JSON(iris.Map{"data": area})
}

// PATCH /api/admin/areas/{id}/status { status }
// Flipping an area out of ACTIVO blocks new bookings and approvals; existing
// confirmed reservations are left untouched.
func AdminUpdateAreaStatus(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid area id")
		return
	}

	var body struct {
		Status string `json:"status" validate:"required,oneof=ACTIVO INACTIVO MANTENIMIENTO"`
	}
	if err := ctx.ReadJSON(&body); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var area models.CommonArea
	if err := storage.DB.First(&area, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "area not found")
		return
	}

	before := area
	area.Status = body.Status
	if err := storage.DB.Save(&area).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", "failed to update area status")
		return
	}
	utils.Audit(ctx, "area.status", "area", area.ID, before, area)
	ctx.JSON(iris.Map{"data": area})
}

// POST /api/admin/areas/{id}/image (multipart, field "image")
func AdminUploadAreaImage(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid area id")
		return
	}
	if storage.Cloudinary == nil {
		utils.JSONError(ctx, http.StatusServiceUnavailable, "uploads_disabled", "image uploads are not configured")
		return
	}

	var area models.CommonArea
	if err := storage.DB.First(&area, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "area not found")
		return
	}

	file, _, err := ctx.FormFile("image")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_request", "missing image file")
		return
	}
	defer file.Close()

	result, err := storage.Cloudinary.Upload.Upload(ctx.Request().Context(), file, uploader.UploadParams{
		Folder: "areas",
	})
	if err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "upload_failed", "failed to upload image")
		return
	}

	area.ImageURL = result.SecureURL
	if err := storage.DB.Save(&area).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", "failed to save image url")
		return
	}
	utils.Audit(ctx, "area.image", "area", area.ID, nil, iris.Map{"imageURL": area.ImageURL})
	ctx.JSON(iris.Map{"data": area})
}
