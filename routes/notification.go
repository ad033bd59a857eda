package routes

import (
	"net/http"
	"time"

	"condominio-server/models"
	"condominio-server/storage"
	"condominio-server/utils"

	"github.com/kataras/iris/v12"
)

// GET /api/notifications
func GetMyNotifications(ctx iris.Context) {
	userID, ok := requestUserID(ctx)
	if !ok {
		return
	}

	q := storage.DB.Where("user_id = ?", userID)
	if ctx.URLParamDefault("unread", "") == "true" {
		q = q.Where("is_read = ?", false)
	}

	var notifications []models.Notification
	if err := q.Order("created_at DESC").Limit(100).Find(&notifications).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", "failed to fetch notifications")
		return
	}
	ctx.JSON(iris.Map{"data": notifications})
}

// POST /api/notifications/{id}/read
func MarkNotificationRead(ctx iris.Context) {
	userID, ok := requestUserID(ctx)
	if !ok {
		return
	}
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid notification id")
		return
	}

	now := time.Now()
	result := storage.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{"is_read": true, "read_at": &now})
	if result.Error != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", "failed to mark notification")
		return
	}
	if result.RowsAffected == 0 {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "notification not found")
		return
	}
	ctx.JSON(iris.Map{"ok": true})
}
