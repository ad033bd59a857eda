package services

import (
	"encoding/json"
	"fmt"
	"log"

	"condominio-server/booking"
	"condominio-server/models"
	"condominio-server/storage"
	"condominio-server/utils"
)

// NotificationService turns reservation events into stored notifications plus
// best-effort push and email delivery. It implements booking.Notifier.
type NotificationService struct{}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// Notify records an in-app notification for the requester and fires push and
// email delivery in the background. Failures are logged, never propagated:
// delivery must not affect the reservation outcome.
func (ns *NotificationService) Notify(res *models.Reservation, event string) {
	title, message := ns.messageFor(res, event)

	notification := models.Notification{
		UserID:  res.RequesterID,
		Type:    event,
		Title:   title,
		Message: message,
		RefType: "reservation",
		RefID:   res.ID,
	}
	if err := storage.DB.Create(&notification).Error; err != nil {
		log.Printf("failed to store notification for reservation %d: %v", res.ID, err)
	}

	go ns.sendPush(res, event, title, message)
	go ns.sendEmail(res, title, message)
}

func (ns *NotificationService) messageFor(res *models.Reservation, event string) (string, string) {
	var area models.CommonArea
	areaName := "el área común"
	if err := storage.DB.First(&area, res.AreaID).Error; err == nil {
		areaName = area.Name
	}
	slot := fmt.Sprintf("%s de %s a %s", res.Date, res.StartTime, res.EndTime)

	switch event {
	case booking.EventRequested:
		return "Reserva recibida",
			fmt.Sprintf("Tu solicitud para %s el %s quedó pendiente de aprobación. Costo: %.2f", areaName, slot, res.TotalCost)
	case booking.EventApproved:
		return "Reserva aprobada",
			fmt.Sprintf("Tu reserva de %s el %s fue aprobada.", areaName, slot)
	case booking.EventRejected:
		return "Reserva rechazada",
			fmt.Sprintf("Tu reserva de %s el %s fue rechazada. Motivo: %s", areaName, slot, res.AdminNote)
	case booking.EventCancelled:
		return "Reserva cancelada",
			fmt.Sprintf("Tu reserva de %s el %s fue cancelada.", areaName, slot)
	case booking.EventCompleted:
		return "Reserva completada",
			fmt.Sprintf("Tu reserva de %s el %s fue marcada como completada.", areaName, slot)
	default:
		return "Actualización de reserva",
			fmt.Sprintf("Tu reserva de %s el %s cambió de estado.", areaName, slot)
	}
}

func (ns *NotificationService) sendPush(res *models.Reservation, event, title, message string) {
	tokens, err := ns.userPushTokens(res.RequesterID)
	if err != nil {
		log.Printf("skipping push for reservation %d: %v", res.ID, err)
		return
	}

	data := map[string]string{
		"type":          event,
		"reservationId": fmt.Sprintf("%d", res.ID),
		"areaId":        fmt.Sprintf("%d", res.AreaID),
		"screen":        "Reservations",
	}
	for _, token := range tokens {
		if err := utils.SendNotification(token, title, message, data); err != nil {
			log.Printf("failed to push to token %s: %v", token, err)
		}
	}
}

func (ns *NotificationService) sendEmail(res *models.Reservation, title, message string) {
	var user models.User
	if err := storage.DB.First(&user, res.RequesterID).Error; err != nil {
		log.Printf("skipping email for reservation %d: user not found", res.ID)
		return
	}
	name := fmt.Sprintf("%s %s", user.FirstName, user.LastName)
	if err := utils.SendEmail(user.Email, name, title, message); err != nil {
		log.Printf("failed to email %s: %v", user.Email, err)
	}
}

func (ns *NotificationService) userPushTokens(userID uint) ([]string, error) {
	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}
	if user.AllowsNotifications == nil || !*user.AllowsNotifications || user.PushTokens == nil {
		return nil, fmt.Errorf("user %d has notifications disabled or no tokens", userID)
	}
	var tokens []string
	if err := json.Unmarshal(user.PushTokens, &tokens); err != nil {
		return nil, fmt.Errorf("unmarshal push tokens: %w", err)
	}
	return tokens, nil
}
