package models

import "time"

// Reservation lifecycle states. PENDIENTE is the initial state; CANCELADA,
// COMPLETADA and RECHAZADA are terminal.
const (
	ReservationPending   = "PENDIENTE"
	ReservationConfirmed = "CONFIRMADA"
	ReservationCancelled = "CANCELADA"
	ReservationCompleted = "COMPLETADA"
	ReservationRejected  = "RECHAZADA"
)

// Purpose categories. Stored for reporting only, no engine logic depends on them.
const (
	PurposePersonal = "uso_personal"
	PurposeEvent    = "evento"
	PurposeMeeting  = "reunion"
	PurposeSport    = "deporte"
	PurposeOther    = "otro"
)

type Reservation struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	AreaID      uint       `json:"areaID" gorm:"not null;index:idx_reservations_area_date"`
	Area        CommonArea `json:"area" gorm:"foreignKey:AreaID"`
	RequesterID uint       `json:"requesterID" gorm:"not null;index"`
	Requester   User       `json:"requester" gorm:"foreignKey:RequesterID"`

	Date      string `json:"date" gorm:"size:10;not null;index:idx_reservations_area_date"` // YYYY-MM-DD
	StartTime string `json:"startTime" gorm:"size:5;not null"`                              // HH:MM
	EndTime   string `json:"endTime" gorm:"size:5;not null"`

	Purpose   string `json:"purpose" gorm:"size:20"`
	Motive    string `json:"motive" gorm:"size:200"`
	PartySize int    `json:"partySize" gorm:"not null"`

	Status string `json:"status" gorm:"size:12;index"`

	// TotalCost is derived from the area's hourly rate at creation time and is
	// never recomputed, even if the rate later changes.
	TotalCost float64 `json:"totalCost"`

	AdminNote string     `json:"adminNote" gorm:"size:1000"`
	DecidedBy *uint      `json:"decidedBy"`
	DecidedAt *time.Time `json:"decidedAt"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
