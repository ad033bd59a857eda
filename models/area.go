package models

import "time"

const (
	AreaStatusActive      = "ACTIVO"
	AreaStatusInactive    = "INACTIVO"
	AreaStatusMaintenance = "MANTENIMIENTO"
)

// CommonArea is a shared bookable facility (salón, piscina, cancha...).
// Only ACTIVO areas accept new reservations.
type CommonArea struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"size:120;uniqueIndex;not null"`
	Description string  `json:"description"`
	Capacity    int     `json:"capacity"`
	HourlyRate  float64 `json:"hourlyRate" gorm:"not null"`
	Status      string  `json:"status" gorm:"size:14;index;default:'ACTIVO'"`
	ImageURL    string  `json:"imageURL"`

	OpeningTime string `json:"openingTime" gorm:"size:5;default:'08:00'"`
	ClosingTime string `json:"closingTime" gorm:"size:5;default:'22:00'"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a *CommonArea) IsActive() bool {
	return a.Status == AreaStatusActive
}
