package models

import (
	"time"

	"gorm.io/datatypes"
)

// User roles as embedded in access tokens by the identity provider.
const (
	RoleResident = "resident"
	RoleAdmin    = "admin"
)

type User struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" gorm:"uniqueIndex;not null"`
	Phone     string `json:"phone" gorm:"size:20"`
	Unit      string `json:"unit" gorm:"size:20"` // apartment/house identifier
	Role      string `json:"role" gorm:"size:16;default:'resident'"`

	PushTokens          datatypes.JSON `json:"pushTokens"`
	AllowsNotifications *bool          `json:"allowsNotifications"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
