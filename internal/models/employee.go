package models

import (
	"time"

	"gorm.io/gorm"
)

// Employee represents a team member shown on the public teams page.
// ProfilePicture is a single optional slot, replaced wholesale on
// update; it is never patched field by field.
type Employee struct {
	ID             string         `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	FirstName      string         `json:"first_name" validate:"required"`
	LastName       string         `json:"last_name" validate:"required"`
	Email          string         `json:"email" validate:"omitempty,email"`
	Telephone      string         `json:"telephone"`
	Role           LocalizedText  `json:"role" gorm:"embedded;embeddedPrefix:role_"`
	Department     LocalizedText  `json:"department" gorm:"embedded;embeddedPrefix:department_"`
	ProfilePicture *ImageRef      `json:"profilePicture" gorm:"serializer:json"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}
