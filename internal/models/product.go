package models

import (
	"time"

	"gorm.io/gorm"
)

// LocalizedText is a bilingual EN/DE string pair, stored as two columns
// via GORM's embedded struct support.
type LocalizedText struct {
	EN string `json:"en" validate:"required"`
	DE string `json:"de" validate:"required"`
}

// LightOption is the constrained EN/DE light-requirement pair. The DE
// value is derived from the EN value (see PairedLight); there is no
// reverse sync from DE.
type LightOption struct {
	EN string `json:"en" validate:"required,oneof=sun half-shadow shadow"`
	DE string `json:"de" validate:"omitempty,oneof=sonne halb-schatten schatten"`
}

var lightPairs = map[string]string{
	"sun":         "sonne",
	"half-shadow": "halb-schatten",
	"shadow":      "schatten",
}

// PairedLight returns the DE string paired with the given EN light
// option, and whether the EN value is a known option.
func PairedLight(en string) (string, bool) {
	de, ok := lightPairs[en]
	return de, ok
}

// MaxProductImages is the authoritative cap on a product's image list,
// enforced on create, update and the add-images endpoint.
const MaxProductImages = 6

// Product represents a plant in the catalog.
//
// Height, Diameter and Hardiness are free-form strings by contract:
// either a single number or a "<min>-<max>" range (e.g. "10-20"). They
// are validated only as non-empty; existing data relies on the
// free-form shape, so they are never parsed as numbers.
type Product struct {
	ID          string         `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	CommonName  LocalizedText  `json:"common_name" gorm:"embedded;embeddedPrefix:common_name_"`
	Description LocalizedText  `json:"description" gorm:"embedded;embeddedPrefix:description_"`
	Height      string         `json:"height" validate:"required"`
	Diameter    string         `json:"diameter" validate:"required"`
	Hardiness   string         `json:"hardiness" validate:"required"`
	Light       LightOption    `json:"light" gorm:"embedded;embeddedPrefix:light_"`
	Color       string         `json:"color" validate:"omitempty,hexcolor"`
	Images      ImageList      `json:"images" gorm:"serializer:json" validate:"required,min=1,max=6,dive"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}
