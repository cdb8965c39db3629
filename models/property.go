package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	PropertyTypeLodge      = "lodge"
	PropertyTypeStandalone = "standalone"

	PropertyStatusActive   = "active"
	PropertyStatusInactive = "inactive"
)

type Property struct {
	gorm.Model

	Name    string `json:"name" gorm:"size:255;not null"`
	Type    string `json:"type" gorm:"size:32;default:lodge"`
	Address string `json:"address" gorm:"type:text"`
	Status  string `json:"status" gorm:"size:32;default:active"`

	Description string `json:"description" gorm:"type:text"`

	// Features is a JSON list of strings (e.g. ["borehole","backup power"]).
	// Serialized only at the persistence boundary.
	Features datatypes.JSON `json:"features,omitempty" gorm:"column:features"`

	Rooms []Room `json:"rooms,omitempty" gorm:"foreignKey:PropertyID"`
}
