package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RoomStatusAvailable   = "available"
	RoomStatusOccupied    = "occupied"
	RoomStatusMaintenance = "maintenance"
	RoomStatusReserved    = "reserved"
)

type Room struct {
	gorm.Model

	PropertyID uint `json:"propertyId" gorm:"column:property_id;uniqueIndex:idx_property_room;not null"`

	// RoomPrefix + RoomNumber form the room identifier, unique within a property
	// (e.g. "A" + "12" -> "A12").
	RoomPrefix string `json:"roomPrefix" gorm:"column:room_prefix;size:10"`
	RoomNumber string `json:"roomNumber" gorm:"column:room_number;size:50;uniqueIndex:idx_property_room"`

	Status string `json:"status" gorm:"size:32;default:available"`

	MaxOccupants int `json:"maxOccupants" gorm:"column:max_occupants;default:1"`

	// CurrentOccupants is derived from active occupants and owned by the
	// occupancy recompute; never user-writable.
	CurrentOccupants int `json:"currentOccupants" gorm:"column:current_occupants;default:0"`

	YearlyRent float64 `json:"yearlyRent" gorm:"column:yearly_rent"`
	RoomType   string  `json:"roomType" gorm:"column:room_type;size:64"`

	Amenities datatypes.JSON `json:"amenities,omitempty" gorm:"column:amenities"`

	Floor       string  `json:"floor" gorm:"type:varchar(10)"`
	Size        float64 `json:"size"`
	HasBathroom bool    `json:"hasBathroom" gorm:"column:has_bathroom;default:false"`
	HasKitchen  bool    `json:"hasKitchen" gorm:"column:has_kitchen;default:false"`
	Description string  `json:"description" gorm:"type:text"`

	Property Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
}

// Identifier returns the display identifier, e.g. "A12".
func (r Room) Identifier() string {
	return r.RoomPrefix + r.RoomNumber
}
