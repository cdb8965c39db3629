package models

import (
	"time"
)

const (
	HistoryActionAssigned      = "assigned"
	HistoryActionUnassigned    = "unassigned"
	HistoryActionTransferred   = "transferred"
	HistoryActionStatusChanged = "status_changed"
	HistoryActionCreated       = "created"
)

// AssignmentHistory is the append-only audit trail of every
// assignment-affecting action. Rows are never updated or deleted.
type AssignmentHistory struct {
	ID uint `gorm:"primaryKey" json:"id"`

	RoomID uint `json:"roomId" gorm:"column:room_id;index;not null"`

	// OccupantID is nullable: room-creation events have no occupant.
	OccupantID *uint `json:"occupantId,omitempty" gorm:"column:occupant_id;index"`

	PropertyID uint `json:"propertyId" gorm:"column:property_id;index"`

	Action string `json:"action" gorm:"size:32;not null"`

	FromStatus string `json:"fromStatus,omitempty" gorm:"column:from_status;size:32"`
	ToStatus   string `json:"toStatus,omitempty" gorm:"column:to_status;size:32"`

	AssignedBy string `json:"assignedBy" gorm:"column:assigned_by;size:150"`
	Reason     string `json:"reason" gorm:"size:255"`
	Notes      string `json:"notes" gorm:"type:text"`

	EffectiveDate time.Time `json:"effectiveDate" gorm:"column:effective_date"`
	CreatedAt     time.Time `json:"createdAt"`
}
