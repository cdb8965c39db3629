package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	AssignmentStatusActive     = "active"
	AssignmentStatusMovedOut   = "moved_out"
	AssignmentStatusTerminated = "terminated"

	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusOverdue = "overdue"
)

// RoomOccupant is the current occupant-to-room assignment. RoomID is the only
// relation the assignment operations mutate; prior rooms are reconstructable
// through AssignmentHistory, not through this row.
type RoomOccupant struct {
	gorm.Model

	RoomID uint `json:"roomId" gorm:"column:room_id;index"`

	ReferenceCode string `json:"referenceCode" gorm:"column:reference_code;size:64;uniqueIndex"`

	FullName string `json:"fullName" gorm:"size:255;not null"`
	Email    string `json:"email" gorm:"size:150"`
	Phone    string `json:"phone" gorm:"size:50"`

	// NumberOfOccupants counts toward room capacity as a single block
	// (a family of 3 takes 3 slots but is one row).
	NumberOfOccupants int `json:"numberOfOccupants" gorm:"column:number_of_occupants;default:1"`

	AssignmentStatus string `json:"assignmentStatus" gorm:"column:assignment_status;size:32;default:active;index"`
	PaymentStatus    string `json:"paymentStatus" gorm:"column:payment_status;size:32;default:pending"`

	MoveInDate  *time.Time `json:"moveInDate,omitempty" gorm:"column:move_in_date"`
	MoveOutDate *time.Time `json:"moveOutDate,omitempty" gorm:"column:move_out_date"`

	AssignedBy string     `json:"assignedBy" gorm:"column:assigned_by;size:150"`
	AssignedAt *time.Time `json:"assignedAt,omitempty" gorm:"column:assigned_at"`

	Room Room `json:"room,omitempty" gorm:"foreignKey:RoomID"`
}
