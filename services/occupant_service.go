// services/occupant_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"lodge-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OccupantService struct {
	DB          *gorm.DB
	assignments *AssignmentService
}

func NewOccupantService(db *gorm.DB) *OccupantService {
	return &OccupantService{DB: db, assignments: NewAssignmentService(db)}
}

// CreateOccupant is the tenant-registration entry point: the target room must
// pass the availability check for the new occupant's headcount before any row
// is written. On success the occupant is created active, the room recomputed
// and a history record appended, all in one transaction.
func (s *OccupantService) CreateOccupant(occupant *models.RoomOccupant, assignedBy string) (AssignmentResult, error) {
	var result AssignmentResult

	if occupant.NumberOfOccupants < 1 {
		occupant.NumberOfOccupants = 1
	}

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := lockForUpdate(tx).First(&room, occupant.RoomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				result = AssignmentResult{Message: "Room not found"}
				return nil
			}
			return err
		}

		check, err := s.assignments.availabilityOf(tx, room, occupant.NumberOfOccupants)
		if err != nil {
			return err
		}
		if !check.Available {
			result = AssignmentResult{Message: check.Reason}
			return nil
		}

		now := time.Now().UTC()
		occupant.AssignmentStatus = models.AssignmentStatusActive
		occupant.AssignedBy = assignedBy
		occupant.AssignedAt = &now
		if occupant.MoveInDate == nil {
			occupant.MoveInDate = &now
		}
		if occupant.PaymentStatus == "" {
			occupant.PaymentStatus = models.PaymentStatusPending
		}
		if occupant.ReferenceCode == "" {
			occupant.ReferenceCode = uuid.NewString()
		}

		if err := tx.Create(occupant).Error; err != nil {
			return err
		}

		if err := s.assignments.UpdateRoomOccupancy(tx, room.ID); err != nil {
			return err
		}

		oid := occupant.ID
		if err := s.assignments.appendHistory(tx, models.AssignmentHistory{
			RoomID:     room.ID,
			OccupantID: &oid,
			PropertyID: room.PropertyID,
			Action:     models.HistoryActionAssigned,
			AssignedBy: assignedBy,
			Reason:     "New tenant registration",
		}); err != nil {
			return err
		}

		result = AssignmentResult{Success: true, Message: "Occupant registered successfully", Occupant: occupant}
		return nil
	})

	if txErr != nil {
		log.Printf("❌ OccupantService.CreateOccupant failed: %v", txErr)
		return AssignmentResult{}, txErr
	}
	return result, nil
}

func (s *OccupantService) GetAll() ([]models.RoomOccupant, error) {
	var occupants []models.RoomOccupant
	err := s.DB.
		Preload("Room").
		Order("room_occupants.id DESC").
		Find(&occupants).Error
	if err != nil {
		log.Printf("⬅️ OccupantService.GetAll error: %v", err)
		return nil, err
	}
	return occupants, nil
}

func (s *OccupantService) GetByID(id uint) (*models.RoomOccupant, error) {
	var occupant models.RoomOccupant
	if err := s.DB.Preload("Room").First(&occupant, id).Error; err != nil {
		return nil, err
	}
	return &occupant, nil
}

// GetByRoom lists a room's occupants, active only unless includeAll is set.
func (s *OccupantService) GetByRoom(roomID uint, includeAll bool) ([]models.RoomOccupant, error) {
	var occupants []models.RoomOccupant
	q := s.DB.Where("room_id = ?", roomID)
	if !includeAll {
		q = q.Where("assignment_status = ?", models.AssignmentStatusActive)
	}
	err := q.Order("id ASC").Find(&occupants).Error
	return occupants, err
}

// Update applies contact-detail edits. Assignment state (room_id,
// assignment_status, move dates) belongs to the assignment operations and is
// stripped here.
func (s *OccupantService) Update(id uint, updates map[string]interface{}) error {
	delete(updates, "id")
	delete(updates, "room_id")
	delete(updates, "roomId")
	delete(updates, "assignment_status")
	delete(updates, "assignmentStatus")
	delete(updates, "reference_code")
	delete(updates, "referenceCode")
	delete(updates, "move_out_date")
	delete(updates, "created_at")
	delete(updates, "updated_at")
	delete(updates, "deleted_at")

	if len(updates) == 0 {
		return nil
	}
	return s.DB.Model(&models.RoomOccupant{}).Where("id = ?", id).Updates(updates).Error
}

// UpdatePaymentStatus is rent-status bookkeeping only; no payment processing.
func (s *OccupantService) UpdatePaymentStatus(id uint, status string) error {
	switch status {
	case models.PaymentStatusPending, models.PaymentStatusPaid, models.PaymentStatusOverdue:
	default:
		return fmt.Errorf("invalid payment status: %s", status)
	}

	res := s.DB.Model(&models.RoomOccupant{}).Where("id = ?", id).Update("payment_status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
