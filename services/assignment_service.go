// services/assignment_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"lodge-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AssignmentService owns the occupancy ledger: every mutation that changes
// which active occupants a room holds goes through here, as one transaction
// covering the occupant row, every affected room recompute and the history
// append.
type AssignmentService struct {
	DB *gorm.DB
}

func NewAssignmentService(db *gorm.DB) *AssignmentService {
	return &AssignmentService{DB: db}
}

// AvailabilityResult is a soft answer: Available=false with a Reason is the
// expected path, not an error.
type AvailabilityResult struct {
	Available        bool   `json:"available"`
	Reason           string `json:"reason,omitempty"`
	CurrentOccupants int    `json:"currentOccupants"`
	MaxOccupants     int    `json:"maxOccupants"`
	AvailableSpace   int    `json:"availableSpace"`
}

// AssignmentResult is the value returned by assign/transfer/remove. Business
// rejections set Success=false + Message; only infrastructure failures come
// back as error.
type AssignmentResult struct {
	Success  bool                 `json:"success"`
	Message  string               `json:"message"`
	Occupant *models.RoomOccupant `json:"occupant,omitempty"`
}

// lockForUpdate takes a row lock on MySQL. sqlite (tests) has no FOR UPDATE;
// its single-writer model serializes writers anyway.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "mysql" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

func activeOccupantSum(tx *gorm.DB, roomID uint) (int, error) {
	var total int
	err := tx.Model(&models.RoomOccupant{}).
		Where("room_id = ? AND assignment_status = ?", roomID, models.AssignmentStatusActive).
		Select("COALESCE(SUM(number_of_occupants), 0)").
		Scan(&total).Error
	return total, err
}

// availabilityOf answers whether the room can take `required` more heads.
// Capacity is evaluated before status so a full room reports
// "Insufficient capacity" rather than "Room is occupied".
func (s *AssignmentService) availabilityOf(tx *gorm.DB, room models.Room, required int) (AvailabilityResult, error) {
	if required < 1 {
		required = 1
	}

	current, err := activeOccupantSum(tx, room.ID)
	if err != nil {
		return AvailabilityResult{}, err
	}

	res := AvailabilityResult{
		CurrentOccupants: current,
		MaxOccupants:     room.MaxOccupants,
		AvailableSpace:   room.MaxOccupants - current,
	}

	if res.AvailableSpace < required {
		res.Reason = "Insufficient capacity"
		return res, nil
	}
	if room.Status != models.RoomStatusAvailable {
		res.Reason = fmt.Sprintf("Room is %s", room.Status)
		return res, nil
	}

	res.Available = true
	return res, nil
}

// CheckAvailability is the pure read-side check. Never fails on business
// conditions: a missing room yields Available=false, Reason="Room not found".
func (s *AssignmentService) CheckAvailability(roomID uint, requiredCapacity int) (AvailabilityResult, error) {
	var room models.Room
	if err := s.DB.First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AvailabilityResult{Reason: "Room not found"}, nil
		}
		return AvailabilityResult{}, err
	}
	return s.availabilityOf(s.DB, room, requiredCapacity)
}

// UpdateRoomOccupancy recomputes the room's derived fields from its active
// occupants. Idempotent. Only the available/occupied pair is occupancy-driven;
// maintenance and reserved stay as set until changed by hand.
func (s *AssignmentService) UpdateRoomOccupancy(tx *gorm.DB, roomID uint) error {
	var room models.Room
	if err := tx.First(&room, roomID).Error; err != nil {
		return err
	}

	current, err := activeOccupantSum(tx, roomID)
	if err != nil {
		return err
	}

	status := room.Status
	switch room.Status {
	case models.RoomStatusMaintenance, models.RoomStatusReserved:
		// manual statuses are not occupancy-derived
	default:
		if current >= room.MaxOccupants {
			status = models.RoomStatusOccupied
		} else {
			status = models.RoomStatusAvailable
		}
	}

	return tx.Model(&models.Room{}).
		Where("id = ?", roomID).
		Updates(map[string]interface{}{
			"current_occupants": current,
			"status":            status,
		}).Error
}

func (s *AssignmentService) appendHistory(tx *gorm.DB, entry models.AssignmentHistory) error {
	if entry.EffectiveDate.IsZero() {
		entry.EffectiveDate = time.Now().UTC()
	}
	return tx.Create(&entry).Error
}

// AssignOccupant binds an existing occupant to a room. Capacity is
// re-validated inside the transaction on the locked room row, so two racing
// assigns to the last slot cannot both commit.
func (s *AssignmentService) AssignOccupant(occupantID, roomID uint, assignedBy, notes string) (AssignmentResult, error) {
	var result AssignmentResult

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var occupant models.RoomOccupant
		if err := tx.First(&occupant, occupantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				result = AssignmentResult{Message: "Occupant not found"}
				return nil
			}
			return err
		}

		var room models.Room
		if err := lockForUpdate(tx).First(&room, roomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				result = AssignmentResult{Message: "Room not found"}
				return nil
			}
			return err
		}

		check, err := s.availabilityOf(tx, room, occupant.NumberOfOccupants)
		if err != nil {
			return err
		}
		if !check.Available {
			result = AssignmentResult{Message: check.Reason}
			return nil
		}

		prevRoomID := occupant.RoomID
		now := time.Now().UTC()

		if err := tx.Model(&occupant).Updates(map[string]interface{}{
			"room_id":           roomID,
			"assignment_status": models.AssignmentStatusActive,
			"assigned_by":       assignedBy,
			"assigned_at":       now,
		}).Error; err != nil {
			return err
		}

		if err := s.UpdateRoomOccupancy(tx, roomID); err != nil {
			return err
		}
		// re-assigning an already housed occupant must not leave the vacated
		// room's counters stale
		if prevRoomID != 0 && prevRoomID != roomID {
			if err := s.UpdateRoomOccupancy(tx, prevRoomID); err != nil {
				return err
			}
		}

		oid := occupant.ID
		if err := s.appendHistory(tx, models.AssignmentHistory{
			RoomID:     roomID,
			OccupantID: &oid,
			PropertyID: room.PropertyID,
			Action:     models.HistoryActionAssigned,
			AssignedBy: assignedBy,
			Notes:      notes,
		}); err != nil {
			return err
		}

		if err := tx.First(&occupant, occupant.ID).Error; err != nil {
			return err
		}
		result = AssignmentResult{Success: true, Message: "Occupant assigned successfully", Occupant: &occupant}
		return nil
	})

	if txErr != nil {
		log.Printf("❌ AssignOccupant failed: %v", txErr)
		return AssignmentResult{}, txErr
	}
	return result, nil
}

// TransferOccupant moves an occupant to another room. The vacated room is
// derived from the occupant row before mutation, never trusted from the
// caller, so its counters always get recomputed.
func (s *AssignmentService) TransferOccupant(occupantID, toRoomID uint, assignedBy, reason, notes string) (AssignmentResult, error) {
	var result AssignmentResult

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var occupant models.RoomOccupant
		if err := tx.First(&occupant, occupantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				result = AssignmentResult{Message: "Occupant not found"}
				return nil
			}
			return err
		}

		if occupant.RoomID == toRoomID {
			result = AssignmentResult{Message: "Occupant is already assigned to this room"}
			return nil
		}

		var toRoom models.Room
		if err := lockForUpdate(tx).First(&toRoom, toRoomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				result = AssignmentResult{Message: "Room not found"}
				return nil
			}
			return err
		}

		check, err := s.availabilityOf(tx, toRoom, occupant.NumberOfOccupants)
		if err != nil {
			return err
		}
		if !check.Available {
			result = AssignmentResult{Message: check.Reason}
			return nil
		}

		fromRoomID := occupant.RoomID
		now := time.Now().UTC()

		if err := tx.Model(&occupant).Updates(map[string]interface{}{
			"room_id":     toRoomID,
			"assigned_by": assignedBy,
			"assigned_at": now,
		}).Error; err != nil {
			return err
		}

		if fromRoomID != 0 {
			if err := s.UpdateRoomOccupancy(tx, fromRoomID); err != nil {
				return err
			}
		}
		if err := s.UpdateRoomOccupancy(tx, toRoomID); err != nil {
			return err
		}

		oid := occupant.ID
		if err := s.appendHistory(tx, models.AssignmentHistory{
			RoomID:     toRoomID,
			OccupantID: &oid,
			PropertyID: toRoom.PropertyID,
			Action:     models.HistoryActionTransferred,
			AssignedBy: assignedBy,
			Reason:     reason,
			Notes:      notes,
		}); err != nil {
			return err
		}

		if err := tx.First(&occupant, occupant.ID).Error; err != nil {
			return err
		}
		result = AssignmentResult{Success: true, Message: "Occupant transferred successfully", Occupant: &occupant}
		return nil
	})

	if txErr != nil {
		log.Printf("❌ TransferOccupant failed: %v", txErr)
		return AssignmentResult{}, txErr
	}
	return result, nil
}

// RemoveOccupant ends an assignment. The row is kept (soft state change to
// moved_out) so history and financial reporting still see it.
func (s *AssignmentService) RemoveOccupant(occupantID uint, reason, assignedBy string) (AssignmentResult, error) {
	var result AssignmentResult

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var occupant models.RoomOccupant
		if err := tx.First(&occupant, occupantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				result = AssignmentResult{Message: "Occupant not found"}
				return nil
			}
			return err
		}

		if occupant.AssignmentStatus != models.AssignmentStatusActive {
			result = AssignmentResult{Message: "Occupant is not active"}
			return nil
		}

		roomID := occupant.RoomID
		now := time.Now().UTC()

		if err := tx.Model(&occupant).Updates(map[string]interface{}{
			"assignment_status": models.AssignmentStatusMovedOut,
			"move_out_date":     now,
		}).Error; err != nil {
			return err
		}

		var propertyID uint
		if roomID != 0 {
			var room models.Room
			if err := tx.First(&room, roomID).Error; err != nil {
				return err
			}
			propertyID = room.PropertyID
			if err := s.UpdateRoomOccupancy(tx, roomID); err != nil {
				return err
			}
		}

		oid := occupant.ID
		if err := s.appendHistory(tx, models.AssignmentHistory{
			RoomID:     roomID,
			OccupantID: &oid,
			PropertyID: propertyID,
			Action:     models.HistoryActionUnassigned,
			AssignedBy: assignedBy,
			Reason:     reason,
		}); err != nil {
			return err
		}

		if err := tx.First(&occupant, occupant.ID).Error; err != nil {
			return err
		}
		result = AssignmentResult{Success: true, Message: "Occupant removed successfully", Occupant: &occupant}
		return nil
	})

	if txErr != nil {
		log.Printf("❌ RemoveOccupant failed: %v", txErr)
		return AssignmentResult{}, txErr
	}
	return result, nil
}
