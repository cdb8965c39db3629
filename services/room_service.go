// services/room_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"lodge-backend/models"

	"gorm.io/gorm"
)

type RoomService struct {
	DB          *gorm.DB
	assignments *AssignmentService
}

func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{DB: db, assignments: NewAssignmentService(db)}
}

// Create inserts a room and appends the room-creation history record (no
// occupant) in the same transaction.
func (s *RoomService) Create(room *models.Room, createdBy string) error {
	room.RoomNumber = strings.TrimSpace(room.RoomNumber)
	room.RoomPrefix = strings.TrimSpace(room.RoomPrefix)
	if room.RoomNumber == "" {
		return errors.New("room number is required")
	}
	if room.MaxOccupants < 1 {
		room.MaxOccupants = 1
	}
	if room.Status == "" {
		room.Status = models.RoomStatusAvailable
	}
	room.CurrentOccupants = 0

	var property models.Property
	if err := s.DB.First(&property, room.PropertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("property %d not found", room.PropertyID)
		}
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(room).Error; err != nil {
			return err
		}
		return s.assignments.appendHistory(tx, models.AssignmentHistory{
			RoomID:     room.ID,
			PropertyID: room.PropertyID,
			Action:     models.HistoryActionCreated,
			ToStatus:   room.Status,
			AssignedBy: createdBy,
		})
	})
}

func (s *RoomService) GetAll() ([]models.Room, error) {
	var rooms []models.Room
	err := s.DB.Preload("Property").Order("property_id ASC, room_number ASC").Find(&rooms).Error
	return rooms, err
}

func (s *RoomService) GetByProperty(propertyID uint) ([]models.Room, error) {
	var rooms []models.Room
	err := s.DB.Where("property_id = ?", propertyID).Order("room_number ASC").Find(&rooms).Error
	return rooms, err
}

func (s *RoomService) GetByID(id uint) (*models.Room, error) {
	var room models.Room
	if err := s.DB.Preload("Property").First(&room, id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

// Update applies physical/pricing edits. The ledger owns current_occupants
// and status; those go through the assignment service and UpdateStatus.
func (s *RoomService) Update(id uint, updates map[string]interface{}) error {
	delete(updates, "id")
	delete(updates, "status")
	delete(updates, "current_occupants")
	delete(updates, "currentOccupants")
	delete(updates, "property_id")
	delete(updates, "propertyId")
	delete(updates, "created_at")
	delete(updates, "updated_at")
	delete(updates, "deleted_at")

	if len(updates) == 0 {
		return nil
	}
	return s.DB.Model(&models.Room{}).Where("id = ?", id).Updates(updates).Error
}

func (s *RoomService) Delete(id uint) (int64, error) {
	res := s.DB.Delete(&models.Room{}, id)
	return res.RowsAffected, res.Error
}

// UpdateStatus handles manual status changes (maintenance, reserved, back to
// available). "occupied" is ledger-derived and cannot be set by hand; setting
// "available" runs a recompute so a full room settles back to occupied.
func (s *RoomService) UpdateStatus(roomID uint, status, actor, reason string) (AssignmentResult, error) {
	switch status {
	case models.RoomStatusAvailable, models.RoomStatusMaintenance, models.RoomStatusReserved:
	default:
		return AssignmentResult{Message: fmt.Sprintf("Status %q cannot be set manually", status)}, nil
	}

	var result AssignmentResult
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := lockForUpdate(tx).First(&room, roomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				result = AssignmentResult{Message: "Room not found"}
				return nil
			}
			return err
		}

		fromStatus := room.Status
		if err := tx.Model(&models.Room{}).Where("id = ?", roomID).
			Update("status", status).Error; err != nil {
			return err
		}

		if status == models.RoomStatusAvailable {
			if err := s.assignments.UpdateRoomOccupancy(tx, roomID); err != nil {
				return err
			}
		}

		var updated models.Room
		if err := tx.First(&updated, roomID).Error; err != nil {
			return err
		}

		if err := s.assignments.appendHistory(tx, models.AssignmentHistory{
			RoomID:     roomID,
			PropertyID: room.PropertyID,
			Action:     models.HistoryActionStatusChanged,
			FromStatus: fromStatus,
			ToStatus:   updated.Status,
			AssignedBy: actor,
			Reason:     reason,
		}); err != nil {
			return err
		}

		result = AssignmentResult{Success: true, Message: "Room status updated"}
		return nil
	})

	if txErr != nil {
		log.Printf("❌ RoomService.UpdateStatus failed: %v", txErr)
		return AssignmentResult{}, txErr
	}
	return result, nil
}

// RoomAvailabilityView annotates a room with space computed from its active
// occupants (not the cached counter).
type RoomAvailabilityView struct {
	models.Room
	ActiveOccupants int `json:"activeOccupants"`
	AvailableSpace  int `json:"availableSpace"`
}

// ListWithAvailability is the read-side room listing. propertyID 0 means all
// properties.
func (s *RoomService) ListWithAvailability(propertyID uint) ([]RoomAvailabilityView, error) {
	var rooms []models.Room
	q := s.DB.Preload("Property").Order("property_id ASC, room_number ASC")
	if propertyID != 0 {
		q = q.Where("property_id = ?", propertyID)
	}
	if err := q.Find(&rooms).Error; err != nil {
		return nil, err
	}

	type roomSum struct {
		RoomID uint
		Total  int
	}
	var sums []roomSum
	if err := s.DB.Model(&models.RoomOccupant{}).
		Select("room_id, COALESCE(SUM(number_of_occupants), 0) AS total").
		Where("assignment_status = ?", models.AssignmentStatusActive).
		Group("room_id").
		Scan(&sums).Error; err != nil {
		return nil, err
	}
	byRoom := make(map[uint]int, len(sums))
	for _, rs := range sums {
		byRoom[rs.RoomID] = rs.Total
	}

	views := make([]RoomAvailabilityView, 0, len(rooms))
	for _, room := range rooms {
		active := byRoom[room.ID]
		views = append(views, RoomAvailabilityView{
			Room:            room,
			ActiveOccupants: active,
			AvailableSpace:  room.MaxOccupants - active,
		})
	}
	return views, nil
}

// RoomOccupancyView joins a room with its active occupants.
type RoomOccupancyView struct {
	Room           models.Room           `json:"room"`
	Occupants      []models.RoomOccupant `json:"occupants"`
	AvailableSpace int                   `json:"availableSpace"`
}

// RoomsWithOccupancy returns the property + active-occupant summary view.
func (s *RoomService) RoomsWithOccupancy(propertyID uint) ([]RoomOccupancyView, error) {
	var rooms []models.Room
	q := s.DB.Preload("Property").Order("property_id ASC, room_number ASC")
	if propertyID != 0 {
		q = q.Where("property_id = ?", propertyID)
	}
	if err := q.Find(&rooms).Error; err != nil {
		return nil, err
	}

	roomIDs := make([]uint, 0, len(rooms))
	for _, room := range rooms {
		roomIDs = append(roomIDs, room.ID)
	}

	var occupants []models.RoomOccupant
	if len(roomIDs) > 0 {
		if err := s.DB.
			Where("room_id IN ? AND assignment_status = ?", roomIDs, models.AssignmentStatusActive).
			Order("id ASC").
			Find(&occupants).Error; err != nil {
			return nil, err
		}
	}
	byRoom := make(map[uint][]models.RoomOccupant, len(rooms))
	for _, occ := range occupants {
		byRoom[occ.RoomID] = append(byRoom[occ.RoomID], occ)
	}

	views := make([]RoomOccupancyView, 0, len(rooms))
	for _, room := range rooms {
		occs := byRoom[room.ID]
		if occs == nil {
			occs = []models.RoomOccupant{}
		}
		active := 0
		for _, occ := range occs {
			active += occ.NumberOfOccupants
		}
		views = append(views, RoomOccupancyView{
			Room:           room,
			Occupants:      occs,
			AvailableSpace: room.MaxOccupants - active,
		})
	}
	return views, nil
}
