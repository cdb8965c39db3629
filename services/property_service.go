// services/property_service.go
package services

import (
	"errors"
	"log"
	"strings"

	"lodge-backend/models"

	"gorm.io/gorm"
)

type PropertyService struct {
	DB *gorm.DB
}

func NewPropertyService(db *gorm.DB) *PropertyService {
	return &PropertyService{DB: db}
}

func (s *PropertyService) Create(property *models.Property) error {
	property.Name = strings.TrimSpace(property.Name)
	if property.Name == "" {
		return errors.New("property name is required")
	}
	if property.Type == "" {
		property.Type = models.PropertyTypeLodge
	}
	if property.Status == "" {
		property.Status = models.PropertyStatusActive
	}
	return s.DB.Create(property).Error
}

func (s *PropertyService) GetAll() ([]models.Property, error) {
	var properties []models.Property
	err := s.DB.Order("name ASC").Find(&properties).Error
	return properties, err
}

func (s *PropertyService) GetByID(id uint) (*models.Property, error) {
	var property models.Property
	if err := s.DB.Preload("Rooms").First(&property, id).Error; err != nil {
		return nil, err
	}
	return &property, nil
}

func (s *PropertyService) Update(id uint, updates map[string]interface{}) error {
	delete(updates, "id")
	delete(updates, "created_at")
	delete(updates, "updated_at")
	delete(updates, "deleted_at")

	if len(updates) == 0 {
		return nil
	}
	return s.DB.Model(&models.Property{}).Where("id = ?", id).Updates(updates).Error
}

// Delete removes a property and cascades to its rooms in one transaction.
func (s *PropertyService) Delete(id uint) (int64, error) {
	var affected int64
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("property_id = ?", id).Delete(&models.Room{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Property{}, id)
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		return nil
	})
	if txErr != nil {
		log.Printf("❌ PropertyService.Delete failed: %v", txErr)
		return 0, txErr
	}
	return affected, nil
}

// PropertyStats aggregates occupancy and rent bookkeeping for the dashboard.
type PropertyStats struct {
	TotalRooms       int64   `json:"totalRooms"`
	AvailableRooms   int64   `json:"availableRooms"`
	OccupiedRooms    int64   `json:"occupiedRooms"`
	MaintenanceRooms int64   `json:"maintenanceRooms"`
	ReservedRooms    int64   `json:"reservedRooms"`
	TotalCapacity    int     `json:"totalCapacity"`
	TotalOccupants   int     `json:"totalOccupants"`
	OccupancyRate    float64 `json:"occupancyRate"`

	ExpectedYearlyRent float64 `json:"expectedYearlyRent"`

	PaymentsPending int64 `json:"paymentsPending"`
	PaymentsPaid    int64 `json:"paymentsPaid"`
	PaymentsOverdue int64 `json:"paymentsOverdue"`
}

// Stats computes the property dashboard. propertyID 0 aggregates across the
// whole office.
func (s *PropertyService) Stats(propertyID uint) (PropertyStats, error) {
	var stats PropertyStats

	roomsQ := func() *gorm.DB {
		q := s.DB.Model(&models.Room{})
		if propertyID != 0 {
			q = q.Where("property_id = ?", propertyID)
		}
		return q
	}

	if err := roomsQ().Count(&stats.TotalRooms).Error; err != nil {
		return stats, err
	}

	type statusCount struct {
		Status string
		N      int64
	}
	var byStatus []statusCount
	if err := roomsQ().
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		return stats, err
	}
	for _, sc := range byStatus {
		switch sc.Status {
		case models.RoomStatusAvailable:
			stats.AvailableRooms = sc.N
		case models.RoomStatusOccupied:
			stats.OccupiedRooms = sc.N
		case models.RoomStatusMaintenance:
			stats.MaintenanceRooms = sc.N
		case models.RoomStatusReserved:
			stats.ReservedRooms = sc.N
		}
	}

	type capacityRow struct {
		Capacity  int
		Occupants int
		Rent      float64
	}
	var totals capacityRow
	if err := roomsQ().
		Select("COALESCE(SUM(max_occupants), 0) AS capacity, COALESCE(SUM(current_occupants), 0) AS occupants, COALESCE(SUM(CASE WHEN current_occupants > 0 THEN yearly_rent ELSE 0 END), 0) AS rent").
		Scan(&totals).Error; err != nil {
		return stats, err
	}
	stats.TotalCapacity = totals.Capacity
	stats.TotalOccupants = totals.Occupants
	stats.ExpectedYearlyRent = totals.Rent
	if stats.TotalCapacity > 0 {
		stats.OccupancyRate = float64(stats.TotalOccupants) / float64(stats.TotalCapacity)
	}

	type paymentCount struct {
		PaymentStatus string
		N             int64
	}
	var byPayment []paymentCount
	paymentsQ := s.DB.Model(&models.RoomOccupant{}).
		Where("room_occupants.assignment_status = ?", models.AssignmentStatusActive)
	if propertyID != 0 {
		paymentsQ = paymentsQ.
			Joins("JOIN rooms ON rooms.id = room_occupants.room_id").
			Where("rooms.property_id = ?", propertyID)
	}
	if err := paymentsQ.
		Select("room_occupants.payment_status AS payment_status, COUNT(*) AS n").
		Group("room_occupants.payment_status").
		Scan(&byPayment).Error; err != nil {
		return stats, err
	}
	for _, pc := range byPayment {
		switch pc.PaymentStatus {
		case models.PaymentStatusPending:
			stats.PaymentsPending = pc.N
		case models.PaymentStatusPaid:
			stats.PaymentsPaid = pc.N
		case models.PaymentStatusOverdue:
			stats.PaymentsOverdue = pc.N
		}
	}

	return stats, nil
}
