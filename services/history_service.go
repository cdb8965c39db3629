// services/history_service.go
package services

import (
	"lodge-backend/models"

	"gorm.io/gorm"
)

const defaultHistoryLimit = 50

// HistoryService is the read side of the audit trail. Writes happen inside
// the assignment/room transactions, never here.
type HistoryService struct {
	DB *gorm.DB
}

func NewHistoryService(db *gorm.DB) *HistoryService {
	return &HistoryService{DB: db}
}

// Query returns history records newest first. roomID / occupantID of 0 mean
// unfiltered; limit <= 0 falls back to the default of 50.
func (s *HistoryService) Query(roomID, occupantID uint, limit int) ([]models.AssignmentHistory, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	q := s.DB.Model(&models.AssignmentHistory{})
	if roomID != 0 {
		q = q.Where("room_id = ?", roomID)
	}
	if occupantID != 0 {
		q = q.Where("occupant_id = ?", occupantID)
	}

	var records []models.AssignmentHistory
	err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&records).Error
	return records, err
}
