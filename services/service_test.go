package services

import (
	"fmt"
	"strings"
	"testing"

	"lodge-backend/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a per-test in-memory sqlite database. The shared-cache name
// keeps every pooled connection on the same database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Property{},
		&models.Room{},
		&models.RoomOccupant{},
		&models.AssignmentHistory{},
	))
	return db
}

func createTestProperty(t *testing.T, db *gorm.DB) models.Property {
	t.Helper()
	property := models.Property{
		Name:   "Unity Lodge",
		Type:   models.PropertyTypeLodge,
		Status: models.PropertyStatusActive,
	}
	require.NoError(t, db.Create(&property).Error)
	return property
}

func createTestRoom(t *testing.T, db *gorm.DB, propertyID uint, roomNumber string, maxOccupants int) models.Room {
	t.Helper()
	room := models.Room{
		PropertyID:   propertyID,
		RoomPrefix:   "A",
		RoomNumber:   roomNumber,
		Status:       models.RoomStatusAvailable,
		MaxOccupants: maxOccupants,
		YearlyRent:   12000,
	}
	require.NoError(t, db.Create(&room).Error)
	return room
}

// createUnassignedOccupant inserts an occupant row that is not yet bound to
// any room, for exercising the assign operation.
func createUnassignedOccupant(t *testing.T, db *gorm.DB, name string, heads int) models.RoomOccupant {
	t.Helper()
	occupant := models.RoomOccupant{
		FullName:          name,
		NumberOfOccupants: heads,
		AssignmentStatus:  models.AssignmentStatusActive,
		PaymentStatus:     models.PaymentStatusPending,
		ReferenceCode:     fmt.Sprintf("%s-%s", strings.ReplaceAll(t.Name(), "/", "_"), name),
	}
	require.NoError(t, db.Create(&occupant).Error)
	return occupant
}

func reloadRoom(t *testing.T, db *gorm.DB, id uint) models.Room {
	t.Helper()
	var room models.Room
	require.NoError(t, db.First(&room, id).Error)
	return room
}

func historyCount(t *testing.T, db *gorm.DB, action string) int64 {
	t.Helper()
	var n int64
	q := db.Model(&models.AssignmentHistory{})
	if action != "" {
		q = q.Where("action = ?", action)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}
