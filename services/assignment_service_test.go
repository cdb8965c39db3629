package services

import (
	"testing"

	"lodge-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignOccupantFillsRoom(t *testing.T) {
	db := newTestDB(t)
	svc := NewAssignmentService(db)
	property := createTestProperty(t, db)
	room := createTestRoom(t, db, property.ID, "101", 2)
	occupant := createUnassignedOccupant(t, db, "Amina", 2)

	result, err := svc.AssignOccupant(occupant.ID, room.ID, "admin-1", "ground floor request")
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, "Occupant assigned successfully", result.Message)
	require.NotNil(t, result.Occupant)
	assert.Equal(t, room.ID, result.Occupant.RoomID)
	assert.NotNil(t, result.Occupant.AssignedAt)

	updated := reloadRoom(t, db, room.ID)
	assert.Equal(t, 2, updated.CurrentOccupants)
	assert.Equal(t, models.RoomStatusOccupied, updated.Status)

	assert.EqualValues(t, 1, historyCount(t, db, models.HistoryActionAssigned))
}

func TestAssignRejectedWhenCapacityExceeded(t *testing.T) {
	db := newTestDB(t)
	svc := NewAssignmentService(db)
	property := createTestProperty(t, db)
	room := createTestRoom(t, db, property.ID, "101", 2)

	first := createUnassignedOccupant(t, db, "Amina", 2)
	result, err := svc.AssignOccupant(first.ID, room.ID, "admin-1", "")
	require.NoError(t, err)
	require.True(t, result.Success)

	second := createUnassignedOccupant(t, db, "Brian", 1)
	result, err = svc.AssignOccupant(second.ID, room.ID, "admin-1", "")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Insufficient capacity", result.Message)

	// rejection must not mutate any row or write history
	var unchanged models.RoomOccupant
	require.NoError(t, db.First(&unchanged, second.ID).Error)
	assert.Zero(t, unchanged.RoomID)

	updated := reloadRoom(t, db, room.ID)
	assert.Equal(t, 2, updated.CurrentOccupants)
	assert.EqualValues(t, 1, historyCount(t, db, models.HistoryActionAssigned))
}

func TestAssignNotFoundMessages(t *testing.T) {
	db := newTestDB(t)
	svc := NewAssignmentService(db)
	property := createTestProperty(t, db)
	room := createTestRoom(t, db, property.ID, "101", 2)
	occupant := createUnassignedOccupant(t, db, "Amina", 1)

	result, err := svc.AssignOccupant(9999, room.ID, "admin-1", "")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Occupant not found", result.Message)

	result, err = svc.AssignOccupant(occupant.ID, 9999, "admin-1", "")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Room not found", result.Message)

	assert.EqualValues(t, 0, historyCount(t, db, ""))
}

func TestAssignRejectedForManualStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewAssignmentService(db)
	property := createTestProperty(t, db)
	room := createTestRoom(t, db, property.ID, "101", 2)
	require.NoError(t, db.Model(&models.Room{}).Where("id = ?", room.ID).
		Update("status", models.RoomStatusMaintenance).Error)

	occupant := createUnassignedOccupant(t, db, "Amina", 1)
	result, err := svc.AssignOccupant(occupant.ID, room.ID, "admin-1", "")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Room is maintenance", result.Message)
}

func TestTransferRecomputesBothRooms(t *testing.T) {
	db := newTestDB(t)
	svc := NewAssignmentService(db)
	property := createTestProperty(t, db)
	source := createTestRoom(t, db, property.ID, "101", 2)
	dest := createTestRoom(t, db, property.ID, "102", 3)

	occupant := createUnassignedOccupant(t, db, "Amina", 2)
	result, err := svc.AssignOccupant(occupant.ID, source.ID, "admin-1", "")
	require.NoError(t, err)
	require.True(t, result.Success)

	result, err = svc.TransferOccupant(occupant.ID, dest.ID, "admin-1", "requested bigger room", "")
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, "Occupant transferred successfully", result.Message)
	assert.Equal(t, dest.ID, result.Occupant.RoomID)

	vacated := reloadRoom(t, db, source.ID)
	assert.Equal(t, 0, vacated.CurrentOccupants)
	assert.Equal(t, models.RoomStatusAvailable, vacated.Status)

	filled := reloadRoom(t, db, dest.ID)
	assert.Equal(t, 2, filled.CurrentOccupants)
	assert.Equal(t, models.RoomStatusAvailable, filled.Status) // 2 < 3

	assert.EqualValues(t, 1, historyCount(t, db, models.HistoryActionTransferred))

	var record models.AssignmentHistory
	require.NoError(t, db.Where("action = ?", models.HistoryActionTransferred).First(&record).Error)
	assert.Equal(t, dest.ID, record.RoomID)
	require.NotNil(t, record.OccupantID)
	assert.Equal(t, occupant.ID, *record.OccupantID)
	assert.Equal(t, "requested bigger room", record.Reason)
}

func TestTransferRejectedWhenDestinationFull(t *testing.T) {
	db := newTestDB(t)
	svc := NewAssignmentService(db)
	property := createTestProperty(t, db)
	source := createTestRoom(t, db, property.ID, "101", 2)
	dest := createTestRoom(t, db, property.ID, "102", 1)

	occupant := createUnassignedOccupant(t, db, "Amina", 2)
	result, err := svc.AssignOccupant(occupant.ID, source.ID, "admin-1", "")
	require.NoError(t, err)
	require.True(t, result.Success)

	result, err = svc.TransferOccupant(occupant.ID, dest.ID, "admin-1", "", "")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Insufficient capacity", result.Message)

	var unchanged models.RoomOccupant
	require.NoError(t, db.First(&unchanged, occupant.ID).Error)
	assert.Equal(t, source.ID, unchanged.RoomID)
	assert.EqualValues(t, 0, historyCount(t, db, models.HistoryActionTransferred))
}

func TestRemoveOccupantSoftDeletes(t *testing.T) {
	db := newTestDB(t)
	svc := NewAssignmentService(db)
	property := createTestProperty(t, db)
	room := createTestRoom(t, db, property.ID, "101", 2)

	occupant := createUnassignedOccupant(t, db, "Amina", 2)
	result, err := svc.AssignOccupant(occupant.ID, room.ID, "admin-1", "")
	require.NoError(t, err)
	require.True(t, result.Success)

	result, err = svc.RemoveOccupant(occupant.ID, "end of tenancy", "admin-1")
	require.NoError(t, err)
	require.True(t, result.Success)

	// the row persists with moved_out status and a move-out date
	var removed models.RoomOccupant
	require.NoError(t, db.First(&removed, occupant.ID).Error)
	assert.Equal(t, models.AssignmentStatusMovedOut, removed.AssignmentStatus)
	require.NotNil(t, removed.MoveOutDate)

	updated := reloadRoom(t, db, room.ID)
	assert.Equal(t, 0, updated.CurrentOccupants)
	assert.Equal(t, models.RoomStatusAvailable, updated.Status)

	assert.EqualValues(t, 1, historyCount(t, db, models.HistoryActionUnassigned))

	// a second removal is rejected and leaves no extra audit row
	result, err = svc.RemoveOccupant(occupant.ID, "again", "admin-1")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Occupant is not active", result.Message)
	assert.EqualValues(t, 1, historyCount(t, db, models.HistoryActionUnassigned))
}

func TestUpdateRoomOccupancyIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewAssignmentService(db)
	property := createTestProperty(t, db)
	room := createTestRoom(t, db, property.ID, "101", 3)

	occupant := createUnassignedOccupant(t, db, "Amina", 2)
	result, err := svc.AssignOccupant(occupant.ID, room.ID, "admin-1", "")
	require.NoError(t, err)
	require.True(t, result.Success)

	require.NoError(t, svc.UpdateRoomOccupancy(db, room.ID))
	first := reloadRoom(t, db, room.ID)
	require.NoError(t, svc.UpdateRoomOccupancy(db, room.ID))
	second := reloadRoom(t, db, room.ID)

	assert.Equal(t, first.CurrentOccupants, second.CurrentOccupants)
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, 2, second.CurrentOccupants)
}

func TestUpdateRoomOccupancyPreservesManualStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewAssignmentService(db)
	property := createTestProperty(t, db)
	room := createTestRoom(t, db, property.ID, "101", 3)

	occupant := createUnassignedOccupant(t, db, "Amina", 1)
	result, err := svc.AssignOccupant(occupant.ID, room.ID, "admin-1", "")
	require.NoError(t, err)
	require.True(t, result.Success)

	require.NoError(t, db.Model(&models.Room{}).Where("id = ?", room.ID).
		Update("status", models.RoomStatusMaintenance).Error)

	// removal touches the room but must not clobber the manual status
	result, err = svc.RemoveOccupant(occupant.ID, "", "admin-1")
	require.NoError(t, err)
	require.True(t, result.Success)

	updated := reloadRoom(t, db, room.ID)
	assert.Equal(t, models.RoomStatusMaintenance, updated.Status)
	assert.Equal(t, 0, updated.CurrentOccupants)
}

func TestLastSlotGoesToExactlyOne(t *testing.T) {
	db := newTestDB(t)
	svc := NewAssignmentService(db)
	property := createTestProperty(t, db)
	room := createTestRoom(t, db, property.ID, "101", 1)

	first := createUnassignedOccupant(t, db, "Amina", 1)
	second := createUnassignedOccupant(t, db, "Brian", 1)

	r1, err := svc.AssignOccupant(first.ID, room.ID, "admin-1", "")
	require.NoError(t, err)
	r2, err := svc.AssignOccupant(second.ID, room.ID, "admin-1", "")
	require.NoError(t, err)

	assert.True(t, r1.Success)
	assert.False(t, r2.Success)
	assert.Equal(t, "Insufficient capacity", r2.Message)

	updated := reloadRoom(t, db, room.ID)
	assert.LessOrEqual(t, updated.CurrentOccupants, updated.MaxOccupants)
	assert.Equal(t, 1, updated.CurrentOccupants)
}

func TestCheckAvailability(t *testing.T) {
	db := newTestDB(t)
	svc := NewAssignmentService(db)
	property := createTestProperty(t, db)
	room := createTestRoom(t, db, property.ID, "101", 3)

	res, err := svc.CheckAvailability(room.ID, 2)
	require.NoError(t, err)
	assert.True(t, res.Available)
	assert.Equal(t, 3, res.AvailableSpace)
	assert.Equal(t, 3, res.MaxOccupants)
	assert.Equal(t, 0, res.CurrentOccupants)

	res, err = svc.CheckAvailability(room.ID, 4)
	require.NoError(t, err)
	assert.False(t, res.Available)
	assert.Equal(t, "Insufficient capacity", res.Reason)

	res, err = svc.CheckAvailability(9999, 1)
	require.NoError(t, err)
	assert.False(t, res.Available)
	assert.Equal(t, "Room not found", res.Reason)
}

// The ledger invariant: after any sequence of operations every room's cached
// counter equals the sum of its active occupants' headcounts.
func TestLedgerInvariantAfterMixedSequence(t *testing.T) {
	db := newTestDB(t)
	svc := NewAssignmentService(db)
	property := createTestProperty(t, db)
	roomA := createTestRoom(t, db, property.ID, "101", 3)
	roomB := createTestRoom(t, db, property.ID, "102", 4)

	amina := createUnassignedOccupant(t, db, "Amina", 2)
	brian := createUnassignedOccupant(t, db, "Brian", 1)
	chiko := createUnassignedOccupant(t, db, "Chiko", 2)

	mustAssign := func(occupantID, roomID uint) {
		res, err := svc.AssignOccupant(occupantID, roomID, "admin-1", "")
		require.NoError(t, err)
		require.True(t, res.Success, res.Message)
	}

	mustAssign(amina.ID, roomA.ID)
	mustAssign(brian.ID, roomA.ID)
	mustAssign(chiko.ID, roomB.ID)

	res, err := svc.TransferOccupant(brian.ID, roomB.ID, "admin-1", "", "")
	require.NoError(t, err)
	require.True(t, res.Success)

	res, err = svc.RemoveOccupant(amina.ID, "moved away", "admin-1")
	require.NoError(t, err)
	require.True(t, res.Success)

	for _, roomID := range []uint{roomA.ID, roomB.ID} {
		room := reloadRoom(t, db, roomID)
		expected, err := activeOccupantSum(db, roomID)
		require.NoError(t, err)
		assert.Equal(t, expected, room.CurrentOccupants, "room %d counter drifted", roomID)
		if room.CurrentOccupants >= room.MaxOccupants {
			assert.Equal(t, models.RoomStatusOccupied, room.Status)
		} else {
			assert.Equal(t, models.RoomStatusAvailable, room.Status)
		}
	}
}
