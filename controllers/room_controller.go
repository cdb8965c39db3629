package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"lodge-backend/middleware"
	"lodge-backend/models"
	"lodge-backend/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RoomController struct {
	Rooms       *services.RoomService
	Assignments *services.AssignmentService
	Occupants   *services.OccupantService
}

func NewRoomController(rooms *services.RoomService, assignments *services.AssignmentService, occupants *services.OccupantService) *RoomController {
	return &RoomController{Rooms: rooms, Assignments: assignments, Occupants: occupants}
}

// GetRooms lists rooms annotated with availability. Optional ?propertyId=
// narrows to one property.
func (rc *RoomController) GetRooms(c *gin.Context) {
	propertyID, _ := strconv.ParseUint(c.DefaultQuery("propertyId", "0"), 10, 64)

	views, err := rc.Rooms.ListWithAvailability(uint(propertyID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database error", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, views)
}

// GetRoomsWithOccupancy is the property + active-occupant summary view.
func (rc *RoomController) GetRoomsWithOccupancy(c *gin.Context) {
	propertyID, _ := strconv.ParseUint(c.DefaultQuery("propertyId", "0"), 10, 64)

	views, err := rc.Rooms.RoomsWithOccupancy(uint(propertyID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database error", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, views)
}

func (rc *RoomController) GetRoomByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	room, err := rc.Rooms.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": fmt.Sprintf("Room with ID %d not found.", id)})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database error", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, room)
}

func (rc *RoomController) CreateRoom(c *gin.Context) {
	var room models.Room
	if err := c.ShouldBindJSON(&room); err != nil {
		log.Printf("❌ JSON BINDING ERROR (400): %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request payload", "details": err.Error()})
		return
	}

	if err := rc.Rooms.Create(&room, middleware.CurrentActor(c)); err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") || strings.Contains(err.Error(), "UNIQUE constraint failed") {
			log.Printf("❌ Duplicate room identifier: %s", room.Identifier())
			c.JSON(http.StatusConflict, gin.H{"status": "error", "message": fmt.Sprintf("Room '%s' already exists in this property.", room.Identifier())})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, room)
}

func (rc *RoomController) UpdateRoom(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request payload", "details": err.Error()})
		return
	}

	if err := rc.Rooms.Update(id, updates); err != nil {
		log.Printf("❌ Update Error for Room %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Update failed", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Room updated successfully"})
}

func (rc *RoomController) DeleteRoom(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	affected, err := rc.Rooms.Delete(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to delete room."})
		return
	}
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": fmt.Sprintf("Room with ID %d not found.", id)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Room deleted successfully"})
}

// CheckRoomAvailability answers the soft availability check. Always 200: an
// unavailable room is an answer, not an error.
func (rc *RoomController) CheckRoomAvailability(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	capacity, _ := strconv.Atoi(c.DefaultQuery("capacity", "1"))

	result, err := rc.Assignments.CheckAvailability(id, capacity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database error", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetRoomOccupants lists a room's active occupants; ?all=true includes
// moved-out rows.
func (rc *RoomController) GetRoomOccupants(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	includeAll := c.Query("all") == "true"

	occupants, err := rc.Occupants.GetByRoom(id, includeAll)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database error", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, occupants)
}

type roomStatusPayload struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

// UpdateRoomStatus handles manual maintenance/reserved/available changes.
func (rc *RoomController) UpdateRoomStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var payload roomStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request payload", "details": err.Error()})
		return
	}

	result, err := rc.Rooms.UpdateStatus(id, payload.Status, middleware.CurrentActor(c), payload.Reason)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database error", "details": err.Error()})
		return
	}
	if !result.Success {
		respondAssignmentFailure(c, result)
		return
	}
	c.JSON(http.StatusOK, result)
}
