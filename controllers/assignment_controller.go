package controllers

import (
	"net/http"
	"strings"

	"lodge-backend/middleware"
	"lodge-backend/services"

	"github.com/gin-gonic/gin"
)

type AssignmentController struct {
	Service *services.AssignmentService
}

func NewAssignmentController(service *services.AssignmentService) *AssignmentController {
	return &AssignmentController{Service: service}
}

// respondAssignmentFailure maps business rejections: "... not found" is 404,
// everything else (capacity, status) is 400. The message strings are part of
// the contract and shown to users as-is.
func respondAssignmentFailure(c *gin.Context, result services.AssignmentResult) {
	code := http.StatusBadRequest
	if strings.Contains(result.Message, "not found") {
		code = http.StatusNotFound
	}
	c.JSON(code, result)
}

type assignPayload struct {
	OccupantID uint   `json:"occupantId" binding:"required"`
	RoomID     uint   `json:"roomId" binding:"required"`
	Notes      string `json:"notes"`
}

func (ac *AssignmentController) Assign(c *gin.Context) {
	var payload assignPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request payload", "details": err.Error()})
		return
	}

	result, err := ac.Service.AssignOccupant(payload.OccupantID, payload.RoomID, middleware.CurrentActor(c), payload.Notes)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Assignment failed", "details": err.Error()})
		return
	}
	if !result.Success {
		respondAssignmentFailure(c, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

type transferPayload struct {
	OccupantID uint   `json:"occupantId" binding:"required"`
	ToRoomID   uint   `json:"toRoomId" binding:"required"`
	Reason     string `json:"reason"`
	Notes      string `json:"notes"`
}

func (ac *AssignmentController) Transfer(c *gin.Context) {
	var payload transferPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request payload", "details": err.Error()})
		return
	}

	result, err := ac.Service.TransferOccupant(payload.OccupantID, payload.ToRoomID, middleware.CurrentActor(c), payload.Reason, payload.Notes)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Transfer failed", "details": err.Error()})
		return
	}
	if !result.Success {
		respondAssignmentFailure(c, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

type removePayload struct {
	OccupantID uint   `json:"occupantId" binding:"required"`
	Reason     string `json:"reason"`
}

func (ac *AssignmentController) Remove(c *gin.Context) {
	var payload removePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request payload", "details": err.Error()})
		return
	}

	result, err := ac.Service.RemoveOccupant(payload.OccupantID, payload.Reason, middleware.CurrentActor(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Removal failed", "details": err.Error()})
		return
	}
	if !result.Success {
		respondAssignmentFailure(c, result)
		return
	}
	c.JSON(http.StatusOK, result)
}
