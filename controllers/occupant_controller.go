package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"lodge-backend/middleware"
	"lodge-backend/models"
	"lodge-backend/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type OccupantController struct {
	Service *services.OccupantService
}

func NewOccupantController(service *services.OccupantService) *OccupantController {
	return &OccupantController{Service: service}
}

type createOccupantPayload struct {
	RoomID            uint   `json:"roomId" binding:"required"`
	FullName          string `json:"fullName" binding:"required"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	NumberOfOccupants int    `json:"numberOfOccupants"`
	PaymentStatus     string `json:"paymentStatus"`
	MoveInDate        string `json:"moveInDate"`
}

// CreateOccupant is the tenant-registration endpoint. The whole create is
// rejected before any row is written when the room cannot take the headcount.
func (oc *OccupantController) CreateOccupant(c *gin.Context) {
	var payload createOccupantPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request payload", "details": err.Error()})
		return
	}

	payload.FullName = strings.TrimSpace(payload.FullName)
	if payload.FullName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Full name is required."})
		return
	}

	occupant := models.RoomOccupant{
		RoomID:            payload.RoomID,
		FullName:          payload.FullName,
		Email:             strings.TrimSpace(payload.Email),
		Phone:             strings.TrimSpace(payload.Phone),
		NumberOfOccupants: payload.NumberOfOccupants,
		PaymentStatus:     payload.PaymentStatus,
	}
	if payload.MoveInDate != "" {
		t, err := time.Parse("2006-01-02", payload.MoveInDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid moveInDate format", "details": err.Error()})
			return
		}
		occupant.MoveInDate = &t
	}

	result, err := oc.Service.CreateOccupant(&occupant, middleware.CurrentActor(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Registration failed", "details": err.Error()})
		return
	}
	if !result.Success {
		respondAssignmentFailure(c, result)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (oc *OccupantController) GetOccupants(c *gin.Context) {
	occupants, err := oc.Service.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database error", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, occupants)
}

func (oc *OccupantController) GetOccupantByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	occupant, err := oc.Service.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": fmt.Sprintf("Occupant with ID %d not found.", id)})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database error", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, occupant)
}

func (oc *OccupantController) UpdateOccupant(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request payload", "details": err.Error()})
		return
	}

	if err := oc.Service.Update(id, updates); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Update failed", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Occupant updated successfully"})
}

type paymentStatusPayload struct {
	Status string `json:"status" binding:"required"`
}

func (oc *OccupantController) UpdatePaymentStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var payload paymentStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request payload", "details": err.Error()})
		return
	}

	if err := oc.Service.UpdatePaymentStatus(id, payload.Status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": fmt.Sprintf("Occupant with ID %d not found.", id)})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Payment status updated"})
}
