package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"lodge-backend/models"
	"lodge-backend/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PropertyController struct {
	Service *services.PropertyService
}

func NewPropertyController(service *services.PropertyService) *PropertyController {
	return &PropertyController{Service: service}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid id parameter",
		})
		return 0, false
	}
	return uint(id), true
}

func (pc *PropertyController) GetProperties(c *gin.Context) {
	properties, err := pc.Service.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database error", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, properties)
}

func (pc *PropertyController) GetPropertyByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	property, err := pc.Service.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": fmt.Sprintf("Property with ID %d not found.", id)})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database error", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, property)
}

func (pc *PropertyController) CreateProperty(c *gin.Context) {
	var property models.Property
	if err := c.ShouldBindJSON(&property); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request payload", "details": err.Error()})
		return
	}

	if err := pc.Service.Create(&property); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, property)
}

func (pc *PropertyController) UpdateProperty(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request payload", "details": err.Error()})
		return
	}

	if err := pc.Service.Update(id, updates); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Update failed", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Property updated successfully"})
}

func (pc *PropertyController) DeleteProperty(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	affected, err := pc.Service.Delete(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to delete property."})
		return
	}
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": fmt.Sprintf("Property with ID %d not found.", id)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Property deleted successfully"})
}

func (pc *PropertyController) GetPropertyStats(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	stats, err := pc.Service.Stats(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to compute stats", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetDashboardStats aggregates across every property.
func (pc *PropertyController) GetDashboardStats(c *gin.Context) {
	stats, err := pc.Service.Stats(0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to compute stats", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}
