package controllers

import (
	"net/http"
	"strconv"

	"lodge-backend/services"

	"github.com/gin-gonic/gin"
)

type HistoryController struct {
	Service *services.HistoryService
}

func NewHistoryController(service *services.HistoryService) *HistoryController {
	return &HistoryController{Service: service}
}

// GetHistory returns audit records newest first, filtered by ?roomId= and/or
// ?occupantId=, capped by ?limit= (default 50).
func (hc *HistoryController) GetHistory(c *gin.Context) {
	roomID, _ := strconv.ParseUint(c.DefaultQuery("roomId", "0"), 10, 64)
	occupantID, _ := strconv.ParseUint(c.DefaultQuery("occupantId", "0"), 10, 64)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	records, err := hc.Service.Query(uint(roomID), uint(occupantID), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database error", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, records)
}
