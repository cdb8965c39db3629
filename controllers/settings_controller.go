package controllers

import (
	"errors"
	"net/http"

	"lodge-backend/config"
	"lodge-backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type propertySettingsPayload struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Website string `json:"website"`
	Logo    string `json:"logo"`
}

func GetPropertySettings(c *gin.Context) {
	var setting models.PropertySetting
	if err := config.DB.First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{"settings": models.PropertySetting{}})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": setting})
}

func UpdatePropertySettings(c *gin.Context) {
	var payload propertySettingsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var setting models.PropertySetting
	err := config.DB.First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			setting = models.PropertySetting{
				Name:    payload.Name,
				Address: payload.Address,
				Phone:   payload.Phone,
				Email:   payload.Email,
				Website: payload.Website,
				Logo:    payload.Logo,
			}
			if err := config.DB.Create(&setting).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"settings": setting})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	setting.Name = payload.Name
	setting.Address = payload.Address
	setting.Phone = payload.Phone
	setting.Email = payload.Email
	setting.Website = payload.Website
	setting.Logo = payload.Logo

	if err := config.DB.Save(&setting).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": setting})
}
