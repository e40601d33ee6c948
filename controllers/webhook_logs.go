package controllers

import (
	"net/http"

	dbpkg "mimbar/db"
	"mimbar/models"

	"github.com/gin-gonic/gin"
)

// GET /api/webhook-logs
func GetWebhookLogs(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db not set on context", http.StatusInternalServerError)
		return
	}

	var logs []models.WebhookLog
	if err := db.Order("created_at desc").Limit(200).Find(&logs).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"logs": logs})
}

// GET /api/webhook-logs/:id
func GetWebhookLogByID(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		RespondError(c, "id is required", http.StatusBadRequest)
		return
	}
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db not set on context", http.StatusInternalServerError)
		return
	}

	var row models.WebhookLog
	if err := db.Where("id = ?", id).First(&row).Error; err != nil {
		RespondError(c, "log not found", http.StatusNotFound)
		return
	}
	RespondSuccess(c, gin.H{"log": row})
}
