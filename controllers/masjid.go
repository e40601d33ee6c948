package controllers

import (
	"net/http"

	dbpkg "mimbar/db"
	"mimbar/models"

	"github.com/gin-gonic/gin"
)

// GET /api/masjids?status=approved
func GetMasjids(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db not set on context", http.StatusInternalServerError)
		return
	}

	query := db.Order("id asc").Limit(500)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var masjids []models.Masjid
	if err := query.Find(&masjids).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"masjids": masjids})
}

// GET /api/masjids/:id
func GetMasjidByID(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db not set on context", http.StatusInternalServerError)
		return
	}
	var masjid models.Masjid
	if err := db.First(&masjid, id).Error; err != nil {
		RespondError(c, "masjid not found", http.StatusNotFound)
		return
	}
	RespondSuccess(c, gin.H{"masjid": masjid})
}

// POST /api/masjids
func CreateMasjid(c *gin.Context) {
	var masjid models.Masjid
	if err := c.Bind(&masjid); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if masjid.Name == "" {
		RespondError(c, "name is required", http.StatusBadRequest)
		return
	}
	if masjid.Status == "" {
		masjid.Status = models.MASJID_STATUS_PENDING
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db not set on context", http.StatusInternalServerError)
		return
	}
	if err := db.Create(&masjid).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"masjid": masjid})
}

// PUT /api/masjids/:id
func UpdateMasjid(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	var body models.Masjid
	if err := c.Bind(&body); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db not set on context", http.StatusInternalServerError)
		return
	}

	var masjid models.Masjid
	if err := db.First(&masjid, id).Error; err != nil {
		RespondError(c, "masjid not found", http.StatusNotFound)
		return
	}

	if body.Name != "" {
		masjid.Name = body.Name
	}
	if body.City != "" {
		masjid.City = body.City
	}
	if body.Address != "" {
		masjid.Address = body.Address
	}
	if body.Status != "" {
		masjid.Status = body.Status
	}

	if err := db.Save(&masjid).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"masjid": masjid})
}

// DELETE /api/masjids/:id
func DeleteMasjid(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db not set on context", http.StatusInternalServerError)
		return
	}
	var masjid models.Masjid
	if err := db.First(&masjid, id).Error; err != nil {
		RespondError(c, "masjid not found", http.StatusNotFound)
		return
	}
	if err := db.Delete(&masjid).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"deleted": id})
}
