package controllers

import (
	"net/http"

	dbpkg "mimbar/db"
	"mimbar/models"

	"github.com/gin-gonic/gin"
)

// GET /api/reviews?status=pending
func GetReviews(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db not set on context", http.StatusInternalServerError)
		return
	}

	query := db.Order("id desc").Limit(200)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var reviews []models.Review
	if err := query.Find(&reviews).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"reviews": reviews})
}

// POST /api/reviews/:id/approve
func ApproveReview(c *gin.Context) {
	moderateReview(c, models.REVIEW_STATUS_APPROVED)
}

// POST /api/reviews/:id/reject
func RejectReview(c *gin.Context) {
	moderateReview(c, models.REVIEW_STATUS_REJECTED)
}

func moderateReview(c *gin.Context, status string) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db not set on context", http.StatusInternalServerError)
		return
	}

	var review models.Review
	if err := db.First(&review, id).Error; err != nil {
		RespondError(c, "review not found", http.StatusNotFound)
		return
	}
	if review.Status != models.REVIEW_STATUS_PENDING {
		RespondError(c, "review is not pending", http.StatusBadRequest)
		return
	}

	review.Status = status
	if err := db.Save(&review).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"review": review})
}
