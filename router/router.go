package router

import (
	"log"

	"mimbar/config"
	"mimbar/controllers"
	"mimbar/middleware"

	"github.com/gin-gonic/gin"
)

// Initialize wires all routes and middlewares.
func Initialize(r *gin.Engine, cfg config.Configuration) {
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	// WhatsApp gateway webhook. GET answers the gateway's liveness probe.
	r.GET("/webhook/ingest", controllers.WebhookHealth)
	r.POST("/webhook/ingest", Logger(), controllers.WebhookIngest)

	// Admin surface (catalog, moderation, log inspection)
	api := r.Group("/api")
	admin := api.Group("")
	admin.Use(AdminRequired(cfg.AdminToken))

	admin.GET("/masjids", Logger(), controllers.GetMasjids)
	admin.GET("/masjids/:id", Logger(), controllers.GetMasjidByID)
	admin.POST("/masjids", Logger(), controllers.CreateMasjid)
	admin.PUT("/masjids/:id", Logger(), controllers.UpdateMasjid)
	admin.DELETE("/masjids/:id", Logger(), controllers.DeleteMasjid)

	admin.GET("/reviews", Logger(), controllers.GetReviews)
	admin.POST("/reviews/:id/approve", Logger(), controllers.ApproveReview)
	admin.POST("/reviews/:id/reject", Logger(), controllers.RejectReview)

	admin.GET("/webhook-logs", Logger(), controllers.GetWebhookLogs)
	admin.GET("/webhook-logs/:id", Logger(), controllers.GetWebhookLogByID)

	log.Printf("Routes initialized")
}
