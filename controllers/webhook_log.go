package controllers

import (
	"encoding/json"
	"log"
	"time"

	"mimbar/models"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
)

// openWebhookLog stores the verbatim request body under a fresh id, before
// any validation runs. Best-effort: on failure it returns "" and every later
// recordWebhookLog call becomes a no-op. The request itself must never fail
// because of logging.
func openWebhookLog(db *gorm.DB, rawBody []byte) string {
	if db == nil {
		return ""
	}

	now := time.Now()
	row := models.WebhookLog{
		ID:        uuid.NewString(),
		Body:      string(rawBody),
		CreatedAt: &now,
	}
	if err := db.Create(&row).Error; err != nil {
		log.Printf("[webhook] log create failed: %v", err)
		return ""
	}
	return row.ID
}

// recordWebhookLog overwrites the result snapshot for a log row. Last write
// wins; it is called several times as the pipeline advances. Errors are
// swallowed for the same reason as in openWebhookLog.
func recordWebhookLog(db *gorm.DB, logID string, snapshot map[string]any) {
	if db == nil || logID == "" {
		return
	}

	b, err := json.Marshal(snapshot)
	if err != nil {
		log.Printf("[webhook] log snapshot marshal failed: %v", err)
		return
	}
	if err := db.Model(&models.WebhookLog{}).
		Where("id = ?", logID).
		Update("result", string(b)).Error; err != nil {
		log.Printf("[webhook] log update failed: %v", err)
	}
}
