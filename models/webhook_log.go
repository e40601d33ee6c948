package models

import "time"

// WebhookLog keeps one row per inbound webhook call: the verbatim body plus
// a result snapshot that the pipeline overwrites as it advances (last write
// wins, it is not an append-only trail). Rows are created before any
// validation so even garbage payloads stay inspectable.
type WebhookLog struct {
	ID        string     `gorm:"primary_key;type:varchar(36)" json:"id"`
	Body      string     `gorm:"type:text" json:"body"`
	Result    string     `gorm:"type:text" json:"result"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}
