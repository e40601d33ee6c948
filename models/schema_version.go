package models

import "time"

// SchemaVersion records which migration level the database is at. Checked on
// startup so that many processes sharing one database run AutoMigrate once
// instead of guarding it with in-memory state.
type SchemaVersion struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Version   int        `gorm:"not null" json:"version"`
	AppliedAt *time.Time `json:"applied_at"`
}
