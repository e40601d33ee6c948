package models

import "time"

/************************************************
/**** MARK: MASJID STATUS ****/
/************************************************/
const MASJID_STATUS_PENDING = "pending"
const MASJID_STATUS_APPROVED = "approved"
const MASJID_STATUS_REJECTED = "rejected"

// Masjid is one catalog entry. Reviews only ever attach to entries whose
// status is "approved"; pending entries are invisible to the matcher.
type Masjid struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Name      string     `gorm:"not null;index" json:"name" form:"name"`
	City      string     `gorm:"default:''" json:"city" form:"city"`
	Address   string     `gorm:"default:''" json:"address" form:"address"`
	Status    string     `gorm:"not null;default:'pending';index" json:"status" form:"status"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}
