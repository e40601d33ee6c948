package models

import "time"

/************************************************
/**** MARK: REVIEW STATUS ****/
/************************************************/
const REVIEW_STATUS_PENDING = "pending"
const REVIEW_STATUS_APPROVED = "approved"
const REVIEW_STATUS_REJECTED = "rejected"

/************************************************
/**** MARK: REVIEW SOURCE ****/
/************************************************/
const REVIEW_SOURCE_WHATSAPP = "whatsapp"
const REVIEW_SOURCE_WEB = "web"

// Review is a visitor review awaiting moderation. The webhook pipeline only
// ever creates rows with status "pending"; approve/reject happens later via
// the admin routes.
//
// Rating is stored exactly as extracted, unclamped. Senders write things
// like "8/10" and moderation wants to see the original number.
type Review struct {
	ID            int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	MasjidID      int64      `gorm:"not null;index" json:"masjid_id" form:"masjid_id"`
	ReviewerName  string     `gorm:"not null;default:''" json:"reviewer_name" form:"reviewer_name"`
	Rating        *float64   `json:"rating" form:"rating"`
	Text          string     `gorm:"type:text" json:"text" form:"text"`
	Source        string     `gorm:"not null;default:'web';index" json:"source"`
	Status        string     `gorm:"not null;default:'pending';index" json:"status"`
	SenderContact string     `gorm:"default:''" json:"sender_contact"`
	UserID        *int64     `gorm:"index" json:"user_id"` // set when the sender's contact matches a registered user
	CreatedAt     *time.Time `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at"`
}
