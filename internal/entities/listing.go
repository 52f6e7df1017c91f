package entities

import "time"

// Listing is a single parsed classifieds ad. Rows are write-once: the
// poller creates a listing right after a successful detail-page parse and
// never mutates it afterwards.
type Listing struct {
	ID          int
	TargetID    int    `gorm:"index:idx_target_external,unique"`
	Source      string `gorm:"not null"`
	Link        string `gorm:"not null"`
	ExternalID  string `gorm:"index:idx_target_external,unique;not null"`
	Title       string `gorm:"not null"`
	Price       string `gorm:"not null"`
	Description string `gorm:"type:text;not null"`
	Employer    string `gorm:"not null"`
	PostedAt    string `gorm:"not null"`
	// PublishCount is reserved for multi-send tracking and stays at zero.
	PublishCount int `gorm:"default:0"`
	CreatedAt    time.Time
}
