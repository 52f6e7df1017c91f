package entities

import "time"

// Target binds a chat the bot posts to with the search page it polls.
// Targets are administered directly in the database; the pipeline only
// reads active ones.
type Target struct {
	ID        int
	Name      string `gorm:"not null"`
	ChatID    int64  `gorm:"not null"`
	SourceURL string `gorm:"not null"`
	Active    bool   `gorm:"default:true;not null"`
	CreatedAt time.Time
}
