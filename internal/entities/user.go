package entities

import "time"

// User is a chat member seen by the bot, recorded once on first join.
type User struct {
	ID         int
	TelegramID int64 `gorm:"uniqueIndex"`
	FirstName  string
	LastName   string
	UserName   string
	ChatID     int64
	ChatTitle  string
	CreatedAt  time.Time
}
