package models

import "time"

// BoardTitleMaxLength is the maximum title length in characters.
const BoardTitleMaxLength = 255

// Board is a blog post. UserID is set once on creation and never changes.
type Board struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	User      User      `gorm:"foreignKey:UserID" json:"author"`
	Replies   []Reply   `gorm:"foreignKey:BoardID" json:"replies,omitempty"`
}

func (Board) TableName() string { return "board_tb" }

// IsOwner reports whether userID authored the board.
func (b Board) IsOwner(userID uint) bool {
	return userID != 0 && b.UserID == userID
}

// Time is the creation timestamp formatted for display.
func (b Board) Time() string {
	return FormatTimestamp(b.CreatedAt)
}
