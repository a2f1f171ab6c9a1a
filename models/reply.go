package models

import "time"

// ReplyCommentMaxLength is the maximum comment length in characters.
const ReplyCommentMaxLength = 500

// Reply is a comment attached to a board.
type Reply struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Comment   string    `gorm:"size:500;not null" json:"comment"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	BoardID   uint      `gorm:"index;not null" json:"board_id"`
	CreatedAt time.Time `json:"created_at"`
	User      User      `gorm:"foreignKey:UserID" json:"author"`
}

func (Reply) TableName() string { return "reply_tb" }

func (r Reply) IsOwner(userID uint) bool {
	return userID != 0 && r.UserID == userID
}

func (r Reply) Time() string {
	return FormatTimestamp(r.CreatedAt)
}
