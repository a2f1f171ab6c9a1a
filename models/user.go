package models

import "time"

// User is a blog author. Passwords are stored as bcrypt hashes only.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:64;not null;uniqueIndex" json:"username"`
	Email        string    `gorm:"size:255" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

func (User) TableName() string { return "user_tb" }

// SessionUser is the caller identity kept in the session store.
type SessionUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// SessionUserOf builds the session identity of a persisted user.
func SessionUserOf(u *User) *SessionUser {
	return &SessionUser{ID: u.ID, Username: u.Username}
}
