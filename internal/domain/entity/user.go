package entity

import "time"

type User struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid"`
	Email        string    `json:"email" gorm:"not null;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"not null"`
}

func (User) TableName() string {
	return "users"
}

// Identity is the authenticated user of a session.
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
