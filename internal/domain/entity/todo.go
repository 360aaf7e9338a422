package entity

import "time"

// Todo is a personal to-do item owned by exactly one user.
type Todo struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid"`
	Title       string    `json:"title" gorm:"not null"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"created_at" gorm:"not null;index:idx_todos_user_created,priority:2,sort:desc"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"not null"`
	UserID      string    `json:"user_id" gorm:"not null;type:uuid;index:idx_todos_user_created,priority:1"`
}

// TableName overrides the gorm table name
func (Todo) TableName() string {
	return "todos"
}
