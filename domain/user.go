package domain

import "time"

type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

type User struct {
	ID        string     `gorm:"column:uuid;primaryKey;size:36" json:"id"`
	Email     string     `gorm:"size:255;not null;uniqueIndex:idx_users_email" json:"email"`
	Password  string     `gorm:"size:100;not null" json:"-"`
	Name      string     `gorm:"size:100;not null" json:"name"`
	Role      UserRole   `gorm:"size:20;not null" json:"role"`
	Enabled   bool       `gorm:"not null;default:true" json:"enabled"`
	CreatedAt *time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
