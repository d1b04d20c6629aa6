package postgres

import (
	"time"
)

type userModel struct {
	ID           int64      `gorm:"column:id;primaryKey;autoIncrement"`
	Username     string     `gorm:"column:username"`
	Email        string     `gorm:"column:email"`
	PasswordHash string     `gorm:"column:password_hash"`
	Role         string     `gorm:"column:role"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
}

func (userModel) TableName() string { return "users" }

type loginAttemptModel struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Username    string    `gorm:"column:username"`
	Succeeded   bool      `gorm:"column:succeeded"`
	Reason      string    `gorm:"column:reason"`
	RemoteAddr  *string   `gorm:"column:remote_addr"`
	AttemptedAt time.Time `gorm:"column:attempted_at"`
}

func (loginAttemptModel) TableName() string { return "login_attempts" }
