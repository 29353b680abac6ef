package model

import "time"

// Principal represents an account that can authenticate against the admin gate.
// Principals are provisioned out of band (petitionctl admin create) and are
// read-only to the request path.
type Principal struct {
	ID           uint      `gorm:"column:id;primaryKey"`
	Username     string    `gorm:"column:username"`
	PasswordHash string    `gorm:"column:password"`
	IsAdmin      bool      `gorm:"column:admin"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Principal) TableName() string {
	return "users"
}
