package domain

import "time"

type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
)

type User struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	Organization string
	Role         Role
	Plan         *PlanID // nil for admins
	Status       UserStatus
	PasswordHash string // argon2 encoded
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type AnalystClient struct {
	AnalystID string
	ClientID  string
	CreatedAt time.Time
}
