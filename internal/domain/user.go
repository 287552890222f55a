package domain

import "time"

type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleSeller    Role = "SELLER"
	RoleCollector Role = "COLLECTOR"
)

type User struct {
	ID           int32     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedOn    time.Time `json:"created_on"`
	UpdatedOn    time.Time `json:"updated_on"`
}
