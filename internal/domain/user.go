package domain

import "time"

type Role string

const (
	RoleCompany   Role = "company"
	RoleCarrier   Role = "carrier"
	RoleWarehouse Role = "warehouse"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCompany, RoleCarrier, RoleWarehouse, RoleAdmin:
		return true
	}
	return false
}

type UserStatus string

const (
	StatusPending UserStatus = "pending"
	StatusActive  UserStatus = "active"
)

type User struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	Address      string     `json:"address"`
	Role         Role       `json:"type"`
	Status       UserStatus `json:"status"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
}
