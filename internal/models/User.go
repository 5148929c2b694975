package models

import "gorm.io/gorm"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// User is a cemetery customer record. It is not an authentication
// principal; see Account.
type User struct {
	ID           uint    `gorm:"primaryKey"`
	Name         string  `gorm:"size:100;not null"`
	Surname      string  `gorm:"size:100;not null"`
	Email        string  `gorm:"size:100;not null;uniqueIndex:idx_users_email"`
	Phone        *string `gorm:"size:20"`
	Role         Role    `gorm:"size:20;not null;default:customer"`
	RegisteredAt Date    `gorm:"not null"`
}

// BeforeCreate stamps the registration date; it is never written again.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.RegisteredAt.IsZero() {
		u.RegisteredAt = Today()
	}
	if u.Role == "" {
		u.Role = RoleCustomer
	}
	return nil
}
