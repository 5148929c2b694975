package models

import (
	"time"

	"gorm.io/gorm"
)

// Account is an authentication principal. It has no link to User.
type Account struct {
	ID         uint   `gorm:"primaryKey"`
	Username   string `gorm:"size:150;not null;uniqueIndex:idx_accounts_username"`
	Password   string `gorm:"size:128;not null"` // bcrypt hash
	Email      string `gorm:"size:254"`
	FirstName  string `gorm:"size:150"`
	LastName   string `gorm:"size:150"`
	IsStaff    bool   `gorm:"not null;default:false"`
	IsActive   bool   `gorm:"not null"`
	DateJoined time.Time
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.DateJoined.IsZero() {
		a.DateJoined = time.Now().UTC()
	}
	return nil
}

// Token is the bearer credential of an Account, created on first login and
// reused afterwards.
type Token struct {
	Key       string    `gorm:"primaryKey;size:512"`
	AccountID uint      `gorm:"not null;uniqueIndex:idx_tokens_account"`
	Account   Account   `gorm:"foreignKey:AccountID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt time.Time `gorm:"not null"`
}
