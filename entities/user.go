package entities

import (
	"time"
)

// User is an account holder. ResetToken stores the SHA-256 digest of the
// emailed reset token; it is set together with ResetTokenExpiration or not at all.
type User struct {
	ID                   uint          `gorm:"primaryKey" json:"id"`
	Username             string        `gorm:"size:80;uniqueIndex;not null" json:"username"`
	Email                string        `gorm:"size:120;uniqueIndex;not null" json:"email"`
	Name                 string        `gorm:"size:120" json:"name"`
	PasswordHash         string        `gorm:"not null" json:"-"`
	ResetToken           *string       `gorm:"size:64;index" json:"-"`
	ResetTokenExpiration *time.Time    `json:"-"`
	Transactions         []Transaction `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`
}

// HasPendingReset reports whether a reset token is stored and still valid at now.
func (u *User) HasPendingReset(now time.Time) bool {
	return u.ResetToken != nil && u.ResetTokenExpiration != nil && now.Before(*u.ResetTokenExpiration)
}
