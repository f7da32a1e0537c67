package users

import "time"

type User struct {
	ID             uint    `gorm:"primaryKey"`
	Name           string  `gorm:"size:100;not null"`
	Email          string  `gorm:"size:100;unique;not null"`
	PasswordHash   *string // nil for Google-linked accounts
	GoogleID       *string `gorm:"uniqueIndex"`
	ProfilePicture string
	LastActive     time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsFederated reports whether the account was created through Google sign-in
// and therefore carries no local password.
func (u *User) IsFederated() bool {
	return u.GoogleID != nil && *u.GoogleID != ""
}
