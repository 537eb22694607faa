package models

import "time"

// User is an account holder. Token doubles as the account-confirmation and
// the password-reset token; it is nil whenever neither flow is pending.
type User struct {
	ID         uint    `gorm:"primaryKey"`
	Nombre     string  `gorm:"not null"`
	Email      string  `gorm:"unique;not null;index"`
	Password   string  `gorm:"not null"` // bcrypt hash
	Token      *string `gorm:"index"`
	Confirmado bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Public returns a copy safe to hand to templates.
func (u User) Public() User {
	u.Password = ""
	return u
}

// Category is a static listing classification (Casa, Departamento, ...).
type Category struct {
	ID        uint   `gorm:"primaryKey"`
	Nombre    string `gorm:"size:30;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Price is a static price range used to describe listings.
type Price struct {
	ID        uint   `gorm:"primaryKey"`
	Nombre    string `gorm:"size:30;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
