package models

import "time"

// Property is a listing. Imagen stays empty and Publicado false until the
// owner attaches an image; that upload publishes the listing in one update.
type Property struct {
	ID              uint   `gorm:"primaryKey"`
	Titulo          string `gorm:"size:100;not null"`
	Descripcion     string `gorm:"size:200;not null"`
	Habitaciones    int    `gorm:"not null"`
	Estacionamiento int    `gorm:"not null"`
	WC              int    `gorm:"not null"`
	Calle           string `gorm:"size:60;not null"`
	Lat             string `gorm:"not null"`
	Lng             string `gorm:"not null"`
	Imagen          string `gorm:"size:60"`
	Publicado       bool
	UserID          uint      `gorm:"not null;index"`
	User            User      `gorm:"foreignKey:UserID"`
	CategoryID      uint      `gorm:"not null"`
	Category        Category  `gorm:"foreignKey:CategoryID"`
	PriceID         uint      `gorm:"not null"`
	Price           Price     `gorm:"foreignKey:PriceID"`
	Messages        []Message `gorm:"foreignKey:PropertyID"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// GetUserID implements policy.Ownable.
func (p *Property) GetUserID() uint { return p.UserID }

// Message is one buyer-to-seller note on a listing. UserID is zero for
// anonymous senders. Rows are never updated after creation.
type Message struct {
	ID         uint   `gorm:"primaryKey"`
	Mensaje    string `gorm:"size:230;not null"`
	PropertyID uint   `gorm:"not null;index"`
	UserID     uint   `gorm:"index"`
	User       User   `gorm:"foreignKey:UserID"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
