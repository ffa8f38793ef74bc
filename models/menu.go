package models

import "time"

type Menu struct {
	ID         uint         `gorm:"primaryKey" json:"id"`
	CategoryID uint         `gorm:"not null" json:"category_id"`
	Category   MenuCategory `gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"category"`
	Name       string       `gorm:"type:varchar(255);not null" json:"name"`
	// Harga dalam satuan mata uang terkecil.
	Price       int64     `gorm:"not null" json:"price"`
	Stock       int       `json:"stock"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	ImageUrl    *string   `gorm:"type:varchar(255)" json:"image_url,omitempty"`
	IsAvailable bool      `gorm:"not null;default:true" json:"is_available"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}
