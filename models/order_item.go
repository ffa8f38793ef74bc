package models

import (
	"time"
)

const (
	OrderItemPending = "pending"
	OrderItemServed  = "served"
)

type OrderItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"not null;index" json:"order_id"`
	// Order tidak ikut di-serialize untuk menghindari nested rekursif
	Order  Order `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	MenuID uint  `gorm:"not null" json:"menu_id"`
	Menu   Menu  `gorm:"foreignKey:MenuID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"menu"`

	Quantity int `gorm:"not null" json:"quantity"`
	// Harga dibekukan saat item ditambahkan; perubahan harga menu
	// sesudahnya tidak boleh mengubah order yang sedang jalan/historis.
	PriceAtOrder int64  `gorm:"not null" json:"price_at_order"`
	Notes        string `gorm:"type:text" json:"notes"`
	Status       string `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
