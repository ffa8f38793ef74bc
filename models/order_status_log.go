package models

import "time"

// OrderStatusLog adalah jejak status order, append-only.
// Baris tidak pernah diubah atau dihapus setelah ditulis.
type OrderStatusLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	Status    string    `gorm:"type:varchar(30);not null" json:"status"`
	Actor     string    `gorm:"type:varchar(255)" json:"actor"`
	Note      string    `gorm:"type:text" json:"note,omitempty"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
