package models

import "time"

const (
	TableAvailable     = "available"
	TableOccupied      = "occupied"
	TableReserved      = "reserved"
	TableNeedsCleaning = "needs_cleaning"
	TableUnavailable   = "unavailable"
)

// IsTableStatus melapor apakah s adalah status meja yang dikenal.
func IsTableStatus(s string) bool {
	switch s {
	case TableAvailable, TableOccupied, TableReserved, TableNeedsCleaning, TableUnavailable:
		return true
	}
	return false
}

type Table struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"type:varchar(50);unique;not null" json:"name"`
	Capacity int    `gorm:"not null" json:"capacity"`
	Status   string `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	Location string `gorm:"type:varchar(100)" json:"location,omitempty"`
	// CurrentOrderID terisi hanya saat status=occupied; referensi dibersihkan
	// saat meja selesai dipakai, order-nya sendiri tidak pernah dihapus.
	CurrentOrderID *uint     `json:"current_order_id,omitempty"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`
}
