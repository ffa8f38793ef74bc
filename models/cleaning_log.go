package models

import (
	"time"
)

const (
	CleaningPending = "pending"
	CleaningDone    = "done"
)

// CleaningLog dicatat saat meja masuk needs_cleaning setelah checkout
// dan ditutup saat staff menandai meja bersih.
type CleaningLog struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	TableID   uint       `gorm:"not null;index" json:"table_id"`
	Table     Table      `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Status    string     `gorm:"type:varchar(15);not null;default:'pending'" json:"status"`
	CleanedBy string     `gorm:"type:varchar(255)" json:"cleaned_by,omitempty"`
	CleanedAt *time.Time `json:"cleaned_at,omitempty"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null" json:"updated_at"`
}
