package models

import (
	"fmt"
	"strings"
	"time"
)

const (
	BookingPendingConfirmation   = "pending_confirmation"
	BookingConfirmed             = "confirmed"
	BookingCancelledByCustomer   = "cancelled_by_customer"
	BookingCancelledByRestaurant = "cancelled_by_restaurant"
	BookingCompleted             = "completed"
	BookingNoShow                = "no_show"
)

type Booking struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	CustomerName  string `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerPhone string `gorm:"type:varchar(30);not null" json:"customer_phone"`
	CustomerEmail string `gorm:"type:varchar(255)" json:"customer_email,omitempty"`

	// Tanggal reservasi (komponen tanggal saja) dan jam "HH:MM".
	Date           time.Time `gorm:"not null;index" json:"date"`
	Time           string    `gorm:"type:varchar(5);not null" json:"time"`
	NumberOfGuests int       `gorm:"not null" json:"number_of_guests"`
	Status         string    `gorm:"type:varchar(30);not null;default:'pending_confirmation'" json:"status"`
	Notes          string    `gorm:"type:text" json:"notes,omitempty"`

	// Penugasan meja bersifat advisory; tidak mengunci meja dari walk-in.
	TableID *uint  `gorm:"index" json:"table_id,omitempty"`
	Table   *Table `gorm:"foreignKey:TableID" json:"table,omitempty"`

	PreOrderItems []BookingPreOrderItem `gorm:"foreignKey:BookingID" json:"pre_order_items,omitempty"`

	// Snapshot promosi, bentuk yang sama dengan Order.
	PromotionID       *uint  `gorm:"index" json:"promotion_id,omitempty"`
	PromotionCode     string `gorm:"type:varchar(50)" json:"promotion_code,omitempty"`
	PromotionDiscount int64  `gorm:"not null;default:0" json:"promotion_discount"`

	// Info pembayaran pre-order (opsional, untuk pre-order yang dibayar di muka).
	PaymentSubTotal int64  `gorm:"not null;default:0" json:"payment_sub_total"`
	PaymentDiscount int64  `gorm:"not null;default:0" json:"payment_discount"`
	PaymentTotal    int64  `gorm:"not null;default:0" json:"payment_total"`
	PaymentMethod   string `gorm:"type:varchar(30)" json:"payment_method,omitempty"`
	PaymentStatus   string `gorm:"type:varchar(20);not null;default:'unpaid'" json:"payment_status"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// NormalizeClock memvalidasi jam reservasi dan mengembalikan bentuk
// dua digit "HH:MM" ("9:30" -> "09:30"). Kolom time diurutkan sebagai
// string, jadi semua nilai tersimpan harus zero-padded.
func NormalizeClock(s string) (string, error) {
	parsed, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("format jam booking tidak valid: %q", s)
	}
	return parsed.Format("15:04"), nil
}

// ScheduledAt menggabungkan Date + Time menjadi satu titik waktu.
func (b *Booking) ScheduledAt() (time.Time, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(b.Time, "%d:%d", &hour, &minute); err != nil {
		return time.Time{}, fmt.Errorf("format jam booking tidak valid: %q", b.Time)
	}
	d := b.Date
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, d.Location()), nil
}

// IsTerminal melapor apakah booking sudah tidak bisa berubah lagi.
func (b *Booking) IsTerminal() bool {
	switch b.Status {
	case BookingCancelledByCustomer, BookingCancelledByRestaurant, BookingCompleted, BookingNoShow:
		return true
	}
	return false
}

type BookingPreOrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	BookingID uint    `gorm:"not null;index" json:"booking_id"`
	Booking   Booking `gorm:"foreignKey:BookingID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	MenuID    uint    `gorm:"not null" json:"menu_id"`
	Menu      Menu    `gorm:"foreignKey:MenuID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"menu"`
	Quantity  int     `gorm:"not null;default:1" json:"quantity"`
	// Harga dibekukan saat pre-order dibuat, sama seperti OrderItem.
	PriceAtBooking int64     `gorm:"not null" json:"price_at_booking"`
	Notes          string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`
}
