package models

import "time"

// Tag tipe diskon kanonik. "fixed" lama dimigrasikan ke "fixed_amount",
// tidak ada dukungan diam-diam untuk dua tag sekaligus.
const (
	PromoPercentage  = "percentage"
	PromoFixedAmount = "fixed_amount"
	PromoFreeShip    = "free_shipping"
	PromoBuyXGetY    = "buy_x_get_y"
)

// IsPromotionType melapor apakah t adalah tipe promosi yang dikenal.
func IsPromotionType(t string) bool {
	switch t {
	case PromoPercentage, PromoFixedAmount, PromoFreeShip, PromoBuyXGetY:
		return true
	}
	return false
}

type Promotion struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// Code kosong berarti promosi auto-apply, bukan ditebus lewat kode.
	Code        string `gorm:"type:varchar(50);index" json:"code,omitempty"`
	Description string `gorm:"type:text" json:"description"`
	Type        string `gorm:"type:varchar(20);not null" json:"type"`
	// Untuk percentage: persen (mis. 20). Untuk fixed_amount/free_shipping:
	// nominal. Untuk buy_x_get_y: X (beli X gratis 1).
	Value         int64 `gorm:"not null" json:"value"`
	MinOrderValue int64 `gorm:"not null;default:0" json:"min_order_value"`
	// Cap diskon, hanya berlaku untuk percentage.
	MaxDiscountAmount *int64 `json:"max_discount_amount,omitempty"`
	UsageLimit        *int   `json:"usage_limit,omitempty"`
	UsageCount        int    `gorm:"not null;default:0" json:"usage_count"`
	// Untuk buy_x_get_y: menu yang memenuhi syarat; nil berarti semua item.
	ApplicableMenuID *uint `json:"applicable_menu_id,omitempty"`

	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// PromotionRedemption mencatat penebusan per (promotion, order) atau
// per (promotion, booking). Unique index gabungan menjadi kunci idempotensi:
// retry checkout/konfirmasi dengan id yang sama tidak menambah usage_count
// dua kali.
type PromotionRedemption struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PromotionID uint      `gorm:"not null;uniqueIndex:idx_promo_order;uniqueIndex:idx_promo_booking" json:"promotion_id"`
	OrderID     *uint     `gorm:"uniqueIndex:idx_promo_order" json:"order_id,omitempty"`
	BookingID   *uint     `gorm:"uniqueIndex:idx_promo_booking" json:"booking_id,omitempty"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}
