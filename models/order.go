package models

import (
	"time"
)

// Status order mengikuti alur layanan di lantai:
// pending_confirmation -> confirmed_by_customer -> sent_to_kitchen ->
// partially_ready -> all_ready_to_serve -> partially_served ->
// fully_served -> payment_pending -> completed.
// "cancelled" bisa dicapai dari semua status non-terminal.
const (
	OrderPendingConfirmation = "pending_confirmation"
	OrderConfirmedByCustomer = "confirmed_by_customer"
	OrderSentToKitchen       = "sent_to_kitchen"
	OrderPartiallyReady      = "partially_ready"
	OrderAllReadyToServe     = "all_ready_to_serve"
	OrderPartiallyServed     = "partially_served"
	OrderFullyServed         = "fully_served"
	OrderPaymentPending      = "payment_pending"
	OrderCompleted           = "completed"
	OrderCancelled           = "cancelled"
)

const (
	OrderTypeDineIn   = "dine_in"
	OrderTypeTakeaway = "takeaway"
)

const (
	PaymentUnpaid = "unpaid"
	PaymentPaid   = "paid"
)

// orderStatusRank memberi urutan linear untuk happy path.
// cancelled sengaja tidak ada di sini karena bukan bagian urutan.
var orderStatusRank = map[string]int{
	OrderPendingConfirmation: 0,
	OrderConfirmedByCustomer: 1,
	OrderSentToKitchen:       2,
	OrderPartiallyReady:      3,
	OrderAllReadyToServe:     4,
	OrderPartiallyServed:     5,
	OrderFullyServed:         6,
	OrderPaymentPending:      7,
	OrderCompleted:           8,
}

// OrderStatusRank mengembalikan posisi status di urutan, -1 jika tidak dikenal.
func OrderStatusRank(status string) int {
	rank, ok := orderStatusRank[status]
	if !ok {
		return -1
	}
	return rank
}

// IsOrderStatus melapor apakah s adalah status order yang dikenal.
func IsOrderStatus(s string) bool {
	return s == OrderCancelled || OrderStatusRank(s) >= 0
}

type Order struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	ReceiptNumber string `gorm:"type:varchar(64);uniqueIndex" json:"receipt_number"`
	TableID       *uint  `gorm:"index" json:"table_id,omitempty"`
	Table         *Table `gorm:"foreignKey:TableID" json:"table,omitempty"`
	OrderType     string `gorm:"type:varchar(20);not null;default:'dine_in'" json:"order_type"`
	Status        string `gorm:"type:varchar(30);not null;default:'pending_confirmation'" json:"status"`

	// Semua nominal dalam satuan mata uang terkecil (integer, tanpa desimal).
	SubTotal       int64 `gorm:"not null;default:0" json:"sub_total"`
	DiscountAmount int64 `gorm:"not null;default:0" json:"discount_amount"`
	TaxAmount      int64 `gorm:"not null;default:0" json:"tax_amount"`
	TotalAmount    int64 `gorm:"not null;default:0" json:"total_amount"`

	// Snapshot promosi yang diterapkan (beku saat apply, bukan referensi hidup).
	PromotionID       *uint  `gorm:"index" json:"promotion_id,omitempty"`
	PromotionCode     string `gorm:"type:varchar(50)" json:"promotion_code,omitempty"`
	PromotionDiscount int64  `gorm:"not null;default:0" json:"promotion_discount"`

	PaymentStatus string `gorm:"type:varchar(20);not null;default:'unpaid'" json:"payment_status"`
	PaymentMethod string `gorm:"type:varchar(30)" json:"payment_method,omitempty"`

	Notes      string           `gorm:"type:text" json:"notes,omitempty"`
	Items      []OrderItem      `gorm:"foreignKey:OrderID" json:"items"`
	StatusLogs []OrderStatusLog `gorm:"foreignKey:OrderID" json:"status_logs,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// IsTerminal melapor apakah order sudah di status akhir dan tidak boleh diubah lagi.
func (o *Order) IsTerminal() bool {
	return o.Status == OrderCompleted || o.Status == OrderCancelled
}
