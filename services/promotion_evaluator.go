package services

import (
	"time"

	"github.com/yeremiapane/restaurant-ops/models"
)

// EvaluatePromotion memvalidasi promosi terhadap total order lalu menghitung
// nominal diskonnya. Fungsi murni tanpa efek samping: tidak menyentuh
// usage_count, jadi aman dipakai untuk preview berulang kali.
//
// Urutan validasi (berhenti di kegagalan pertama):
//  1. isActive
//  2. now di dalam [startDate, endDate]
//  3. usageLimit belum tercapai
//  4. orderTotal >= minOrderValue
func EvaluatePromotion(p *models.Promotion, orderTotal int64, now time.Time) (int64, error) {
	if !p.IsActive {
		return 0, ErrPromotionInactive
	}
	if now.Before(p.StartDate) {
		return 0, ErrPromotionNotStarted
	}
	if now.After(p.EndDate) {
		return 0, ErrPromotionExpired
	}
	if p.UsageLimit != nil && p.UsageCount >= *p.UsageLimit {
		return 0, ErrPromotionUsageLimit
	}
	if orderTotal < p.MinOrderValue {
		return 0, ErrPromotionMinOrder
	}

	switch p.Type {
	case models.PromoPercentage:
		raw := orderTotal * p.Value / 100
		if p.MaxDiscountAmount != nil && raw > *p.MaxDiscountAmount {
			raw = *p.MaxDiscountAmount
		}
		return raw, nil
	case models.PromoFixedAmount:
		// Tidak pernah mendiskon melewati total order.
		if p.Value > orderTotal {
			return orderTotal, nil
		}
		return p.Value, nil
	case models.PromoFreeShip:
		// Offset ongkir, tidak relevan untuk order di tempat: diskon 0.
		return 0, nil
	case models.PromoBuyXGetY:
		// Butuh konteks item per baris; evaluator hanya meloloskan
		// eligibility, nominalnya dihitung caller dari item yang cocok.
		return 0, nil
	default:
		return 0, &ValidationError{Msg: "tipe promosi tidak dikenal: " + p.Type}
	}
}

// BuyXGetYDiscount menghitung diskon buy_x_get_y dari baris item yang cocok:
// satu unit gratis untuk tiap kelipatan Value unit yang dipesan.
func BuyXGetYDiscount(p *models.Promotion, items []models.OrderItem) int64 {
	if p.Type != models.PromoBuyXGetY || p.Value <= 0 {
		return 0
	}
	var discount int64
	for _, it := range items {
		if p.ApplicableMenuID != nil && it.MenuID != *p.ApplicableMenuID {
			continue
		}
		freeUnits := int64(it.Quantity) / p.Value
		discount += freeUnits * it.PriceAtOrder
	}
	return discount
}
