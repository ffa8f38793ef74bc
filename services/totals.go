package services

import (
	"math"

	"github.com/yeremiapane/restaurant-ops/models"
)

// Totals hasil perhitungan nominal order. Semua nilai dalam satuan
// mata uang terkecil.
type Totals struct {
	SubTotal       int64
	DiscountAmount int64
	TaxAmount      int64
	TotalAmount    int64
}

// ComputeTotals menghitung ulang seluruh nominal dari nol setiap kali
// item atau diskon berubah; tidak ada patch inkremental supaya nilai
// tidak pernah "drift". Fungsi murni: input sama -> output sama persis.
//
// Pajak dihitung dari (subTotal - diskon), dibulatkan ke satuan terdekat.
func ComputeTotals(items []models.OrderItem, discount int64, taxRate float64) Totals {
	var sub int64
	for _, it := range items {
		sub += it.PriceAtOrder * int64(it.Quantity)
	}

	// Diskon dijepit ke [0, subTotal] sebelum dipakai.
	if discount < 0 {
		discount = 0
	}
	if discount > sub {
		discount = sub
	}

	tax := int64(math.Round(float64(sub-discount) * taxRate))
	total := sub - discount + tax
	if total < 0 {
		total = 0
	}

	return Totals{
		SubTotal:       sub,
		DiscountAmount: discount,
		TaxAmount:      tax,
		TotalAmount:    total,
	}
}
