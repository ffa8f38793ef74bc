package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/restaurant-ops/models"
)

var promoTestNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func seedPromo(t *testing.T, promos *PromotionService, code string, usageLimit *int) *models.Promotion {
	t.Helper()
	promo, err := promos.CreatePromotion(PromotionInput{
		Code:       code,
		Type:       models.PromoFixedAmount,
		Value:      10000,
		UsageLimit: usageLimit,
		StartDate:  promoTestNow.AddDate(0, 0, -1),
		EndDate:    promoTestNow.AddDate(0, 0, 1),
	})
	require.NoError(t, err)
	return promo
}

func TestCreatePromotionValidation(t *testing.T) {
	db := newTestDB(t)
	_, promos, _, _, _ := newServiceGraph(db, promoTestNow)

	var vErr *ValidationError

	_, err := promos.CreatePromotion(PromotionInput{Type: "mystery"})
	assert.ErrorAs(t, err, &vErr)

	_, err = promos.CreatePromotion(PromotionInput{
		Type: models.PromoPercentage, Value: 150,
		StartDate: promoTestNow, EndDate: promoTestNow.AddDate(0, 0, 1),
	})
	assert.ErrorAs(t, err, &vErr)

	cap := int64(5000)
	_, err = promos.CreatePromotion(PromotionInput{
		Type: models.PromoFixedAmount, Value: 10000, MaxDiscountAmount: &cap,
		StartDate: promoTestNow, EndDate: promoTestNow.AddDate(0, 0, 1),
	})
	assert.ErrorAs(t, err, &vErr)

	_, err = promos.CreatePromotion(PromotionInput{
		Type: models.PromoFixedAmount, Value: 10000,
		StartDate: promoTestNow, EndDate: promoTestNow.AddDate(0, 0, -1),
	})
	assert.ErrorAs(t, err, &vErr)

	// Kode disimpan uppercase dan harus unik.
	created, err := promos.CreatePromotion(PromotionInput{
		Code: "hemat", Type: models.PromoFixedAmount, Value: 10000,
		StartDate: promoTestNow, EndDate: promoTestNow.AddDate(0, 0, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, "HEMAT", created.Code)

	_, err = promos.CreatePromotion(PromotionInput{
		Code: "Hemat", Type: models.PromoFixedAmount, Value: 10000,
		StartDate: promoTestNow, EndDate: promoTestNow.AddDate(0, 0, 1),
	})
	assert.ErrorAs(t, err, &vErr)
}

func TestFindByCodeCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	_, promos, _, _, _ := newServiceGraph(db, promoTestNow)
	seedPromo(t, promos, "HEMAT", nil)

	got, err := promos.FindByCode("  hemat ")
	require.NoError(t, err)
	assert.Equal(t, "HEMAT", got.Code)
}

func TestPreviewDoesNotConsumeQuota(t *testing.T) {
	db := newTestDB(t)
	_, promos, _, _, _ := newServiceGraph(db, promoTestNow)
	limit := 3
	promo := seedPromo(t, promos, "HEMAT", &limit)

	for i := 0; i < 10; i++ {
		_, discount, err := promos.Preview("HEMAT", 50000)
		require.NoError(t, err)
		assert.Equal(t, int64(10000), discount)
	}

	after, err := promos.GetPromotion(promo.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, after.UsageCount)
}

func TestRedeemIdempotentPerOrder(t *testing.T) {
	db := newTestDB(t)
	_, promos, _, _, _ := newServiceGraph(db, promoTestNow)
	limit := 5
	promo := seedPromo(t, promos, "HEMAT", &limit)

	orderID := uint(42)
	require.NoError(t, promos.Redeem(db, promo.ID, orderID))

	// Retry untuk order yang sama: no-op sukses, kuota tetap 1.
	require.NoError(t, promos.Redeem(db, promo.ID, orderID))
	require.NoError(t, promos.Redeem(db, promo.ID, orderID))

	after, err := promos.GetPromotion(promo.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, after.UsageCount)

	var redemptions int64
	db.Model(&models.PromotionRedemption{}).Where("promotion_id = ?", promo.ID).Count(&redemptions)
	assert.Equal(t, int64(1), redemptions)
}

func TestRedeemUsageLimitGuard(t *testing.T) {
	db := newTestDB(t)
	_, promos, _, _, _ := newServiceGraph(db, promoTestNow)
	limit := 1
	promo := seedPromo(t, promos, "SEKALI", &limit)

	require.NoError(t, promos.Redeem(db, promo.ID, 1))

	// Slot terakhir sudah terpakai; order lain ditolak.
	err := promos.Redeem(db, promo.ID, 2)
	assert.ErrorIs(t, err, ErrPromotionUsageLimit)

	after, err := promos.GetPromotion(promo.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, after.UsageCount)
}

func TestRedeemInactive(t *testing.T) {
	db := newTestDB(t)
	_, promos, _, _, _ := newServiceGraph(db, promoTestNow)
	promo := seedPromo(t, promos, "MATI", nil)
	_, err := promos.ToggleActive(promo.ID)
	require.NoError(t, err)

	err = promos.Redeem(db, promo.ID, 1)
	assert.ErrorIs(t, err, ErrPromotionInactive)
}

func TestRedeemOrderAndBookingIndependent(t *testing.T) {
	db := newTestDB(t)
	_, promos, _, _, _ := newServiceGraph(db, promoTestNow)
	promo := seedPromo(t, promos, "HEMAT", nil)

	// Order dan booking dengan id numerik sama tetap dua penebusan berbeda.
	require.NoError(t, promos.Redeem(db, promo.ID, 9))
	require.NoError(t, promos.RedeemForBooking(db, promo.ID, 9))

	after, err := promos.GetPromotion(promo.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, after.UsageCount)

	// Masing-masing jalur tetap idempoten.
	require.NoError(t, promos.RedeemForBooking(db, promo.ID, 9))
	after, err = promos.GetPromotion(promo.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, after.UsageCount)
}

func TestListPromotionsDateStatus(t *testing.T) {
	db := newTestDB(t)
	_, promos, _, _, _ := newServiceGraph(db, promoTestNow)

	mk := func(code string, start, end time.Time) {
		_, err := promos.CreatePromotion(PromotionInput{
			Code: code, Type: models.PromoFixedAmount, Value: 1000,
			StartDate: start, EndDate: end,
		})
		require.NoError(t, err)
	}
	mk("LALU", promoTestNow.AddDate(0, -2, 0), promoTestNow.AddDate(0, -1, 0))
	mk("KINI", promoTestNow.AddDate(0, 0, -1), promoTestNow.AddDate(0, 0, 1))
	mk("NANTI", promoTestNow.AddDate(0, 1, 0), promoTestNow.AddDate(0, 2, 0))

	got, err := promos.ListPromotions(nil, "", "current")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "KINI", got[0].Code)

	got, err = promos.ListPromotions(nil, "", "expired")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "LALU", got[0].Code)

	got, err = promos.ListPromotions(nil, "", "upcoming")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "NANTI", got[0].Code)

	_, err = promos.ListPromotions(nil, "", "someday")
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}
