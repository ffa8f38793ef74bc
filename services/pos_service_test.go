package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/restaurant-ops/models"
)

var posTestNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func TestSeatAndOrderWalkIn(t *testing.T) {
	db := newTestDB(t)
	_, _, _, _, pos := newServiceGraph(db, posTestNow)
	menu := seedMenu(t, db, "Nasi Goreng", 100000)
	table := seedTable(t, db, "A1", 4)

	result, err := pos.SeatAndOrder(table.ID, []NewOrderItem{{MenuID: menu.ID, Quantity: 2}}, "pelayan")
	require.NoError(t, err)
	require.NotNil(t, result.Order)
	assert.Equal(t, models.OrderPendingConfirmation, result.Order.Status)
	assert.Empty(t, result.ReservationWarnings)

	got, err := pos.Tables.GetTable(table.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TableOccupied, got.Status)

	// Panggilan kedua di meja yang sama melanjutkan order aktif.
	second, err := pos.SeatAndOrder(table.ID, []NewOrderItem{{MenuID: menu.ID, Quantity: 1}}, "pelayan")
	require.NoError(t, err)
	assert.Equal(t, result.Order.ID, second.Order.ID)
	require.Len(t, second.Order.Items, 1)
	assert.Equal(t, 3, second.Order.Items[0].Quantity)
	assert.Equal(t, int64(300000), second.Order.SubTotal)
}

func TestSeatAndOrderRejectedItemLeavesOrderUnchanged(t *testing.T) {
	db := newTestDB(t)
	_, _, _, _, pos := newServiceGraph(db, posTestNow)
	menu := seedMenu(t, db, "Nasi Goreng", 100000)
	habis := seedMenu(t, db, "Sate Ayam", 50000)
	table := seedTable(t, db, "A1", 4)

	result, err := pos.SeatAndOrder(table.ID, []NewOrderItem{{MenuID: menu.ID, Quantity: 1}}, "pelayan")
	require.NoError(t, err)
	require.Equal(t, int64(100000), result.Order.SubTotal)

	require.NoError(t, db.Model(&models.Menu{}).Where("id = ?", habis.ID).
		Update("is_available", false).Error)

	// Item kedua ditolak (menu habis): item pertama tidak boleh ikut tersimpan.
	_, err = pos.SeatAndOrder(table.ID, []NewOrderItem{
		{MenuID: menu.ID, Quantity: 5},
		{MenuID: habis.ID, Quantity: 1},
	}, "pelayan")
	require.Error(t, err)

	got, err := pos.Orders.GetOrder(result.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100000), got.SubTotal)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 1, got.Items[0].Quantity)
}

func TestSeatAndOrderWarnsAboutReservation(t *testing.T) {
	db := newTestDB(t)
	_, _, _, _, pos := newServiceGraph(db, posTestNow)
	menu := seedMenu(t, db, "Nasi Goreng", 100000)
	table := seedTable(t, db, "A1", 4)

	// Reservasi terkonfirmasi 90 menit dari sekarang.
	day := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&models.Booking{
		CustomerName:   "Rina",
		CustomerPhone:  "0800",
		Date:           day,
		Time:           "13:30",
		NumberOfGuests: 2,
		Status:         models.BookingConfirmed,
		TableID:        &table.ID,
	}).Error)

	// Peringatan muncul tapi tidak memblokir.
	result, err := pos.SeatAndOrder(table.ID, []NewOrderItem{{MenuID: menu.ID, Quantity: 1}}, "pelayan")
	require.NoError(t, err)
	require.Len(t, result.ReservationWarnings, 1)
	assert.Equal(t, "Rina", result.ReservationWarnings[0].CustomerName)
	assert.NotNil(t, result.Order)
}

func TestSeatBookingFromPreOrder(t *testing.T) {
	db := newTestDB(t)
	_, promos, orders, bookings, pos := newServiceGraph(db, posTestNow)
	menu := seedMenu(t, db, "Nasi Goreng", 100000)
	table := seedTable(t, db, "A1", 4)

	_, err := promos.CreatePromotion(PromotionInput{
		Code: "HEMAT", Type: models.PromoFixedAmount, Value: 20000,
		StartDate: posTestNow.AddDate(0, 0, -1),
		EndDate:   posTestNow.AddDate(0, 1, 0),
	})
	require.NoError(t, err)

	day := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	in := bookingInput(day, "19:00", 2)
	in.PreOrderItems = []PreOrderInput{{MenuID: menu.ID, Quantity: 2}}
	booking, err := bookings.CreateBooking(in)
	require.NoError(t, err)
	require.Equal(t, models.BookingConfirmed, booking.Status)

	booking, err = bookings.ApplyPromotion(booking.ID, "HEMAT")
	require.NoError(t, err)

	// Harga menu naik antara booking dan kedatangan; order tetap memakai
	// harga yang dibekukan saat booking.
	require.NoError(t, db.Model(&models.Menu{}).Where("id = ?", menu.ID).
		Update("price", 175000).Error)

	order, err := pos.SeatBooking(booking.ID, "pelayan")
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, int64(100000), order.Items[0].PriceAtOrder)
	assert.Equal(t, int64(200000), order.SubTotal)
	assert.Equal(t, int64(20000), order.DiscountAmount)
	assert.Equal(t, "HEMAT", order.PromotionCode)
	assert.Equal(t, int64(18000), order.TaxAmount)
	assert.Equal(t, int64(198000), order.TotalAmount)

	// Booking selesai, meja occupied oleh order baru.
	after, err := bookings.GetBooking(booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCompleted, after.Status)

	got, err := orders.CurrentTableOrder(table.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
}

func TestSeatBookingRequirements(t *testing.T) {
	db := newTestDB(t)
	_, _, _, bookings, pos := newServiceGraph(db, posTestNow)
	menu := seedMenu(t, db, "Nasi Goreng", 100000)
	seedTable(t, db, "A1", 4)

	day := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	// Booking confirmed tanpa pre-order -> pakai alur walk-in.
	in := bookingInput(day, "19:00", 2)
	plain, err := bookings.CreateBooking(in)
	require.NoError(t, err)
	require.Equal(t, models.BookingConfirmed, plain.Status)
	_, err = pos.SeatBooking(plain.ID, "pelayan")
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)

	// Booking yang belum confirmed tidak bisa didudukkan.
	in = bookingInput(day, "20:30", 2)
	in.PreOrderItems = []PreOrderInput{{MenuID: menu.ID, Quantity: 1}}
	pending, err := bookings.CreateBooking(in)
	require.NoError(t, err)
	if pending.Status == models.BookingConfirmed {
		// Meja bisa saja masih kebagian; paksa skenario pending.
		require.NoError(t, db.Model(&models.Booking{}).Where("id = ?", pending.ID).
			Update("status", models.BookingPendingConfirmation).Error)
	}
	_, err = pos.SeatBooking(pending.ID, "pelayan")
	var sErr *InvalidStateError
	assert.ErrorAs(t, err, &sErr)
}
