package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/restaurant-ops/models"
)

var tableTestNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func TestOccupyGuard(t *testing.T) {
	db := newTestDB(t)
	tables, _, _, _, _ := newServiceGraph(db, tableTestNow)
	table := seedTable(t, db, "A1", 4)

	require.NoError(t, tables.Occupy(db, table.ID, 101))

	// Pemenang race sudah ditentukan; pemanggil kedua kalah.
	err := tables.Occupy(db, table.ID, 102)
	var cErr *ConflictError
	require.ErrorAs(t, err, &cErr)

	var after models.Table
	require.NoError(t, db.First(&after, table.ID).Error)
	assert.Equal(t, models.TableOccupied, after.Status)
	require.NotNil(t, after.CurrentOrderID)
	assert.Equal(t, uint(101), *after.CurrentOrderID)
}

func TestOccupyFromReserved(t *testing.T) {
	db := newTestDB(t)
	tables, _, _, _, _ := newServiceGraph(db, tableTestNow)
	table := seedTable(t, db, "A1", 4)

	require.NoError(t, tables.Reserve(db, table.ID))

	// Reserved bersifat advisory: meja tetap bisa diduduki.
	require.NoError(t, tables.Occupy(db, table.ID, 7))
	got, err := tables.GetTable(table.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TableOccupied, got.Status)
}

func TestClearTableOnlyFromNeedsCleaning(t *testing.T) {
	db := newTestDB(t)
	tables, _, _, _, _ := newServiceGraph(db, tableTestNow)
	table := seedTable(t, db, "A1", 4)

	// Dari available langsung clear -> ditolak.
	_, err := tables.ClearTable(table.ID, "cleaner")
	var sErr *InvalidStateError
	assert.ErrorAs(t, err, &sErr)

	// Jalur normal: occupy -> finish service -> clear.
	require.NoError(t, tables.Occupy(db, table.ID, 11))
	require.NoError(t, tables.FinishService(db, table.ID, 11))

	got, err := tables.GetTable(table.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TableNeedsCleaning, got.Status)

	cleared, err := tables.ClearTable(table.ID, "siti")
	require.NoError(t, err)
	assert.Equal(t, models.TableAvailable, cleared.Status)

	// Cleaning log tertutup dengan nama pembersih.
	var log models.CleaningLog
	require.NoError(t, db.Where("table_id = ?", table.ID).First(&log).Error)
	assert.Equal(t, models.CleaningDone, log.Status)
	assert.Equal(t, "siti", log.CleanedBy)
	require.NotNil(t, log.CleanedAt)
}

func TestFinishServiceGuard(t *testing.T) {
	db := newTestDB(t)
	tables, _, _, _, _ := newServiceGraph(db, tableTestNow)
	table := seedTable(t, db, "A1", 4)

	require.NoError(t, tables.Occupy(db, table.ID, 11))

	// Order lain tidak bisa menyelesaikan meja yang bukan miliknya.
	err := tables.FinishService(db, table.ID, 99)
	var cErr *ConflictError
	assert.ErrorAs(t, err, &cErr)
}

func TestSetUnavailableBlockedWhileOccupied(t *testing.T) {
	db := newTestDB(t)
	tables, _, _, _, _ := newServiceGraph(db, tableTestNow)
	table := seedTable(t, db, "A1", 4)

	require.NoError(t, tables.Occupy(db, table.ID, 11))
	_, err := tables.SetUnavailable(table.ID)
	var sErr *InvalidStateError
	assert.ErrorAs(t, err, &sErr)

	// Setelah selesai dan bersih, unavailable <-> available bolak-balik.
	require.NoError(t, tables.FinishService(db, table.ID, 11))
	_, err = tables.ClearTable(table.ID, "cleaner")
	require.NoError(t, err)

	got, err := tables.SetUnavailable(table.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TableUnavailable, got.Status)

	got, err = tables.SetAvailable(table.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TableAvailable, got.Status)
}

func TestUpcomingReservationsWindow(t *testing.T) {
	db := newTestDB(t)
	tables, _, _, _, _ := newServiceGraph(db, tableTestNow)
	table := seedTable(t, db, "A1", 4)

	day := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	seed := func(status, at string) {
		require.NoError(t, db.Create(&models.Booking{
			CustomerName:   "Tamu " + at,
			CustomerPhone:  "0800",
			Date:           day,
			Time:           at,
			NumberOfGuests: 2,
			Status:         status,
			TableID:        &table.ID,
		}).Error)
	}
	seed(models.BookingConfirmed, "13:00") // dalam jendela 2 jam
	seed(models.BookingConfirmed, "19:00") // di luar jendela
	seed(models.BookingConfirmed, "10:00") // sudah lewat
	seed(models.BookingPendingConfirmation, "13:30")

	var got []models.Booking
	for b := range tables.UpcomingReservations(table.ID, 2*time.Hour) {
		got = append(got, b)
	}
	require.Len(t, got, 1)
	assert.Equal(t, "13:00", got[0].Time)

	// Sequence bisa diulang dan melihat data terkini.
	seed(models.BookingConfirmed, "13:45")
	got = got[:0]
	for b := range tables.UpcomingReservations(table.ID, 2*time.Hour) {
		got = append(got, b)
	}
	assert.Len(t, got, 2)

	// Berhenti di tengah iterasi aman.
	for range tables.UpcomingReservations(table.ID, 2*time.Hour) {
		break
	}
}

func TestFindSuitableTableSmallestFit(t *testing.T) {
	db := newTestDB(t)
	tables, _, _, _, _ := newServiceGraph(db, tableTestNow)
	seedTable(t, db, "Besar", 8)
	kecil := seedTable(t, db, "Kecil", 4)
	seedTable(t, db, "Mini", 2)

	day := time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC)
	got, err := tables.FindSuitableTable(3, day, "19:00")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, kecil.ID, got.ID)

	// Meja terkecil yang muat sudah punya booking dekat slot itu ->
	// jatuh ke meja berikutnya.
	require.NoError(t, db.Create(&models.Booking{
		CustomerName:   "Tamu",
		CustomerPhone:  "0800",
		Date:           day,
		Time:           "19:30",
		NumberOfGuests: 3,
		Status:         models.BookingConfirmed,
		TableID:        &kecil.ID,
	}).Error)
	got, err = tables.FindSuitableTable(3, day, "19:00")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Besar", got.Name)

	// Tidak ada yang muat -> nil tanpa error.
	got, err = tables.FindSuitableTable(12, day, "19:00")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestHasBookingConflictWindow(t *testing.T) {
	db := newTestDB(t)
	tables, _, _, _, _ := newServiceGraph(db, tableTestNow)
	table := seedTable(t, db, "A1", 4)

	day := time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC)
	existing := models.Booking{
		CustomerName:   "Tamu",
		CustomerPhone:  "0800",
		Date:           day,
		Time:           "19:00",
		NumberOfGuests: 2,
		Status:         models.BookingConfirmed,
		TableID:        &table.ID,
	}
	require.NoError(t, db.Create(&existing).Error)

	// 59 menit -> bentrok, tepat 60 menit -> aman.
	conflict, err := tables.HasBookingConflict(table.ID, day, "19:59", 0)
	require.NoError(t, err)
	assert.True(t, conflict)

	conflict, err = tables.HasBookingConflict(table.ID, day, "20:00", 0)
	require.NoError(t, err)
	assert.False(t, conflict)

	// Booking yang sedang diedit dikecualikan dari cek.
	conflict, err = tables.HasBookingConflict(table.ID, day, "19:00", existing.ID)
	require.NoError(t, err)
	assert.False(t, conflict)
}
