package services

import (
	"fmt"
	"iter"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-ops/models"
	"github.com/yeremiapane/restaurant-ops/utils"
)

// Jendela bentrok antar reservasi di meja yang sama.
const bookingConflictWindow = 60 * time.Minute

// TableService memegang aturan perpindahan status meja.
// Okupansi meja adalah resource kritis yang bisa diperebutkan dua terminal
// sekaligus, jadi semua perpindahan penting memakai UPDATE berpengawal
// (cek status lama di klausa WHERE, RowsAffected menentukan menang/kalah).
type TableService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewTableService(db *gorm.DB) *TableService {
	return &TableService{DB: db, Now: time.Now}
}

// CreateTable -> menambahkan meja baru.
func (s *TableService) CreateTable(name string, capacity int, location string) (*models.Table, error) {
	if name == "" {
		return nil, &ValidationError{Msg: "nama meja wajib diisi"}
	}
	if capacity < 1 {
		return nil, &ValidationError{Msg: "kapasitas meja minimal 1"}
	}
	table := models.Table{
		Name:     name,
		Capacity: capacity,
		Status:   models.TableAvailable,
		Location: location,
	}
	if err := s.DB.Create(&table).Error; err != nil {
		return nil, err
	}
	utils.InfoLogger.Printf("Meja baru dibuat: %s (kapasitas=%d)", table.Name, table.Capacity)
	return &table, nil
}

func (s *TableService) GetTable(id uint) (*models.Table, error) {
	var table models.Table
	if err := s.DB.First(&table, id).Error; err != nil {
		return nil, err
	}
	return &table, nil
}

// ListTables -> seluruh meja, opsional difilter status.
func (s *TableService) ListTables(status string) ([]models.Table, error) {
	q := s.DB.Order("name asc")
	if status != "" {
		if !models.IsTableStatus(status) {
			return nil, &ValidationError{Msg: "status meja tidak dikenal: " + status}
		}
		q = q.Where("status = ?", status)
	}
	var tables []models.Table
	if err := q.Find(&tables).Error; err != nil {
		return nil, err
	}
	return tables, nil
}

// Occupy memindahkan meja ke occupied untuk sebuah order, atomik.
// Reserved ikut lolos karena reservasi bersifat advisory: meja yang
// ditandai reserved secara fisik masih kosong dan boleh diduduki.
// Kalah race (status keburu berubah) berarti ConflictError tanpa mutasi.
func (s *TableService) Occupy(tx *gorm.DB, tableID, orderID uint) error {
	res := tx.Model(&models.Table{}).
		Where("id = ? AND status IN ?", tableID, []string{models.TableAvailable, models.TableReserved}).
		Updates(map[string]interface{}{
			"status":           models.TableOccupied,
			"current_order_id": orderID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var table models.Table
		if err := tx.First(&table, tableID).Error; err != nil {
			return err
		}
		return &ConflictError{Msg: fmt.Sprintf("meja %s tidak tersedia (status=%s)", table.Name, table.Status)}
	}
	return nil
}

// FinishService memindahkan meja occupied -> needs_cleaning setelah checkout,
// melepas referensi order aktif dan membuka CleaningLog.
func (s *TableService) FinishService(tx *gorm.DB, tableID, orderID uint) error {
	res := tx.Model(&models.Table{}).
		Where("id = ? AND status = ? AND current_order_id = ?", tableID, models.TableOccupied, orderID).
		Updates(map[string]interface{}{
			"status":           models.TableNeedsCleaning,
			"current_order_id": nil,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &ConflictError{Msg: fmt.Sprintf("meja %d tidak sedang dipakai order %d", tableID, orderID)}
	}
	return tx.Create(&models.CleaningLog{
		TableID: tableID,
		Status:  models.CleaningPending,
	}).Error
}

// Release mengembalikan meja yang dipakai order ke available,
// dipakai saat order dibatalkan sebelum checkout.
func (s *TableService) Release(tx *gorm.DB, tableID, orderID uint) error {
	res := tx.Model(&models.Table{}).
		Where("id = ? AND current_order_id = ?", tableID, orderID).
		Updates(map[string]interface{}{
			"status":           models.TableAvailable,
			"current_order_id": nil,
		})
	return res.Error
}

// ClearTable -> staff menandai meja bersih. Satu-satunya jalur
// needs_cleaning -> available.
func (s *TableService) ClearTable(tableID uint, actor string) (*models.Table, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Table{}).
			Where("id = ? AND status = ?", tableID, models.TableNeedsCleaning).
			Update("status", models.TableAvailable)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var table models.Table
			if err := tx.First(&table, tableID).Error; err != nil {
				return err
			}
			return &InvalidStateError{Msg: fmt.Sprintf("meja %s tidak dalam status needs_cleaning (status=%s)", table.Name, table.Status)}
		}

		// Tutup cleaning log yang masih terbuka untuk meja ini.
		now := s.Now()
		return tx.Model(&models.CleaningLog{}).
			Where("table_id = ? AND status = ?", tableID, models.CleaningPending).
			Updates(map[string]interface{}{
				"status":     models.CleaningDone,
				"cleaned_by": actor,
				"cleaned_at": now,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	utils.InfoLogger.Printf("Meja %d dibersihkan oleh %s", tableID, actor)
	return s.GetTable(tableID)
}

// Reserve menandai meja reserved untuk sebuah booking. Advisory:
// meja yang sedang occupied tidak diubah statusnya, tautan booking-lah
// yang menjadi sumber kebenaran untuk slot mendatang.
func (s *TableService) Reserve(tx *gorm.DB, tableID uint) error {
	return tx.Model(&models.Table{}).
		Where("id = ? AND status = ?", tableID, models.TableAvailable).
		Update("status", models.TableReserved).Error
}

// ReleaseReservation mengembalikan meja reserved ke available.
func (s *TableService) ReleaseReservation(tx *gorm.DB, tableID uint) error {
	return tx.Model(&models.Table{}).
		Where("id = ? AND status = ?", tableID, models.TableReserved).
		Update("status", models.TableAvailable).Error
}

// SetUnavailable -> override administratif, tidak tergantung order/booking.
// Meja yang sedang occupied tidak boleh ditutup di bawah order aktif.
func (s *TableService) SetUnavailable(tableID uint) (*models.Table, error) {
	res := s.DB.Model(&models.Table{}).
		Where("id = ? AND status <> ?", tableID, models.TableOccupied).
		Update("status", models.TableUnavailable)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, &InvalidStateError{Msg: "meja sedang dipakai, tidak bisa ditandai unavailable"}
	}
	return s.GetTable(tableID)
}

// SetAvailable mengeluarkan meja dari unavailable, juga aksi staf eksplisit.
func (s *TableService) SetAvailable(tableID uint) (*models.Table, error) {
	res := s.DB.Model(&models.Table{}).
		Where("id = ? AND status = ?", tableID, models.TableUnavailable).
		Update("status", models.TableAvailable)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, &InvalidStateError{Msg: "meja tidak dalam status unavailable"}
	}
	return s.GetTable(tableID)
}

// UpcomingReservations menghasilkan booking confirmed untuk meja ini yang
// jatuh di [now, now+within], terdekat dulu. Sequence-nya lazy dan bisa
// diulang: tiap range memulai query baru, jadi selalu melihat data terkini.
// Dipakai untuk memperingatkan staf sebelum mendudukkan walk-in; murni
// advisory, tidak ada penguncian meja.
func (s *TableService) UpcomingReservations(tableID uint, within time.Duration) iter.Seq[models.Booking] {
	return func(yield func(models.Booking) bool) {
		now := s.Now()
		horizon := now.Add(within)

		var bookings []models.Booking
		err := s.DB.
			Where("table_id = ? AND status = ?", tableID, models.BookingConfirmed).
			Where("date >= ?", now.AddDate(0, 0, -1)).
			Order("date asc, time asc").
			Find(&bookings).Error
		if err != nil {
			utils.ErrorLogger.Printf("Gagal membaca reservasi meja %d: %v", tableID, err)
			return
		}

		for _, b := range bookings {
			at, err := b.ScheduledAt()
			if err != nil {
				continue
			}
			if at.Before(now) || at.After(horizon) {
				continue
			}
			if !yield(b) {
				return
			}
		}
	}
}

// FindSuitableTable mencari meja available terkecil yang muat untuk jumlah
// tamu dan tidak punya booking lain dalam jendela 60 menit dari slot diminta.
func (s *TableService) FindSuitableTable(guests int, date time.Time, timeStr string) (*models.Table, error) {
	var tables []models.Table
	err := s.DB.
		Where("status = ? AND capacity >= ?", models.TableAvailable, guests).
		Order("capacity asc").
		Find(&tables).Error
	if err != nil {
		return nil, err
	}

	for i := range tables {
		conflict, err := s.HasBookingConflict(tables[i].ID, date, timeStr, 0)
		if err != nil {
			return nil, err
		}
		if !conflict {
			return &tables[i], nil
		}
	}
	return nil, nil
}

// HasBookingConflict melapor apakah meja sudah punya booking aktif dalam
// jendela 60 menit dari slot yang diminta. excludeBookingID mengecualikan
// booking yang sedang diedit.
func (s *TableService) HasBookingConflict(tableID uint, date time.Time, timeStr string, excludeBookingID uint) (bool, error) {
	requested := models.Booking{Date: date, Time: timeStr}
	requestedAt, err := requested.ScheduledAt()
	if err != nil {
		return false, &ValidationError{Msg: err.Error()}
	}

	q := s.DB.
		Where("table_id = ? AND status IN ?", tableID,
			[]string{models.BookingPendingConfirmation, models.BookingConfirmed}).
		Where("date BETWEEN ? AND ?", date.AddDate(0, 0, -1), date.AddDate(0, 0, 1))
	if excludeBookingID != 0 {
		q = q.Where("id <> ?", excludeBookingID)
	}

	var others []models.Booking
	if err := q.Find(&others).Error; err != nil {
		return false, err
	}

	for _, other := range others {
		otherAt, err := other.ScheduledAt()
		if err != nil {
			continue
		}
		diff := otherAt.Sub(requestedAt)
		if diff < 0 {
			diff = -diff
		}
		if diff < bookingConflictWindow {
			return true, nil
		}
	}
	return false, nil
}
