package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-ops/models"
	"github.com/yeremiapane/restaurant-ops/utils"
)

// Batas pembatalan oleh pelanggan: minimal 2 jam sebelum jadwal.
// Ini satu-satunya aturan temporal keras di sistem; penugasan meja
// sendiri tetap advisory.
const cancellationCutoff = 2 * time.Hour

const maxGuestsPerBooking = 20

// BookingService memegang siklus hidup reservasi dan pre-order-nya.
type BookingService struct {
	DB     *gorm.DB
	Tables *TableService
	Promos *PromotionService
	Menu   MenuCatalog
	Now    func() time.Time
}

func NewBookingService(db *gorm.DB, tables *TableService, promos *PromotionService) *BookingService {
	return &BookingService{
		DB:     db,
		Tables: tables,
		Promos: promos,
		Menu:   NewMenuCatalog(db),
		Now:    time.Now,
	}
}

type PreOrderInput struct {
	MenuID   uint   `json:"menu_id"`
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes"`
}

type CreateBookingInput struct {
	CustomerName   string
	CustomerPhone  string
	CustomerEmail  string
	Date           time.Time
	Time           string
	NumberOfGuests int
	Notes          string
	PreOrderItems  []PreOrderInput
}

// CreateBooking -> buat reservasi. Kalau ada meja available yang muat dan
// bebas bentrok di slot itu, meja langsung dipasang (advisory) dan booking
// terkonfirmasi; kalau tidak, booking menunggu konfirmasi staf.
func (s *BookingService) CreateBooking(in CreateBookingInput) (*models.Booking, error) {
	if in.CustomerName == "" || in.CustomerPhone == "" || in.Time == "" || in.Date.IsZero() {
		return nil, &ValidationError{Msg: "nama, telepon, tanggal, dan jam reservasi wajib diisi"}
	}
	if in.NumberOfGuests < 1 || in.NumberOfGuests > maxGuestsPerBooking {
		return nil, &ValidationError{Msg: fmt.Sprintf("jumlah tamu harus 1..%d", maxGuestsPerBooking)}
	}
	normalized, err := models.NormalizeClock(in.Time)
	if err != nil {
		return nil, &ValidationError{Msg: err.Error()}
	}
	in.Time = normalized
	for _, it := range in.PreOrderItems {
		if it.Quantity < 1 {
			return nil, &ValidationError{Msg: "jumlah pre-order minimal 1"}
		}
	}

	var created models.Booking
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		booking := models.Booking{
			CustomerName:   in.CustomerName,
			CustomerPhone:  in.CustomerPhone,
			CustomerEmail:  in.CustomerEmail,
			Date:           in.Date,
			Time:           in.Time,
			NumberOfGuests: in.NumberOfGuests,
			Status:         models.BookingPendingConfirmation,
			Notes:          in.Notes,
			PaymentStatus:  models.PaymentUnpaid,
		}

		table, err := s.Tables.FindSuitableTable(in.NumberOfGuests, in.Date, in.Time)
		if err != nil {
			return err
		}
		if table != nil {
			booking.TableID = &table.ID
			booking.Status = models.BookingConfirmed
		}

		if err := tx.Create(&booking).Error; err != nil {
			return err
		}

		for _, it := range in.PreOrderItems {
			price, err := s.Menu.GetPrice(it.MenuID)
			if err != nil {
				return err
			}
			item := models.BookingPreOrderItem{
				BookingID:      booking.ID,
				MenuID:         it.MenuID,
				Quantity:       it.Quantity,
				PriceAtBooking: price,
				Notes:          it.Notes,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}

		if table != nil {
			if err := s.Tables.Reserve(tx, table.ID); err != nil {
				return err
			}
		}
		created = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Booking %d dibuat untuk %s (%d tamu, %s %s)",
		created.ID, created.CustomerName, created.NumberOfGuests,
		created.Date.Format("2006-01-02"), created.Time)
	return s.GetBooking(created.ID)
}

// Confirm -> staf mengonfirmasi booking. Total pre-order dibekukan ke
// snapshot pembayaran; promosi yang terpasang baru ditebus di sini
// (bukan saat preview), idempoten per bookingId.
func (s *BookingService) Confirm(bookingID uint) (*models.Booking, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		booking, err := s.lockBooking(tx, bookingID)
		if err != nil {
			return err
		}
		if booking.Status == models.BookingConfirmed {
			return nil // retry idempoten
		}
		if booking.Status != models.BookingPendingConfirmation {
			return &InvalidStateError{Msg: fmt.Sprintf("booking tidak bisa dikonfirmasi dari status %s", booking.Status)}
		}

		sub, err := s.preOrderSubTotal(tx, booking.ID)
		if err != nil {
			return err
		}
		discount := booking.PromotionDiscount
		if discount > sub {
			discount = sub
		}
		updates := map[string]interface{}{
			"status":            models.BookingConfirmed,
			"payment_sub_total": sub,
			"payment_discount":  discount,
			"payment_total":     sub - discount,
		}
		if err := tx.Model(&models.Booking{}).Where("id = ?", booking.ID).Updates(updates).Error; err != nil {
			return err
		}

		if booking.PromotionID != nil {
			if err := s.Promos.RedeemForBooking(tx, *booking.PromotionID, booking.ID); err != nil {
				return err
			}
		}
		if booking.TableID != nil {
			if err := s.Tables.Reserve(tx, *booking.TableID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetBooking(bookingID)
}

// AssignTable memasang meja ke booking (advisory). Bentrok dengan booking
// lain dalam 60 menit di meja yang sama ditolak.
func (s *BookingService) AssignTable(bookingID, tableID uint) (*models.Booking, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		booking, err := s.lockBooking(tx, bookingID)
		if err != nil {
			return err
		}
		if booking.IsTerminal() {
			return &InvalidStateError{Msg: fmt.Sprintf("booking sudah %s", booking.Status)}
		}

		var table models.Table
		if err := tx.First(&table, tableID).Error; err != nil {
			return err
		}
		if table.Capacity < booking.NumberOfGuests {
			return &ValidationError{Msg: fmt.Sprintf("meja %s hanya muat %d tamu", table.Name, table.Capacity)}
		}

		conflict, err := s.Tables.HasBookingConflict(tableID, booking.Date, booking.Time, booking.ID)
		if err != nil {
			return err
		}
		if conflict {
			return &ConflictError{Msg: fmt.Sprintf("meja %s sudah punya reservasi dekat slot itu", table.Name)}
		}

		if err := tx.Model(&models.Booking{}).Where("id = ?", booking.ID).
			Update("table_id", tableID).Error; err != nil {
			return err
		}
		if booking.Status == models.BookingConfirmed {
			return s.Tables.Reserve(tx, tableID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetBooking(bookingID)
}

// CancelByCustomer -> pembatalan oleh pelanggan, hanya boleh sampai 2 jam
// sebelum jadwal. Cek jendela waktu ini read-only, bukan lock.
func (s *BookingService) CancelByCustomer(bookingID uint) (*models.Booking, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		booking, err := s.lockBooking(tx, bookingID)
		if err != nil {
			return err
		}
		if booking.Status != models.BookingPendingConfirmation && booking.Status != models.BookingConfirmed {
			return &InvalidStateError{Msg: fmt.Sprintf("booking berstatus %s tidak bisa dibatalkan", booking.Status)}
		}

		at, err := booking.ScheduledAt()
		if err != nil {
			return &ValidationError{Msg: err.Error()}
		}
		if at.Sub(s.Now()) < cancellationCutoff {
			return &InvalidStateError{Msg: "pembatalan hanya bisa dilakukan minimal 2 jam sebelum jadwal"}
		}

		return s.cancel(tx, booking, models.BookingCancelledByCustomer)
	})
	if err != nil {
		return nil, err
	}
	return s.GetBooking(bookingID)
}

// CancelByRestaurant -> pembatalan oleh pihak restoran, tanpa jendela waktu.
func (s *BookingService) CancelByRestaurant(bookingID uint) (*models.Booking, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		booking, err := s.lockBooking(tx, bookingID)
		if err != nil {
			return err
		}
		if booking.IsTerminal() {
			return &InvalidStateError{Msg: fmt.Sprintf("booking sudah %s", booking.Status)}
		}
		return s.cancel(tx, booking, models.BookingCancelledByRestaurant)
	})
	if err != nil {
		return nil, err
	}
	return s.GetBooking(bookingID)
}

// Complete menandai booking selesai, dipakai saat tamu sudah didudukkan.
func (s *BookingService) Complete(tx *gorm.DB, bookingID uint) error {
	res := tx.Model(&models.Booking{}).
		Where("id = ? AND status = ?", bookingID, models.BookingConfirmed).
		Update("status", models.BookingCompleted)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &InvalidStateError{Msg: "booking tidak dalam status confirmed"}
	}
	return nil
}

// MarkNoShow -> tamu tidak datang; reservasi mejanya dilepas.
func (s *BookingService) MarkNoShow(bookingID uint) (*models.Booking, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		booking, err := s.lockBooking(tx, bookingID)
		if err != nil {
			return err
		}
		if booking.Status != models.BookingConfirmed {
			return &InvalidStateError{Msg: "hanya booking confirmed yang bisa ditandai no_show"}
		}
		if err := tx.Model(&models.Booking{}).Where("id = ?", booking.ID).
			Update("status", models.BookingNoShow).Error; err != nil {
			return err
		}
		if booking.TableID != nil {
			return s.Tables.ReleaseReservation(tx, *booking.TableID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetBooking(bookingID)
}

// PreviewPromotion menghitung diskon kode promosi terhadap subtotal
// pre-order booking, tanpa memakan kuota promosi.
func (s *BookingService) PreviewPromotion(bookingID uint, code string) (int64, error) {
	var booking models.Booking
	if err := s.DB.First(&booking, bookingID).Error; err != nil {
		return 0, err
	}
	sub, err := s.preOrderSubTotal(s.DB, booking.ID)
	if err != nil {
		return 0, err
	}
	_, discount, err := s.Promos.Preview(code, sub)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, &ValidationError{Msg: "kode promosi tidak ditemukan"}
		}
		return 0, err
	}
	return discount, nil
}

// ApplyPromotion memasang snapshot promosi ke booking (belum ditebus;
// penebusan terjadi saat konfirmasi).
func (s *BookingService) ApplyPromotion(bookingID uint, code string) (*models.Booking, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		booking, err := s.lockBooking(tx, bookingID)
		if err != nil {
			return err
		}
		if booking.IsTerminal() {
			return &InvalidStateError{Msg: fmt.Sprintf("booking sudah %s", booking.Status)}
		}
		if booking.PromotionID != nil {
			return &InvalidStateError{Msg: "booking sudah memakai promosi lain"}
		}

		promo, err := s.Promos.FindByCode(code)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &ValidationError{Msg: "kode promosi tidak ditemukan"}
			}
			return err
		}
		sub, err := s.preOrderSubTotal(tx, booking.ID)
		if err != nil {
			return err
		}
		discount, err := EvaluatePromotion(promo, sub, s.Now())
		if err != nil {
			return err
		}

		return tx.Model(&models.Booking{}).Where("id = ?", booking.ID).
			Updates(map[string]interface{}{
				"promotion_id":       promo.ID,
				"promotion_code":     promo.Code,
				"promotion_discount": discount,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetBooking(bookingID)
}

func (s *BookingService) GetBooking(id uint) (*models.Booking, error) {
	var booking models.Booking
	err := s.DB.
		Preload("PreOrderItems").
		Preload("PreOrderItems.Menu").
		Preload("Table").
		First(&booking, id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// ListBookings -> daftar booking dengan filter tanggal/status/pencarian
// nama atau telepon.
func (s *BookingService) ListBookings(date *time.Time, status, search string) ([]models.Booking, error) {
	q := s.DB.Preload("Table").Order("date desc, time desc")
	if date != nil {
		q = q.Where("date >= ? AND date < ?", *date, date.AddDate(0, 0, 1))
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("customer_name LIKE ? OR customer_phone LIKE ?", like, like)
	}
	var bookings []models.Booking
	if err := q.Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (s *BookingService) cancel(tx *gorm.DB, booking *models.Booking, status string) error {
	if err := tx.Model(&models.Booking{}).Where("id = ?", booking.ID).
		Update("status", status).Error; err != nil {
		return err
	}
	if booking.TableID != nil {
		return s.Tables.ReleaseReservation(tx, *booking.TableID)
	}
	return nil
}

func (s *BookingService) lockBooking(tx *gorm.DB, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := tx.First(&booking, id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (s *BookingService) preOrderSubTotal(tx *gorm.DB, bookingID uint) (int64, error) {
	var items []models.BookingPreOrderItem
	if err := tx.Where("booking_id = ?", bookingID).Find(&items).Error; err != nil {
		return 0, err
	}
	var sub int64
	for _, it := range items {
		sub += it.PriceAtBooking * int64(it.Quantity)
	}
	return sub, nil
}
