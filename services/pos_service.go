package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-ops/models"
)

// Jendela peringatan reservasi saat mendudukkan walk-in.
const seatingWarnWindow = 2 * time.Hour

// POSService merangkai dua alur ujung-ke-ujung:
// "seat & order" (meja -> order) dan mendudukkan tamu reservasi
// (booking -> meja -> order dari pre-order).
type POSService struct {
	DB       *gorm.DB
	Orders   *OrderService
	Tables   *TableService
	Bookings *BookingService
}

func NewPOSService(db *gorm.DB, orders *OrderService, tables *TableService, bookings *BookingService) *POSService {
	return &POSService{DB: db, Orders: orders, Tables: tables, Bookings: bookings}
}

// SeatResult membawa order aktif beserta peringatan reservasi dekat.
// Peringatan murni advisory: keputusan tetap di tangan staf karena
// pemenuhan reservasi bergantung penilaian manusia (no-show, datang telat).
type SeatResult struct {
	Order               *models.Order    `json:"order"`
	ReservationWarnings []models.Booking `json:"reservation_warnings,omitempty"`
}

// SeatAndOrder -> alur walk-in: pilih meja, buka order baru atau lanjutkan
// order aktif di meja itu, lalu tambahkan item.
func (s *POSService) SeatAndOrder(tableID uint, items []NewOrderItem, actor string) (*SeatResult, error) {
	warnings := make([]models.Booking, 0)
	for b := range s.Tables.UpcomingReservations(tableID, seatingWarnWindow) {
		warnings = append(warnings, b)
	}

	table, err := s.Tables.GetTable(tableID)
	if err != nil {
		return nil, err
	}

	// Meja yang sedang occupied berarti melanjutkan order aktifnya.
	// Semua item masuk dalam satu transaksi: kalau satu ditolak,
	// order kembali persis seperti sebelumnya.
	if table.Status == models.TableOccupied && table.CurrentOrderID != nil {
		orderID := *table.CurrentOrderID
		err := s.DB.Transaction(func(tx *gorm.DB) error {
			for _, it := range items {
				if err := s.Orders.addItem(tx, orderID, it.MenuID, it.Quantity, it.Notes); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		order, err := s.Orders.GetOrder(orderID)
		if err != nil {
			return nil, err
		}
		return &SeatResult{Order: order, ReservationWarnings: warnings}, nil
	}

	order, err := s.Orders.CreateOrder(CreateOrderInput{
		TableID:   &tableID,
		OrderType: models.OrderTypeDineIn,
		Items:     items,
		Actor:     actor,
	})
	if err != nil {
		return nil, err
	}
	return &SeatResult{Order: order, ReservationWarnings: warnings}, nil
}

// SeatBooking -> tamu reservasi datang: buka order di meja yang dipasang,
// isi dari pre-order dengan harga yang sudah dibekukan saat booking,
// bawa snapshot promosinya, lalu tutup booking sebagai completed.
func (s *POSService) SeatBooking(bookingID uint, actor string) (*models.Order, error) {
	booking, err := s.Bookings.GetBooking(bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != models.BookingConfirmed {
		return nil, &InvalidStateError{Msg: "hanya booking confirmed yang bisa didudukkan"}
	}
	if booking.TableID == nil {
		return nil, &ValidationError{Msg: "booking belum punya meja, pasang meja dulu"}
	}
	if len(booking.PreOrderItems) == 0 {
		return nil, &ValidationError{Msg: "booking tanpa pre-order: pakai alur seat & order biasa"}
	}

	var created *models.Order
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		order := models.Order{
			ReceiptNumber: newReceiptNumber(),
			TableID:       booking.TableID,
			OrderType:     models.OrderTypeDineIn,
			Status:        models.OrderPendingConfirmation,
			PaymentStatus: models.PaymentUnpaid,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for _, pre := range booking.PreOrderItems {
			item := models.OrderItem{
				OrderID:      order.ID,
				MenuID:       pre.MenuID,
				Quantity:     pre.Quantity,
				PriceAtOrder: pre.PriceAtBooking,
				Notes:        pre.Notes,
				Status:       models.OrderItemPending,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}

		if booking.PromotionID != nil {
			if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
				Updates(map[string]interface{}{
					"promotion_id":       *booking.PromotionID,
					"promotion_code":     booking.PromotionCode,
					"promotion_discount": booking.PromotionDiscount,
					"discount_amount":    booking.PromotionDiscount,
				}).Error; err != nil {
				return err
			}
		}
		if err := s.Orders.recomputeTotals(tx, order.ID); err != nil {
			return err
		}

		if err := s.Tables.Occupy(tx, *booking.TableID, order.ID); err != nil {
			return err
		}
		if err := s.Bookings.Complete(tx, booking.ID); err != nil {
			return err
		}
		if err := s.Orders.appendStatusLog(tx, order.ID, models.OrderPendingConfirmation, actor,
			"order dibuka dari booking"); err != nil {
			return err
		}
		created = &order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Orders.GetOrder(created.ID)
}
