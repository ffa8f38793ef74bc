package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-ops/models"
	"github.com/yeremiapane/restaurant-ops/utils"
)

// OrderService memegang siklus hidup order: validasi pembuatan, mutasi item,
// perpindahan status, diskon, dan checkout. Setiap operasi mutasi berjalan
// dalam satu transaksi dan mengembalikan entity lengkap hasil mutasi,
// jadi caller tidak perlu fetch ulang.
type OrderService struct {
	DB      *gorm.DB
	Tables  *TableService
	Promos  *PromotionService
	Menu    MenuCatalog
	TaxRate float64
	Now     func() time.Time
}

func NewOrderService(db *gorm.DB, tables *TableService, promos *PromotionService, taxRate float64) *OrderService {
	return &OrderService{
		DB:      db,
		Tables:  tables,
		Promos:  promos,
		Menu:    NewMenuCatalog(db),
		TaxRate: taxRate,
		Now:     time.Now,
	}
}

type NewOrderItem struct {
	MenuID   uint   `json:"menu_id"`
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes"`
}

type CreateOrderInput struct {
	TableID   *uint
	OrderType string
	Items     []NewOrderItem
	Notes     string
	Actor     string
}

// CreateOrder -> buat order baru (status=pending_confirmation).
// Untuk dine_in meja diduduki secara atomik di transaksi yang sama;
// kalau meja keburu dipakai terminal lain, seluruh operasi batal tanpa
// mutasi apa pun.
func (s *OrderService) CreateOrder(in CreateOrderInput) (*models.Order, error) {
	if in.OrderType == "" {
		in.OrderType = models.OrderTypeDineIn
	}
	if in.OrderType != models.OrderTypeDineIn && in.OrderType != models.OrderTypeTakeaway {
		return nil, &ValidationError{Msg: "order_type tidak dikenal: " + in.OrderType}
	}
	if len(in.Items) == 0 {
		return nil, &ValidationError{Msg: "order harus punya minimal satu item"}
	}
	for _, it := range in.Items {
		if it.Quantity < 1 {
			return nil, &ValidationError{Msg: "jumlah item minimal 1"}
		}
	}
	if in.OrderType == models.OrderTypeDineIn && in.TableID == nil {
		return nil, &ValidationError{Msg: "order dine_in harus punya meja"}
	}

	var created models.Order
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		order := models.Order{
			ReceiptNumber: newReceiptNumber(),
			TableID:       in.TableID,
			OrderType:     in.OrderType,
			Status:        models.OrderPendingConfirmation,
			PaymentStatus: models.PaymentUnpaid,
			Notes:         in.Notes,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for _, it := range in.Items {
			price, err := s.Menu.GetPrice(it.MenuID)
			if err != nil {
				return err
			}
			item := models.OrderItem{
				OrderID:      order.ID,
				MenuID:       it.MenuID,
				Quantity:     it.Quantity,
				PriceAtOrder: price,
				Notes:        it.Notes,
				Status:       models.OrderItemPending,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}

		if err := s.recomputeTotals(tx, order.ID); err != nil {
			return err
		}

		if in.OrderType == models.OrderTypeDineIn {
			if err := s.Tables.Occupy(tx, *in.TableID, order.ID); err != nil {
				return err
			}
		}

		if err := s.appendStatusLog(tx, order.ID, models.OrderPendingConfirmation, in.Actor, "order dibuat"); err != nil {
			return err
		}
		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Order %d dibuat (%s) oleh %s", created.ID, created.OrderType, in.Actor)
	return s.GetOrder(created.ID)
}

// AddItem -> tambah item ke order aktif. Harga dibekukan dari katalog menu
// saat ini; item yang sudah ada untuk menu yang sama ditambah jumlahnya.
func (s *OrderService) AddItem(orderID, menuID uint, qty int, notes string) (*models.Order, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		return s.addItem(tx, orderID, menuID, qty, notes)
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrder(orderID)
}

// addItem menjalankan penambahan item di dalam transaksi milik pemanggil,
// dipakai AddItem dan alur POS yang menambah beberapa item sekaligus.
func (s *OrderService) addItem(tx *gorm.DB, orderID, menuID uint, qty int, notes string) error {
	if qty < 1 {
		return &ValidationError{Msg: "jumlah item minimal 1"}
	}
	order, err := s.mutableOrder(tx, orderID)
	if err != nil {
		return err
	}

	var existing models.OrderItem
	err = tx.Where("order_id = ? AND menu_id = ? AND status = ?",
		order.ID, menuID, models.OrderItemPending).First(&existing).Error
	switch {
	case err == nil:
		existing.Quantity += qty
		if notes != "" {
			existing.Notes = notes
		}
		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		price, err := s.Menu.GetPrice(menuID)
		if err != nil {
			return err
		}
		item := models.OrderItem{
			OrderID:      order.ID,
			MenuID:       menuID,
			Quantity:     qty,
			PriceAtOrder: price,
			Notes:        notes,
			Status:       models.OrderItemPending,
		}
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
	default:
		return err
	}

	return s.recomputeTotals(tx, order.ID)
}

// UpdateItem -> ubah jumlah/catatan item. Harga snapshot tidak pernah diubah.
func (s *OrderService) UpdateItem(orderID, itemID uint, qty *int, notes *string) (*models.Order, error) {
	if qty != nil && *qty < 1 {
		return nil, &ValidationError{Msg: "jumlah item minimal 1"}
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		order, err := s.mutableOrder(tx, orderID)
		if err != nil {
			return err
		}

		var item models.OrderItem
		if err := tx.Where("order_id = ? AND id = ?", order.ID, itemID).First(&item).Error; err != nil {
			return err
		}
		if qty != nil {
			item.Quantity = *qty
		}
		if notes != nil {
			item.Notes = *notes
		}
		if err := tx.Save(&item).Error; err != nil {
			return err
		}
		return s.recomputeTotals(tx, order.ID)
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrder(orderID)
}

// RemoveItem -> hapus item dari order. Order tidak boleh kosong.
func (s *OrderService) RemoveItem(orderID, itemID uint) (*models.Order, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		order, err := s.mutableOrder(tx, orderID)
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&count).Error; err != nil {
			return err
		}
		if count <= 1 {
			return &ValidationError{Msg: "order harus tetap punya minimal satu item"}
		}

		res := tx.Where("order_id = ? AND id = ?", order.ID, itemID).Delete(&models.OrderItem{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return s.recomputeTotals(tx, order.ID)
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrder(orderID)
}

// Transition memindahkan status order.
// Sah bila: target adalah status berikutnya di urutan, atau cancelled dari
// status non-terminal, atau target sudah tercapai (retry idempoten, no-op).
// Pindah ke completed hanya lewat Checkout karena menyangkut pembayaran.
func (s *OrderService) Transition(orderID uint, target, actor, note string) (*models.Order, error) {
	if !models.IsOrderStatus(target) {
		return nil, &ValidationError{Msg: "status order tidak dikenal: " + target}
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			return err
		}
		if order.IsTerminal() {
			return &InvalidStateError{Msg: fmt.Sprintf("order sudah %s, tidak bisa diubah", order.Status)}
		}

		if target == models.OrderCancelled {
			return s.cancelLocked(tx, &order, actor, note)
		}

		cur := models.OrderStatusRank(order.Status)
		dst := models.OrderStatusRank(target)
		if dst <= cur {
			// Retry idempoten: status ini sudah dilewati, tidak ada mutasi
			// dan tidak ada entri riwayat baru.
			return nil
		}
		if dst != cur+1 {
			return &IllegalTransitionError{From: order.Status, To: target}
		}
		if target == models.OrderCompleted && order.PaymentStatus != models.PaymentPaid {
			return &InvalidStateError{Msg: "order belum dibayar, selesaikan lewat checkout"}
		}

		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, order.Status).
			Update("status", target)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &ConflictError{Msg: "status order berubah di tengah jalan, muat ulang lalu coba lagi"}
		}
		return s.appendStatusLog(tx, order.ID, target, actor, note)
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrder(orderID)
}

// CancelOrder membatalkan order dari status non-terminal mana pun.
func (s *OrderService) CancelOrder(orderID uint, actor, note string) (*models.Order, error) {
	return s.Transition(orderID, models.OrderCancelled, actor, note)
}

func (s *OrderService) cancelLocked(tx *gorm.DB, order *models.Order, actor, note string) error {
	res := tx.Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, order.Status).
		Update("status", models.OrderCancelled)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &ConflictError{Msg: "status order berubah di tengah jalan, muat ulang lalu coba lagi"}
	}
	// Meja yang dipegang order ini kembali available.
	if order.OrderType == models.OrderTypeDineIn && order.TableID != nil {
		if err := s.Tables.Release(tx, *order.TableID, order.ID); err != nil {
			return err
		}
	}
	return s.appendStatusLog(tx, order.ID, models.OrderCancelled, actor, note)
}

// MarkItemServed -> pelayan menandai satu item sudah diantar.
// Status order mengikuti: sebagian terantar -> partially_served,
// semua terantar -> fully_served.
func (s *OrderService) MarkItemServed(orderID, itemID uint, actor string) (*models.Order, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		order, err := s.mutableOrder(tx, orderID)
		if err != nil {
			return err
		}

		res := tx.Model(&models.OrderItem{}).
			Where("order_id = ? AND id = ? AND status = ?", order.ID, itemID, models.OrderItemPending).
			Update("status", models.OrderItemServed)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var item models.OrderItem
			if err := tx.Where("order_id = ? AND id = ?", order.ID, itemID).First(&item).Error; err != nil {
				return err
			}
			return &InvalidStateError{Msg: "item sudah ditandai terantar"}
		}

		var pending int64
		if err := tx.Model(&models.OrderItem{}).
			Where("order_id = ? AND status = ?", order.ID, models.OrderItemPending).
			Count(&pending).Error; err != nil {
			return err
		}
		next := models.OrderPartiallyServed
		if pending == 0 {
			next = models.OrderFullyServed
		}
		if models.OrderStatusRank(next) <= models.OrderStatusRank(order.Status) {
			return nil
		}
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("status", next).Error; err != nil {
			return err
		}
		return s.appendStatusLog(tx, order.ID, next, actor, "")
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrder(orderID)
}

// ApplyPromotion -> terapkan kode promosi ke order. Hanya mencatat snapshot
// dan menghitung ulang total; kuota promosi baru terpakai saat checkout.
func (s *OrderService) ApplyPromotion(orderID uint, code string) (*models.Order, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		order, err := s.mutableOrder(tx, orderID)
		if err != nil {
			return err
		}
		if order.PromotionID != nil {
			return &InvalidStateError{Msg: "order sudah memakai promosi lain, lepas dulu sebelum ganti"}
		}

		promo, err := s.Promos.FindByCode(code)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &ValidationError{Msg: "kode promosi tidak ditemukan"}
			}
			return err
		}

		discount, err := EvaluatePromotion(promo, order.SubTotal, s.Now())
		if err != nil {
			return err
		}
		if promo.Type == models.PromoBuyXGetY {
			var items []models.OrderItem
			if err := tx.Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
				return err
			}
			discount = BuyXGetYDiscount(promo, items)
		}

		// Snapshot beku: promosi boleh berubah setelah ini tanpa
		// mempengaruhi order.
		updates := map[string]interface{}{
			"promotion_id":       promo.ID,
			"promotion_code":     promo.Code,
			"promotion_discount": discount,
			"discount_amount":    discount,
		}
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
			return err
		}
		return s.recomputeTotals(tx, order.ID)
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrder(orderID)
}

// RemovePromotion melepas promosi dari order sebelum checkout.
func (s *OrderService) RemovePromotion(orderID uint) (*models.Order, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		order, err := s.mutableOrder(tx, orderID)
		if err != nil {
			return err
		}
		if order.PromotionID == nil {
			return &InvalidStateError{Msg: "order tidak memakai promosi"}
		}
		updates := map[string]interface{}{
			"promotion_id":       nil,
			"promotion_code":     "",
			"promotion_discount": 0,
			"discount_amount":    0,
		}
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
			return err
		}
		return s.recomputeTotals(tx, order.ID)
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrder(orderID)
}

// ApplyManualDiscount -> diskon nominal langsung dari staf,
// menggantikan promosi yang mungkin sedang terpasang.
func (s *OrderService) ApplyManualDiscount(orderID uint, amount int64) (*models.Order, error) {
	if amount < 0 {
		return nil, &ValidationError{Msg: "diskon tidak boleh negatif"}
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		order, err := s.mutableOrder(tx, orderID)
		if err != nil {
			return err
		}
		updates := map[string]interface{}{
			"promotion_id":       nil,
			"promotion_code":     "",
			"promotion_discount": 0,
			"discount_amount":    amount,
		}
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
			return err
		}
		return s.recomputeTotals(tx, order.ID)
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrder(orderID)
}

// Checkout -> bayar dan tutup order. Syarat: fully_served atau
// payment_pending, dan masih punya item. Untuk dine_in meja pindah ke
// needs_cleaning; takeaway tidak menyentuh meja. Penebusan promosi
// idempoten per orderId, retry tidak menghitung kuota dua kali.
func (s *OrderService) Checkout(orderID uint, paymentMethod, actor string) (*models.Order, error) {
	if paymentMethod == "" {
		return nil, &ValidationError{Msg: "metode pembayaran wajib diisi"}
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			return err
		}
		if order.IsTerminal() {
			return &InvalidStateError{Msg: fmt.Sprintf("order sudah %s, tidak bisa checkout", order.Status)}
		}
		if order.Status != models.OrderFullyServed && order.Status != models.OrderPaymentPending {
			return &InvalidStateError{Msg: fmt.Sprintf("order belum siap dibayar (status=%s)", order.Status)}
		}

		var itemCount int64
		if err := tx.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&itemCount).Error; err != nil {
			return err
		}
		if itemCount == 0 {
			return &ValidationError{Msg: "order kosong, tidak bisa checkout"}
		}

		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, order.Status).
			Updates(map[string]interface{}{
				"status":         models.OrderCompleted,
				"payment_status": models.PaymentPaid,
				"payment_method": paymentMethod,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &ConflictError{Msg: "status order berubah di tengah jalan, muat ulang lalu coba lagi"}
		}

		if order.PromotionID != nil {
			if err := s.Promos.Redeem(tx, *order.PromotionID, order.ID); err != nil {
				return err
			}
		}

		if order.OrderType == models.OrderTypeDineIn && order.TableID != nil {
			if err := s.Tables.FinishService(tx, *order.TableID, order.ID); err != nil {
				return err
			}
		}

		return s.appendStatusLog(tx, order.ID, models.OrderCompleted, actor,
			"dibayar via "+paymentMethod)
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Order %d selesai, dibayar via %s oleh %s", orderID, paymentMethod, actor)
	return s.GetOrder(orderID)
}

// GetOrder -> detail order lengkap dengan item dan riwayat status.
func (s *OrderService) GetOrder(id uint) (*models.Order, error) {
	var order models.Order
	err := s.DB.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			// Urutan penyisipan = urutan tiket dapur.
			return db.Order("order_items.id asc")
		}).
		Preload("Items.Menu").
		Preload("StatusLogs", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_status_logs.id asc")
		}).
		Preload("Table").
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// CurrentTableOrder -> order aktif sebuah meja.
func (s *OrderService) CurrentTableOrder(tableID uint) (*models.Order, error) {
	var table models.Table
	if err := s.DB.First(&table, tableID).Error; err != nil {
		return nil, err
	}
	if table.CurrentOrderID == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.GetOrder(*table.CurrentOrderID)
}

// ListOrders -> daftar order dengan filter status/tipe/meja.
func (s *OrderService) ListOrders(status, orderType string, tableID uint) ([]models.Order, error) {
	q := s.DB.Preload("Items").Order("created_at desc")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if orderType != "" {
		q = q.Where("order_type = ?", orderType)
	}
	if tableID != 0 {
		q = q.Where("table_id = ?", tableID)
	}
	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// mutableOrder memuat order dan menolak mutasi pada status terminal.
func (s *OrderService) mutableOrder(tx *gorm.DB, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := tx.First(&order, orderID).Error; err != nil {
		return nil, err
	}
	if order.IsTerminal() {
		return nil, &InvalidStateError{Msg: fmt.Sprintf("order sudah %s, tidak bisa diubah", order.Status)}
	}
	return &order, nil
}

// recomputeTotals menghitung ulang seluruh nominal order dari item terkini.
// Selalu dari nol, tidak pernah patch inkremental.
func (s *OrderService) recomputeTotals(tx *gorm.DB, orderID uint) error {
	var order models.Order
	if err := tx.First(&order, orderID).Error; err != nil {
		return err
	}
	var items []models.OrderItem
	if err := tx.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		return err
	}
	t := ComputeTotals(items, order.DiscountAmount, s.TaxRate)
	return tx.Model(&models.Order{}).Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"sub_total":       t.SubTotal,
			"discount_amount": t.DiscountAmount,
			"tax_amount":      t.TaxAmount,
			"total_amount":    t.TotalAmount,
		}).Error
}

func newReceiptNumber() string {
	return uuid.NewString()
}

func (s *OrderService) appendStatusLog(tx *gorm.DB, orderID uint, status, actor, note string) error {
	return tx.Create(&models.OrderStatusLog{
		OrderID: orderID,
		Status:  status,
		Actor:   actor,
		Note:    note,
	}).Error
}
