package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-ops/models"
	"github.com/yeremiapane/restaurant-ops/utils"
)

// PromotionService: CRUD promosi plus preview dan penebusan.
// Preview memakai EvaluatePromotion yang murni, penebusan (redeem) adalah
// langkah terpisah yang baru dipanggil saat checkout / konfirmasi booking,
// supaya promosi bisa dipratinjau tanpa memakan kuota.
type PromotionService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewPromotionService(db *gorm.DB) *PromotionService {
	return &PromotionService{DB: db, Now: time.Now}
}

type PromotionInput struct {
	Code              string
	Description       string
	Type              string
	Value             int64
	MinOrderValue     int64
	MaxDiscountAmount *int64
	UsageLimit        *int
	ApplicableMenuID  *uint
	StartDate         time.Time
	EndDate           time.Time
	IsActive          *bool
}

func (in *PromotionInput) validate() error {
	if !models.IsPromotionType(in.Type) {
		return &ValidationError{Msg: "tipe promosi tidak dikenal: " + in.Type}
	}
	if in.Value < 0 {
		return &ValidationError{Msg: "nilai promosi tidak boleh negatif"}
	}
	if in.Type == models.PromoPercentage && in.Value > 100 {
		return &ValidationError{Msg: "persentase diskon maksimal 100"}
	}
	if in.Type != models.PromoPercentage && in.MaxDiscountAmount != nil {
		return &ValidationError{Msg: "max_discount_amount hanya berlaku untuk tipe percentage"}
	}
	if in.EndDate.Before(in.StartDate) {
		return &ValidationError{Msg: "tanggal selesai promosi sebelum tanggal mulai"}
	}
	return nil
}

// CreatePromotion -> admin membuat promosi baru. Kode disimpan uppercase.
func (s *PromotionService) CreatePromotion(in PromotionInput) (*models.Promotion, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	code := strings.ToUpper(strings.TrimSpace(in.Code))
	if code != "" {
		var count int64
		if err := s.DB.Model(&models.Promotion{}).Where("code = ?", code).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, &ValidationError{Msg: "kode promosi sudah dipakai"}
		}
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	promo := models.Promotion{
		Code:              code,
		Description:       in.Description,
		Type:              in.Type,
		Value:             in.Value,
		MinOrderValue:     in.MinOrderValue,
		MaxDiscountAmount: in.MaxDiscountAmount,
		UsageLimit:        in.UsageLimit,
		ApplicableMenuID:  in.ApplicableMenuID,
		StartDate:         in.StartDate,
		EndDate:           in.EndDate,
		IsActive:          active,
	}
	if err := s.DB.Create(&promo).Error; err != nil {
		return nil, err
	}
	utils.InfoLogger.Printf("Promosi dibuat: id=%d code=%q type=%s", promo.ID, promo.Code, promo.Type)
	return &promo, nil
}

// UpdatePromotion -> edit admin.
func (s *PromotionService) UpdatePromotion(id uint, in PromotionInput) (*models.Promotion, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var promo models.Promotion
	if err := s.DB.First(&promo, id).Error; err != nil {
		return nil, err
	}

	code := strings.ToUpper(strings.TrimSpace(in.Code))
	if code != "" && code != promo.Code {
		var count int64
		if err := s.DB.Model(&models.Promotion{}).
			Where("code = ? AND id <> ?", code, id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, &ValidationError{Msg: "kode promosi sudah dipakai"}
		}
	}

	promo.Code = code
	promo.Description = in.Description
	promo.Type = in.Type
	promo.Value = in.Value
	promo.MinOrderValue = in.MinOrderValue
	promo.MaxDiscountAmount = in.MaxDiscountAmount
	promo.UsageLimit = in.UsageLimit
	promo.ApplicableMenuID = in.ApplicableMenuID
	promo.StartDate = in.StartDate
	promo.EndDate = in.EndDate
	if in.IsActive != nil {
		promo.IsActive = *in.IsActive
	}
	if err := s.DB.Save(&promo).Error; err != nil {
		return nil, err
	}
	return &promo, nil
}

func (s *PromotionService) DeletePromotion(id uint) error {
	return s.DB.Delete(&models.Promotion{}, id).Error
}

// ToggleActive membalik flag aktif promosi.
func (s *PromotionService) ToggleActive(id uint) (*models.Promotion, error) {
	var promo models.Promotion
	if err := s.DB.First(&promo, id).Error; err != nil {
		return nil, err
	}
	promo.IsActive = !promo.IsActive
	if err := s.DB.Save(&promo).Error; err != nil {
		return nil, err
	}
	return &promo, nil
}

func (s *PromotionService) GetPromotion(id uint) (*models.Promotion, error) {
	var promo models.Promotion
	if err := s.DB.First(&promo, id).Error; err != nil {
		return nil, err
	}
	return &promo, nil
}

// ListPromotions -> daftar promosi dengan filter aktif/tipe dan status tanggal
// (current/upcoming/expired).
func (s *PromotionService) ListPromotions(isActive *bool, promoType, dateStatus string) ([]models.Promotion, error) {
	q := s.DB.Order("created_at desc")
	if isActive != nil {
		q = q.Where("is_active = ?", *isActive)
	}
	if promoType != "" {
		q = q.Where("type = ?", promoType)
	}
	now := s.Now()
	switch dateStatus {
	case "":
	case "current":
		q = q.Where("start_date <= ? AND end_date >= ?", now, now)
	case "upcoming":
		q = q.Where("start_date > ?", now)
	case "expired":
		q = q.Where("end_date < ?", now)
	default:
		return nil, &ValidationError{Msg: "date_status tidak dikenal: " + dateStatus}
	}
	var promos []models.Promotion
	if err := q.Find(&promos).Error; err != nil {
		return nil, err
	}
	return promos, nil
}

// FindByCode mencari promosi berdasarkan kode (case-insensitive).
func (s *PromotionService) FindByCode(code string) (*models.Promotion, error) {
	var promo models.Promotion
	err := s.DB.Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).First(&promo).Error
	if err != nil {
		return nil, err
	}
	return &promo, nil
}

// Preview memvalidasi kode terhadap total order dan menghitung diskon
// tanpa efek samping apa pun; usage_count tidak tersentuh.
func (s *PromotionService) Preview(code string, orderTotal int64) (*models.Promotion, int64, error) {
	promo, err := s.FindByCode(code)
	if err != nil {
		return nil, 0, err
	}
	discount, err := EvaluatePromotion(promo, orderTotal, s.Now())
	if err != nil {
		return nil, 0, err
	}
	return promo, discount, nil
}

// Redeem menebus promosi untuk sebuah order, idempoten per orderId.
// Limit pemakaian divalidasi ulang tepat sebelum increment: increment
// berpengawal di SQL memastikan dua checkout yang berebut slot terakhir
// tidak dua-duanya lolos.
func (s *PromotionService) Redeem(tx *gorm.DB, promotionID, orderID uint) error {
	return s.redeem(tx, promotionID, &orderID, nil)
}

// RedeemForBooking: jalur yang sama untuk konfirmasi booking ber-pre-order.
func (s *PromotionService) RedeemForBooking(tx *gorm.DB, promotionID, bookingID uint) error {
	return s.redeem(tx, promotionID, nil, &bookingID)
}

func (s *PromotionService) redeem(tx *gorm.DB, promotionID uint, orderID, bookingID *uint) error {
	// Sudah pernah ditebus untuk subjek ini -> no-op (retry checkout).
	q := tx.Model(&models.PromotionRedemption{}).Where("promotion_id = ?", promotionID)
	if orderID != nil {
		q = q.Where("order_id = ?", *orderID)
	} else {
		q = q.Where("booking_id = ?", *bookingID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	res := tx.Model(&models.Promotion{}).
		Where("id = ? AND is_active = ? AND (usage_limit IS NULL OR usage_count < usage_limit)",
			promotionID, true).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var promo models.Promotion
		if err := tx.First(&promo, promotionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &ValidationError{Msg: "promosi tidak ditemukan"}
			}
			return err
		}
		if !promo.IsActive {
			return ErrPromotionInactive
		}
		return ErrPromotionUsageLimit
	}

	return tx.Create(&models.PromotionRedemption{
		PromotionID: promotionID,
		OrderID:     orderID,
		BookingID:   bookingID,
	}).Error
}
