package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-ops/services"
	"github.com/yeremiapane/restaurant-ops/utils"
)

type PromotionController struct {
	Promos *services.PromotionService
}

func NewPromotionController(promos *services.PromotionService) *PromotionController {
	return &PromotionController{Promos: promos}
}

type promotionRequest struct {
	Code              string `json:"code"`
	Description       string `json:"description"`
	Type              string `json:"type" binding:"required"`
	Value             int64  `json:"value"`
	MinOrderValue     int64  `json:"min_order_value"`
	MaxDiscountAmount *int64 `json:"max_discount_amount"`
	UsageLimit        *int   `json:"usage_limit"`
	ApplicableMenuID  *uint  `json:"applicable_menu_id"`
	StartDate         string `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate           string `json:"end_date" binding:"required"`
	IsActive          *bool  `json:"is_active"`
}

func (r *promotionRequest) toInput() (services.PromotionInput, error) {
	start, err := time.Parse("2006-01-02", r.StartDate)
	if err != nil {
		return services.PromotionInput{}, err
	}
	end, err := time.Parse("2006-01-02", r.EndDate)
	if err != nil {
		return services.PromotionInput{}, err
	}

	return services.PromotionInput{
		Code:              r.Code,
		Description:       r.Description,
		Type:              r.Type,
		Value:             r.Value,
		MinOrderValue:     r.MinOrderValue,
		MaxDiscountAmount: r.MaxDiscountAmount,
		UsageLimit:        r.UsageLimit,
		ApplicableMenuID:  r.ApplicableMenuID,
		StartDate:         start,
		EndDate:           end.Add(24*time.Hour - time.Second), // inklusif sampai akhir hari
		IsActive:          r.IsActive,
	}, nil
}

func (pc *PromotionController) CreatePromotion(c *gin.Context) {
	var req promotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	in, err := req.toInput()
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	promo, err := pc.Promos.CreatePromotion(in)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Promotion created: %s (%s)", promo.Code, promo.Type)
	utils.RespondJSON(c, http.StatusCreated, "Promotion created", promo)
}

func (pc *PromotionController) UpdatePromotion(c *gin.Context) {
	id, ok := paramUint(c, "promo_id")
	if !ok {
		return
	}

	var req promotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	in, err := req.toInput()
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	promo, err := pc.Promos.UpdatePromotion(id, in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Promotion updated", promo)
}

func (pc *PromotionController) DeletePromotion(c *gin.Context) {
	id, ok := paramUint(c, "promo_id")
	if !ok {
		return
	}

	if err := pc.Promos.DeletePromotion(id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Promotion deleted", gin.H{"promotion_id": id})
}

func (pc *PromotionController) ToggleActive(c *gin.Context) {
	id, ok := paramUint(c, "promo_id")
	if !ok {
		return
	}

	promo, err := pc.Promos.ToggleActive(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Promotion toggled", promo)
}

func (pc *PromotionController) GetPromotionByID(c *gin.Context) {
	id, ok := paramUint(c, "promo_id")
	if !ok {
		return
	}

	promo, err := pc.Promos.GetPromotion(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Promotion detail", promo)
}

// GetAllPromotions -> filter opsional: is_active, type, date_status (current|upcoming|expired)
func (pc *PromotionController) GetAllPromotions(c *gin.Context) {
	var isActive *bool
	if a := c.Query("is_active"); a != "" {
		v := a == "true"
		isActive = &v
	}

	promos, err := pc.Promos.ListPromotions(isActive, c.Query("type"), c.Query("date_status"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All promotions", promos)
}

// Preview -> hitung diskon untuk kode + total tanpa menyentuh kuota
func (pc *PromotionController) Preview(c *gin.Context) {
	var body struct {
		Code       string `json:"code" binding:"required"`
		OrderTotal int64  `json:"order_total" binding:"required,min=0"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	promo, discount, err := pc.Promos.Preview(body.Code, body.OrderTotal)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Promotion preview", gin.H{
		"promotion":       promo,
		"discount_amount": discount,
		"final_total":     body.OrderTotal - discount,
	})
}
