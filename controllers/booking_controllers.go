package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-ops/services"
	"github.com/yeremiapane/restaurant-ops/utils"
)

type BookingController struct {
	Bookings *services.BookingService
}

func NewBookingController(bookings *services.BookingService) *BookingController {
	return &BookingController{Bookings: bookings}
}

// CreateBooking -> reservasi baru, meja dipasang otomatis kalau ada yang muat
func (bc *BookingController) CreateBooking(c *gin.Context) {
	var body struct {
		CustomerName   string                   `json:"customer_name" binding:"required"`
		CustomerPhone  string                   `json:"customer_phone" binding:"required"`
		CustomerEmail  string                   `json:"customer_email"`
		Date           string                   `json:"date" binding:"required"` // YYYY-MM-DD
		Time           string                   `json:"time" binding:"required"` // HH:MM
		NumberOfGuests int                      `json:"number_of_guests" binding:"required,min=1"`
		Notes          string                   `json:"notes"`
		PreOrderItems  []services.PreOrderInput `json:"pre_order_items"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	date, err := time.Parse("2006-01-02", body.Date)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	booking, err := bc.Bookings.CreateBooking(services.CreateBookingInput{
		CustomerName:   body.CustomerName,
		CustomerPhone:  body.CustomerPhone,
		CustomerEmail:  body.CustomerEmail,
		Date:           date,
		Time:           body.Time,
		NumberOfGuests: body.NumberOfGuests,
		Notes:          body.Notes,
		PreOrderItems:  body.PreOrderItems,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Booking %d created for %s (%s %s)", booking.ID, booking.CustomerName, body.Date, body.Time)
	utils.RespondJSON(c, http.StatusCreated, "Booking created", booking)
}

// GetAllBookings -> filter opsional: date (YYYY-MM-DD), status, search
func (bc *BookingController) GetAllBookings(c *gin.Context) {
	var date *time.Time
	if d := c.Query("date"); d != "" {
		parsed, err := time.Parse("2006-01-02", d)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		date = &parsed
	}

	bookings, err := bc.Bookings.ListBookings(date, c.Query("status"), c.Query("search"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All bookings", bookings)
}

func (bc *BookingController) GetBookingByID(c *gin.Context) {
	id, ok := paramUint(c, "booking_id")
	if !ok {
		return
	}

	booking, err := bc.Bookings.GetBooking(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Booking detail", booking)
}

// Confirm -> pending_confirmation -> confirmed, nominal pre-order dibekukan
func (bc *BookingController) Confirm(c *gin.Context) {
	id, ok := paramUint(c, "booking_id")
	if !ok {
		return
	}

	booking, err := bc.Bookings.Confirm(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Booking confirmed", booking)
}

func (bc *BookingController) AssignTable(c *gin.Context) {
	id, ok := paramUint(c, "booking_id")
	if !ok {
		return
	}

	var body struct {
		TableID uint `json:"table_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	booking, err := bc.Bookings.AssignTable(id, body.TableID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table assigned", booking)
}

// CancelByCustomer -> ditolak kalau kurang dari 2 jam sebelum jadwal
func (bc *BookingController) CancelByCustomer(c *gin.Context) {
	id, ok := paramUint(c, "booking_id")
	if !ok {
		return
	}

	booking, err := bc.Bookings.CancelByCustomer(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Booking cancelled", booking)
}

func (bc *BookingController) CancelByRestaurant(c *gin.Context) {
	id, ok := paramUint(c, "booking_id")
	if !ok {
		return
	}

	booking, err := bc.Bookings.CancelByRestaurant(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Booking cancelled", booking)
}

func (bc *BookingController) MarkNoShow(c *gin.Context) {
	id, ok := paramUint(c, "booking_id")
	if !ok {
		return
	}

	booking, err := bc.Bookings.MarkNoShow(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Booking marked no-show", booking)
}

func (bc *BookingController) PreviewPromotion(c *gin.Context) {
	id, ok := paramUint(c, "booking_id")
	if !ok {
		return
	}

	var body struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	discount, err := bc.Bookings.PreviewPromotion(id, body.Code)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Promotion preview", gin.H{
		"discount_amount": discount,
	})
}

func (bc *BookingController) ApplyPromotion(c *gin.Context) {
	id, ok := paramUint(c, "booking_id")
	if !ok {
		return
	}

	var body struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	booking, err := bc.Bookings.ApplyPromotion(id, body.Code)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Promotion applied", booking)
}
