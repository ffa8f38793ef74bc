package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-ops/services"
	"github.com/yeremiapane/restaurant-ops/utils"
)

type POSController struct {
	POS *services.POSService
}

func NewPOSController(pos *services.POSService) *POSController {
	return &POSController{POS: pos}
}

// SeatAndOrder -> dudukkan tamu walk-in dan buka/lanjutkan order satu panggilan.
// Respons membawa peringatan kalau meja punya reservasi dekat.
func (pc *POSController) SeatAndOrder(c *gin.Context) {
	var body struct {
		TableID uint                    `json:"table_id" binding:"required"`
		Items   []services.NewOrderItem `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	result, err := pc.POS.SeatAndOrder(body.TableID, body.Items, actorName(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Walk-in seated at table %d, order %d", body.TableID, result.Order.ID)
	utils.RespondJSON(c, http.StatusCreated, "Guest seated", result)
}

// SeatBooking -> ubah booking terkonfirmasi jadi order dine-in aktif
func (pc *POSController) SeatBooking(c *gin.Context) {
	id, ok := paramUint(c, "booking_id")
	if !ok {
		return
	}

	order, err := pc.POS.SeatBooking(id, actorName(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Booking %d seated, order %d opened", id, order.ID)
	utils.RespondJSON(c, http.StatusCreated, "Booking seated", order)
}
