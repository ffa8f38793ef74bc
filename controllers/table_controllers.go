package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-ops/models"
	"github.com/yeremiapane/restaurant-ops/services"
	"github.com/yeremiapane/restaurant-ops/utils"
)

type TableController struct {
	Tables *services.TableService
}

func NewTableController(tables *services.TableService) *TableController {
	return &TableController{Tables: tables}
}

func (tc *TableController) CreateTable(c *gin.Context) {
	var body struct {
		Name     string `json:"name" binding:"required"`
		Capacity int    `json:"capacity" binding:"required,min=1"`
		Location string `json:"location"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Tables.CreateTable(body.Name, body.Capacity, body.Location)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Table created", table)
}

// GetAllTables -> filter opsional status
func (tc *TableController) GetAllTables(c *gin.Context) {
	tables, err := tc.Tables.ListTables(c.Query("status"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All tables", tables)
}

func (tc *TableController) GetTableByID(c *gin.Context) {
	id, ok := paramUint(c, "table_id")
	if !ok {
		return
	}

	table, err := tc.Tables.GetTable(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// ClearTable -> selesai dibersihkan, needs_cleaning -> available
func (tc *TableController) ClearTable(c *gin.Context) {
	id, ok := paramUint(c, "table_id")
	if !ok {
		return
	}

	table, err := tc.Tables.ClearTable(id, actorName(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Table %d cleared by %s", table.ID, actorName(c))
	utils.RespondJSON(c, http.StatusOK, "Table cleared", table)
}

func (tc *TableController) SetUnavailable(c *gin.Context) {
	id, ok := paramUint(c, "table_id")
	if !ok {
		return
	}

	table, err := tc.Tables.SetUnavailable(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table set unavailable", table)
}

func (tc *TableController) SetAvailable(c *gin.Context) {
	id, ok := paramUint(c, "table_id")
	if !ok {
		return
	}

	table, err := tc.Tables.SetAvailable(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table set available", table)
}

// UpcomingReservations -> reservasi terkonfirmasi dalam jendela ?hours (default 2)
func (tc *TableController) UpcomingReservations(c *gin.Context) {
	id, ok := paramUint(c, "table_id")
	if !ok {
		return
	}

	within := 2 * time.Hour
	if h := c.Query("hours"); h != "" {
		if d, err := time.ParseDuration(h + "h"); err == nil && d > 0 {
			within = d
		}
	}

	bookings := make([]models.Booking, 0)
	for b := range tc.Tables.UpcomingReservations(id, within) {
		bookings = append(bookings, b)
	}
	utils.RespondJSON(c, http.StatusOK, "Upcoming reservations", bookings)
}
