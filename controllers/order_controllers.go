package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-ops/services"
	"github.com/yeremiapane/restaurant-ops/utils"
)

type OrderController struct {
	Orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{Orders: orders}
}

// CreateOrder -> buat order (status=pending_confirmation)
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var body struct {
		TableID   *uint                   `json:"table_id"`
		OrderType string                  `json:"order_type"`
		Items     []services.NewOrderItem `json:"items" binding:"required"`
		Notes     string                  `json:"notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.CreateOrder(services.CreateOrderInput{
		TableID:   body.TableID,
		OrderType: body.OrderType,
		Items:     body.Items,
		Notes:     body.Notes,
		Actor:     actorName(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Order %d created (%s) by %s", order.ID, order.OrderType, actorName(c))
	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, ok := paramUint(c, "order_id")
	if !ok {
		return
	}

	order, err := oc.Orders.GetOrder(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// GetAllOrders -> filter opsional: status, order_type, table_id
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	var tableID uint
	if t := c.Query("table_id"); t != "" {
		v, err := strconv.ParseUint(t, 10, 32)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		tableID = uint(v)
	}

	orders, err := oc.Orders.ListOrders(c.Query("status"), c.Query("order_type"), tableID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All orders", orders)
}

func (oc *OrderController) AddItem(c *gin.Context) {
	id, ok := paramUint(c, "order_id")
	if !ok {
		return
	}

	var body services.NewOrderItem
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.AddItem(id, body.MenuID, body.Quantity, body.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item added", order)
}

func (oc *OrderController) UpdateItem(c *gin.Context) {
	orderID, ok := paramUint(c, "order_id")
	if !ok {
		return
	}
	itemID, ok := paramUint(c, "item_id")
	if !ok {
		return
	}

	var body struct {
		Quantity *int    `json:"quantity"`
		Notes    *string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.UpdateItem(orderID, itemID, body.Quantity, body.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item updated", order)
}

func (oc *OrderController) RemoveItem(c *gin.Context) {
	orderID, ok := paramUint(c, "order_id")
	if !ok {
		return
	}
	itemID, ok := paramUint(c, "item_id")
	if !ok {
		return
	}

	order, err := oc.Orders.RemoveItem(orderID, itemID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item removed", order)
}

// UpdateStatus -> minta perpindahan status satu langkah (retry idempotent)
func (oc *OrderController) UpdateStatus(c *gin.Context) {
	id, ok := paramUint(c, "order_id")
	if !ok {
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
		Note   string `json:"note"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.Transition(id, body.Status, actorName(c), body.Note)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Order %d -> %s by %s", order.ID, order.Status, actorName(c))
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

func (oc *OrderController) CancelOrder(c *gin.Context) {
	id, ok := paramUint(c, "order_id")
	if !ok {
		return
	}

	var body struct {
		Note string `json:"note"`
	}
	_ = c.ShouldBindJSON(&body)

	order, err := oc.Orders.CancelOrder(id, actorName(c), body.Note)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order cancelled", order)
}

// MarkItemServed -> item pending -> served, status order ikut maju
func (oc *OrderController) MarkItemServed(c *gin.Context) {
	orderID, ok := paramUint(c, "order_id")
	if !ok {
		return
	}
	itemID, ok := paramUint(c, "item_id")
	if !ok {
		return
	}

	order, err := oc.Orders.MarkItemServed(orderID, itemID, actorName(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item served", order)
}

func (oc *OrderController) ApplyPromotion(c *gin.Context) {
	id, ok := paramUint(c, "order_id")
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

	order, err := oc.Orders.ApplyPromotion(id, body.Code)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Promotion applied", order)
}

func (oc *OrderController) RemovePromotion(c *gin.Context) {
	id, ok := paramUint(c, "order_id")
	if !ok {
		return
	}

	order, err := oc.Orders.RemovePromotion(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Promotion removed", order)
}

func (oc *OrderController) ApplyDiscount(c *gin.Context) {
	id, ok := paramUint(c, "order_id")
	if !ok {
		return
	}

	var body struct {
		Amount int64 `json:"amount"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.ApplyManualDiscount(id, body.Amount)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Discount applied", order)
}

// Checkout -> bayar dan tutup order (completed)
func (oc *OrderController) Checkout(c *gin.Context) {
	id, ok := paramUint(c, "order_id")
	if !ok {
		return
	}

	var body struct {
		PaymentMethod string `json:"payment_method" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.Checkout(id, body.PaymentMethod, actorName(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Order %d completed, total %s", order.ID, utils.FormatCurrency(order.TotalAmount))
	utils.RespondJSON(c, http.StatusOK, "Order completed", order)
}

// GetTableOrder -> order aktif di sebuah meja
func (oc *OrderController) GetTableOrder(c *gin.Context) {
	tableID, ok := paramUint(c, "table_id")
	if !ok {
		return
	}

	order, err := oc.Orders.CurrentTableOrder(tableID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Active table order", order)
}
