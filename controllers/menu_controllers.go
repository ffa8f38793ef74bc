package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-ops/models"
	"github.com/yeremiapane/restaurant-ops/utils"
)

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

// GetAllMenus -> filter opsional: category_id, available=true/false
func (mc *MenuController) GetAllMenus(c *gin.Context) {
	q := mc.DB.Preload("Category")
	if cat := c.Query("category_id"); cat != "" {
		q = q.Where("category_id = ?", cat)
	}
	if avail := c.Query("available"); avail != "" {
		q = q.Where("is_available = ?", avail == "true")
	}

	var menus []models.Menu
	if err := q.Order("id asc").Find(&menus).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All menus", menus)
}

func (mc *MenuController) GetMenuByID(c *gin.Context) {
	id, ok := paramUint(c, "menu_id")
	if !ok {
		return
	}

	var menu models.Menu
	if err := mc.DB.Preload("Category").First(&menu, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu detail", menu)
}

func (mc *MenuController) CreateMenu(c *gin.Context) {
	var body struct {
		CategoryID  uint    `json:"category_id" binding:"required"`
		Name        string  `json:"name" binding:"required"`
		Price       int64   `json:"price" binding:"required,min=0"`
		Stock       int     `json:"stock"`
		Description string  `json:"description"`
		ImageUrl    *string `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	menu := models.Menu{
		CategoryID:  body.CategoryID,
		Name:        body.Name,
		Price:       body.Price,
		Stock:       body.Stock,
		Description: body.Description,
		ImageUrl:    body.ImageUrl,
		IsAvailable: true,
	}
	if err := mc.DB.Create(&menu).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Menu created: %s (%s)", menu.Name, utils.FormatCurrency(menu.Price))
	utils.RespondJSON(c, http.StatusCreated, "Menu created", menu)
}

func (mc *MenuController) UpdateMenu(c *gin.Context) {
	id, ok := paramUint(c, "menu_id")
	if !ok {
		return
	}

	var body struct {
		CategoryID  *uint   `json:"category_id"`
		Name        *string `json:"name"`
		Price       *int64  `json:"price"`
		Stock       *int    `json:"stock"`
		Description *string `json:"description"`
		ImageUrl    *string `json:"image_url"`
		IsAvailable *bool   `json:"is_available"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var menu models.Menu
	if err := mc.DB.First(&menu, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if body.CategoryID != nil {
		menu.CategoryID = *body.CategoryID
	}
	if body.Name != nil {
		menu.Name = *body.Name
	}
	if body.Price != nil {
		menu.Price = *body.Price
	}
	if body.Stock != nil {
		menu.Stock = *body.Stock
	}
	if body.Description != nil {
		menu.Description = *body.Description
	}
	if body.ImageUrl != nil {
		menu.ImageUrl = body.ImageUrl
	}
	if body.IsAvailable != nil {
		menu.IsAvailable = *body.IsAvailable
	}

	if err := mc.DB.Save(&menu).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu updated", menu)
}

func (mc *MenuController) DeleteMenu(c *gin.Context) {
	id, ok := paramUint(c, "menu_id")
	if !ok {
		return
	}

	if err := mc.DB.Delete(&models.Menu{}, id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu deleted", gin.H{"menu_id": id})
}
