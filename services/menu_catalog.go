package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-ops/models"
)

// MenuCatalog dipakai core hanya untuk snapshot harga saat item ditambahkan.
type MenuCatalog interface {
	GetPrice(menuID uint) (int64, error)
}

type gormMenuCatalog struct {
	db *gorm.DB
}

// NewMenuCatalog mengembalikan katalog harga yang membaca tabel menus.
func NewMenuCatalog(db *gorm.DB) MenuCatalog {
	return &gormMenuCatalog{db: db}
}

func (g *gormMenuCatalog) GetPrice(menuID uint) (int64, error) {
	var menu models.Menu
	if err := g.db.First(&menu, menuID).Error; err != nil {
		return 0, err
	}
	if !menu.IsAvailable {
		return 0, &ValidationError{Msg: fmt.Sprintf("menu %s sedang tidak tersedia", menu.Name)}
	}
	return menu.Price, nil
}
