package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/restaurant-ops/models"
	"github.com/yeremiapane/restaurant-ops/utils"
)

// newTestDB membuka database sqlite in-memory terpisah per test.
// Nama DSN memakai nama test supaya state tidak bocor antar test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.InitLogger()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.MenuCategory{},
		&models.Menu{},
		&models.Table{},
		&models.CleaningLog{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusLog{},
		&models.Booking{},
		&models.BookingPreOrderItem{},
		&models.Promotion{},
		&models.PromotionRedemption{},
	)
	if err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

func seedMenu(t *testing.T, db *gorm.DB, name string, price int64) *models.Menu {
	t.Helper()
	cat := models.MenuCategory{Name: "Makanan " + name}
	if err := db.Create(&cat).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	menu := models.Menu{
		CategoryID:  cat.ID,
		Name:        name,
		Price:       price,
		IsAvailable: true,
	}
	if err := db.Create(&menu).Error; err != nil {
		t.Fatalf("seed menu: %v", err)
	}
	return &menu
}

func seedTable(t *testing.T, db *gorm.DB, name string, capacity int) *models.Table {
	t.Helper()
	table := models.Table{Name: name, Capacity: capacity, Status: models.TableAvailable}
	if err := db.Create(&table).Error; err != nil {
		t.Fatalf("seed table: %v", err)
	}
	return &table
}

// fixedNow mengembalikan clock beku untuk service yang bergantung waktu.
func fixedNow(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

// newServiceGraph merangkai seluruh service di atas satu database test
// dengan clock beku.
func newServiceGraph(db *gorm.DB, now time.Time) (*TableService, *PromotionService, *OrderService, *BookingService, *POSService) {
	tables := NewTableService(db)
	tables.Now = fixedNow(now)
	promos := NewPromotionService(db)
	promos.Now = fixedNow(now)
	orders := NewOrderService(db, tables, promos, 0.10)
	orders.Now = fixedNow(now)
	bookings := NewBookingService(db, tables, promos)
	bookings.Now = fixedNow(now)
	pos := NewPOSService(db, orders, tables, bookings)
	return tables, promos, orders, bookings, pos
}
