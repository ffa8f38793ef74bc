package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/restaurant-ops/models"
	"github.com/yeremiapane/restaurant-ops/services"
	"github.com/yeremiapane/restaurant-ops/utils"
)

// testEnv membungkus database test beserta graph service dengan clock beku.
type testEnv struct {
	DB       *gorm.DB
	Now      time.Time
	Tables   *services.TableService
	Promos   *services.PromotionService
	Orders   *services.OrderService
	Bookings *services.BookingService
	POS      *services.POSService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	utils.InitLogger()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:ctl_%s?mode=memory&cache=shared",
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

	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	tables := services.NewTableService(db)
	tables.Now = func() time.Time { return now }
	promos := services.NewPromotionService(db)
	promos.Now = func() time.Time { return now }
	orders := services.NewOrderService(db, tables, promos, 0.10)
	orders.Now = func() time.Time { return now }
	bookings := services.NewBookingService(db, tables, promos)
	bookings.Now = func() time.Time { return now }
	pos := services.NewPOSService(db, orders, tables, bookings)

	return &testEnv{
		DB: db, Now: now,
		Tables: tables, Promos: promos, Orders: orders, Bookings: bookings, POS: pos,
	}
}

func (e *testEnv) seedMenu(t *testing.T, name string, price int64) *models.Menu {
	t.Helper()
	cat := models.MenuCategory{Name: "Kategori " + name}
	if err := e.DB.Create(&cat).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	menu := models.Menu{CategoryID: cat.ID, Name: name, Price: price, IsAvailable: true}
	if err := e.DB.Create(&menu).Error; err != nil {
		t.Fatalf("seed menu: %v", err)
	}
	return &menu
}

func (e *testEnv) seedTable(t *testing.T, name string, capacity int) *models.Table {
	t.Helper()
	table := models.Table{Name: name, Capacity: capacity, Status: models.TableAvailable}
	if err := e.DB.Create(&table).Error; err != nil {
		t.Fatalf("seed table: %v", err)
	}
	return &table
}

func doJSON(router *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req, _ := http.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v (%s)", err, w.Body.String())
	}
	return resp
}

func dataField(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	resp := decodeBody(t, w)
	data, ok := resp["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("response tanpa data object: %s", w.Body.String())
	}
	return data
}
