package Controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/restaurant-ops/controllers"
)

func setupPromotionRouter(env *testEnv) *gin.Engine {
	router := gin.New()
	promoCtrl := controllers.NewPromotionController(env.Promos)
	router.POST("/promotions", promoCtrl.CreatePromotion)
	router.GET("/promotions", promoCtrl.GetAllPromotions)
	router.POST("/promotions/preview", promoCtrl.Preview)
	return router
}

func TestCreateAndPreviewPromotion(t *testing.T) {
	env := newTestEnv(t)
	router := setupPromotionRouter(env)

	w := doJSON(router, "POST", "/promotions", map[string]interface{}{
		"code":       "hemat20",
		"type":       "percentage",
		"value":      20,
		"start_date": "2026-06-01",
		"end_date":   "2026-06-30",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data := dataField(t, w)
	// Kode disimpan uppercase.
	assert.Equal(t, "HEMAT20", data["code"])

	w = doJSON(router, "POST", "/promotions/preview", map[string]interface{}{
		"code": "HEMAT20", "order_total": 250000,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data = dataField(t, w)
	assert.Equal(t, float64(50000), data["discount_amount"])
	assert.Equal(t, float64(200000), data["final_total"])

	// Preview tidak memakan kuota.
	var usage int
	env.DB.Raw("SELECT usage_count FROM promotions WHERE code = ?", "HEMAT20").Scan(&usage)
	assert.Equal(t, 0, usage)
}

func TestCreatePromotionInvalid(t *testing.T) {
	env := newTestEnv(t)
	router := setupPromotionRouter(env)

	// Persentase di atas 100 -> 400.
	w := doJSON(router, "POST", "/promotions", map[string]interface{}{
		"code":       "GILA",
		"type":       "percentage",
		"value":      150,
		"start_date": "2026-06-01",
		"end_date":   "2026-06-30",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Tanggal terbalik -> 400.
	w = doJSON(router, "POST", "/promotions", map[string]interface{}{
		"code":       "MUNDUR",
		"type":       "fixed_amount",
		"value":      10000,
		"start_date": "2026-06-30",
		"end_date":   "2026-06-01",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPreviewExpiredPromotion(t *testing.T) {
	env := newTestEnv(t)
	router := setupPromotionRouter(env)

	w := doJSON(router, "POST", "/promotions", map[string]interface{}{
		"code":       "LAMA",
		"type":       "fixed_amount",
		"value":      10000,
		"start_date": "2026-01-01",
		"end_date":   "2026-01-31",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Clock test 2026-06-15 -> promosi sudah lewat.
	w = doJSON(router, "POST", "/promotions/preview", map[string]interface{}{
		"code": "LAMA", "order_total": 250000,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
