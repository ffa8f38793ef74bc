package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-ops/config"
	"github.com/yeremiapane/restaurant-ops/controllers"
	"github.com/yeremiapane/restaurant-ops/middlewares"
	"github.com/yeremiapane/restaurant-ops/services"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	// Inisialisasi service (satu graph, dibagi antar controller)
	tableSvc := services.NewTableService(db)
	promoSvc := services.NewPromotionService(db)
	orderSvc := services.NewOrderService(db, tableSvc, promoSvc, config.TaxRate())
	bookingSvc := services.NewBookingService(db, tableSvc, promoSvc)
	posSvc := services.NewPOSService(db, orderSvc, tableSvc, bookingSvc)

	// Inisialisasi controller
	userCtrl := controllers.NewUserController(db)
	categoryCtrl := controllers.NewMenuCategoryController(db)
	menuCtrl := controllers.NewMenuController(db)
	tableCtrl := controllers.NewTableController(tableSvc)
	orderCtrl := controllers.NewOrderController(orderSvc)
	bookingCtrl := controllers.NewBookingController(bookingSvc)
	promoCtrl := controllers.NewPromotionController(promoSvc)
	posCtrl := controllers.NewPOSController(posSvc)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Rate limiter untuk login/register
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// -- CUSTOMER (Tanpa Auth) --
	r.GET("/categories", categoryCtrl.GetAllCategories)
	r.GET("/menus", menuCtrl.GetAllMenus)
	r.GET("/menus/:menu_id", menuCtrl.GetMenuByID)

	// Reservasi dari sisi customer
	r.POST("/bookings", bookingCtrl.CreateBooking)
	r.GET("/bookings/:booking_id", bookingCtrl.GetBookingByID)
	r.POST("/bookings/:booking_id/cancel", bookingCtrl.CancelByCustomer)
	r.POST("/bookings/:booking_id/promotion/preview", bookingCtrl.PreviewPromotion)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/admin")
	auth.Use(middlewares.AuthMiddleware())

	auth.GET("/profile", userCtrl.GetProfile)
	auth.GET("/users", userCtrl.GetAllUsers)

	// MENU CATEGORIES (manager/admin)
	managerOnly := middlewares.RequireRoles("manager")
	auth.POST("/categories", managerOnly, categoryCtrl.CreateCategory)
	auth.GET("/categories/:cat_id", categoryCtrl.GetCategoryByID)
	auth.PATCH("/categories/:cat_id", managerOnly, categoryCtrl.UpdateCategory)
	auth.DELETE("/categories/:cat_id", managerOnly, categoryCtrl.DeleteCategory)

	// MENUS (manager/admin)
	auth.POST("/menus", managerOnly, menuCtrl.CreateMenu)
	auth.PATCH("/menus/:menu_id", managerOnly, menuCtrl.UpdateMenu)
	auth.DELETE("/menus/:menu_id", managerOnly, menuCtrl.DeleteMenu)

	// TABLES
	floorStaff := middlewares.RequireRoles("manager", "waiter")
	auth.GET("/tables", tableCtrl.GetAllTables)
	auth.POST("/tables", managerOnly, tableCtrl.CreateTable)
	auth.GET("/tables/:table_id", tableCtrl.GetTableByID)
	auth.GET("/tables/:table_id/order", orderCtrl.GetTableOrder)
	auth.GET("/tables/:table_id/reservations", tableCtrl.UpcomingReservations)
	auth.POST("/tables/:table_id/clear", middlewares.RequireRoles("manager", "waiter", "cleaner"), tableCtrl.ClearTable)
	auth.POST("/tables/:table_id/unavailable", managerOnly, tableCtrl.SetUnavailable)
	auth.POST("/tables/:table_id/available", managerOnly, tableCtrl.SetAvailable)

	// ORDERS
	auth.GET("/orders", orderCtrl.GetAllOrders)
	auth.POST("/orders", floorStaff, orderCtrl.CreateOrder)
	auth.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	auth.POST("/orders/:order_id/items", floorStaff, orderCtrl.AddItem)
	auth.PATCH("/orders/:order_id/items/:item_id", floorStaff, orderCtrl.UpdateItem)
	auth.DELETE("/orders/:order_id/items/:item_id", floorStaff, orderCtrl.RemoveItem)
	auth.PATCH("/orders/:order_id/status", middlewares.RequireRoles("manager", "waiter", "chef"), orderCtrl.UpdateStatus)
	auth.POST("/orders/:order_id/cancel", floorStaff, orderCtrl.CancelOrder)
	auth.POST("/orders/:order_id/items/:item_id/served", middlewares.RequireRoles("manager", "waiter", "chef"), orderCtrl.MarkItemServed)
	auth.POST("/orders/:order_id/promotion", floorStaff, orderCtrl.ApplyPromotion)
	auth.DELETE("/orders/:order_id/promotion", floorStaff, orderCtrl.RemovePromotion)
	auth.POST("/orders/:order_id/discount", managerOnly, orderCtrl.ApplyDiscount)
	auth.POST("/orders/:order_id/checkout", floorStaff, orderCtrl.Checkout)

	// BOOKINGS (sisi staf)
	auth.GET("/bookings", bookingCtrl.GetAllBookings)
	auth.GET("/bookings/:booking_id", bookingCtrl.GetBookingByID)
	auth.POST("/bookings/:booking_id/confirm", floorStaff, bookingCtrl.Confirm)
	auth.POST("/bookings/:booking_id/assign-table", floorStaff, bookingCtrl.AssignTable)
	auth.POST("/bookings/:booking_id/cancel", floorStaff, bookingCtrl.CancelByRestaurant)
	auth.POST("/bookings/:booking_id/no-show", floorStaff, bookingCtrl.MarkNoShow)
	auth.POST("/bookings/:booking_id/promotion", floorStaff, bookingCtrl.ApplyPromotion)

	// PROMOTIONS (manager/admin, preview boleh semua staf)
	auth.GET("/promotions", promoCtrl.GetAllPromotions)
	auth.POST("/promotions", managerOnly, promoCtrl.CreatePromotion)
	auth.GET("/promotions/:promo_id", promoCtrl.GetPromotionByID)
	auth.PATCH("/promotions/:promo_id", managerOnly, promoCtrl.UpdatePromotion)
	auth.DELETE("/promotions/:promo_id", managerOnly, promoCtrl.DeletePromotion)
	auth.POST("/promotions/:promo_id/toggle", managerOnly, promoCtrl.ToggleActive)
	auth.POST("/promotions/preview", promoCtrl.Preview)

	// POS (kasir/pelayan)
	auth.POST("/pos/seat-and-order", floorStaff, posCtrl.SeatAndOrder)
	auth.POST("/pos/bookings/:booking_id/seat", floorStaff, posCtrl.SeatBooking)

	return r
}
