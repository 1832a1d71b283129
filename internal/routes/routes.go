package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/clinicdesk/booking-api/internal/config"
	"github.com/clinicdesk/booking-api/internal/handlers"
	"github.com/clinicdesk/booking-api/internal/infra/cache"
	"github.com/clinicdesk/booking-api/internal/infra/lock"
	infraRepo "github.com/clinicdesk/booking-api/internal/infra/repository"
	"github.com/clinicdesk/booking-api/internal/middleware"
	"github.com/clinicdesk/booking-api/internal/notify"
	ucBooking "github.com/clinicdesk/booking-api/internal/usecase/booking"
	ucSchedule "github.com/clinicdesk/booking-api/internal/usecase/schedule"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, rdb *redis.Client, cfg *config.Config) {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	repo := infraRepo.NewSchedulingGormRepository(db)

	slotCache := cache.NewSlotCache(rdb, cfg.SlotCacheTTL)

	var slotLocker lock.Locker
	if rdb != nil {
		slotLocker = lock.NewRedisSlotLocker(rdb, cfg.ClaimLockTTL)
	} else {
		slotLocker = lock.NewNoopLocker()
	}

	notifier := notify.NewDispatcher(notify.New(db))

	// ======================================================
	// USE CASES — SCHEDULE
	// ======================================================
	createSlotUC := ucSchedule.NewCreateSlot(repo, slotCache)
	listSlotsUC := ucSchedule.NewListSlots(repo, slotCache)
	deleteSlotUC := ucSchedule.NewDeleteSlot(repo, slotCache)
	expandRecurringUC := ucSchedule.NewExpandRecurring(repo, slotCache)

	// ======================================================
	// USE CASES — BOOKINGS
	// ======================================================
	createBookingUC := ucBooking.NewCreateBooking(repo, slotLocker, notifier, slotCache)
	listBookingsUC := ucBooking.NewListBookings(repo)
	transitionBookingUC := ucBooking.NewTransitionBooking(repo, notifier, slotCache)
	rescheduleBookingUC := ucBooking.NewRescheduleBooking(repo, notifier, slotCache)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	clinicHandler := handlers.NewClinicHandler(db)
	providerHandler := handlers.NewProviderHandler(db)

	slotHandler := handlers.NewSlotHandler(
		db,
		createSlotUC,
		listSlotsUC,
		deleteSlotUC,
		expandRecurringUC,
	)

	bookingHandler := handlers.NewBookingHandler(
		db,
		slotCache,
		listBookingsUC,
		transitionBookingUC,
		rescheduleBookingUC,
	)

	notificationLogsHandler := handlers.NewNotificationLogsHandler(db)

	publicHandler := handlers.NewPublicHandler(db, listSlotsUC, createBookingUC)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC API (booking widget)
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/providers", publicHandler.ListProviders)
			publicAPI.GET("/slots", publicHandler.ListAvailableSlots)
			publicAPI.POST("/bookings", publicHandler.CreateBooking)
			publicAPI.GET("/bookings/:reference", publicHandler.GetBooking)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// STAFF API
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.Get)

			secured.GET("/clinic", clinicHandler.Get)
			secured.PATCH("/clinic", middleware.RequireAdmin(), clinicHandler.Update)

			secured.GET("/providers", providerHandler.List)
			secured.POST("/providers", middleware.RequireAdmin(), providerHandler.Create)
			secured.PATCH("/providers/:id", middleware.RequireAdmin(), providerHandler.Update)

			// ------------------------------
			// SLOTS
			// ------------------------------
			secured.POST("/slots", slotHandler.Create)
			secured.GET("/slots", slotHandler.List)
			secured.DELETE("/slots/:id", slotHandler.Delete)
			secured.POST("/slots/recurring", slotHandler.ExpandRecurring)

			// ------------------------------
			// BOOKINGS
			// ------------------------------
			secured.GET("/bookings", bookingHandler.List)
			secured.GET("/bookings/:id", bookingHandler.Get)
			secured.PATCH("/bookings/:id", bookingHandler.Update)
			secured.DELETE("/bookings/:id", bookingHandler.Delete)
			secured.PATCH("/bookings/:id/confirm", bookingHandler.Confirm)
			secured.PATCH("/bookings/:id/cancel", bookingHandler.Cancel)
			secured.PATCH("/bookings/:id/complete", bookingHandler.Complete)
			secured.PATCH("/bookings/:id/reschedule", bookingHandler.Reschedule)

			secured.GET("/notification-logs", notificationLogsHandler.List)
		}
	}
}
