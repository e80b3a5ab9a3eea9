package routes

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/clock"
	"github.com/BruksfildServices01/barber-booking/internal/config"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/handlers"
	infraRepo "github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/notify"
	ucBooking "github.com/BruksfildServices01/barber-booking/internal/usecase/booking"
	ucPayment "github.com/BruksfildServices01/barber-booking/internal/usecase/payment"
	ucSweep "github.com/BruksfildServices01/barber-booking/internal/usecase/sweep"
)

// RegisterRoutes monta o grafo de dependências e registra as rotas.
// Devolve o use case da varredura para o scheduler em cmd/api.
func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	gateway domain.Gateway,
	logger *slog.Logger,
) *ucSweep.Sweep {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	notifier := notify.NewLogNotifier(logger)
	clk := clock.System{}

	// ======================================================
	// 🧠 USE CASES — BOOKINGS
	// ======================================================
	availabilityUC := ucBooking.NewGetAvailability(bookingRepo, clk)
	pickBarberUC := ucBooking.NewPickBarber(bookingRepo)

	createBookingUC := ucBooking.NewCreateBooking(
		bookingRepo,
		availabilityUC,
		pickBarberUC,
		gateway,
		notifier,
		auditDispatcher,
		clk,
		logger,
	)

	cancelBookingUC := ucBooking.NewCancelBooking(
		bookingRepo,
		gateway,
		notifier,
		auditDispatcher,
		clk,
		logger,
	)

	completeBookingUC := ucBooking.NewCompleteBooking(
		bookingRepo,
		auditDispatcher,
		clk,
		logger,
	)

	listBookingsByDateUC := ucBooking.NewListBookingsByDate(bookingRepo)

	// ======================================================
	// 🧠 USE CASES — PAGAMENTOS E VARREDURA
	// ======================================================
	webhookUC := ucPayment.NewHandleWebhook(
		bookingRepo,
		gateway,
		notifier,
		auditDispatcher,
		clk,
		logger,
	)

	sweepUC := ucSweep.New(
		bookingRepo,
		notifier,
		completeBookingUC,
		auditDispatcher,
		clk,
		logger,
		cfg.SweepInterval,
		cfg.PublicBaseURL,
	)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)

	availabilityHandler := handlers.NewAvailabilityHandler(availabilityUC)
	bookingHandler := handlers.NewBookingHandler(
		createBookingUC,
		cancelBookingUC,
		completeBookingUC,
		listBookingsByDateUC,
	)
	webhookHandler := handlers.NewWebhookHandler(webhookUC)

	clientHandler := handlers.NewClientHandler(db, auditDispatcher)
	serviceHandler := handlers.NewServiceHandler(db, auditDispatcher)
	scheduleHandler := handlers.NewScheduleHandler(db, auditDispatcher)
	blackoutHandler := handlers.NewBlackoutHandler(db, auditDispatcher)
	configHandler := handlers.NewConfigHandler(db, auditDispatcher)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)
	sweepHandler := handlers.NewSweepHandler(sweepUC)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 API PÚBLICA
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/services", serviceHandler.ListActive)
			publicAPI.GET("/availability", availabilityHandler.Get)

			publicAPI.POST("/clients", clientHandler.Register)
			publicAPI.POST("/bookings", bookingHandler.Create)
			publicAPI.GET("/bookings/cancel/:token", bookingHandler.CancelByToken)

			publicAPI.POST("/webhooks/mercadopago", webhookHandler.MercadoPago)
		}

		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/app")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/clients", clientHandler.List)

			secured.GET("/services", serviceHandler.List)
			secured.POST("/services", serviceHandler.Create)
			secured.PATCH("/services/:id", serviceHandler.Update)

			secured.GET("/schedule", scheduleHandler.Get)
			secured.PUT("/schedule", scheduleHandler.Update)

			secured.GET("/blackouts", blackoutHandler.List)
			secured.POST("/blackouts", blackoutHandler.Create)
			secured.DELETE("/blackouts/:id", blackoutHandler.Deactivate)

			secured.GET("/config", configHandler.Get)
			secured.PATCH("/config", configHandler.Update)

			// ------------------------------
			// BOOKINGS
			// ------------------------------
			secured.GET("/bookings", bookingHandler.ListByDate)
			secured.POST("/bookings/:id/cancel", bookingHandler.Cancel)
			secured.POST("/bookings/:id/complete", bookingHandler.Complete)

			secured.POST("/sweep/run", sweepHandler.Run)

			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}

	return sweepUC
}
