package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/barber-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/barber-booking/internal/db"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/gateway/mercadopago"
	"github.com/BruksfildServices01/barber-booking/internal/gateway/noop"
	"github.com/BruksfildServices01/barber-booking/internal/routes"
	"github.com/BruksfildServices01/barber-booking/internal/scheduler"
)

func main() {

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// --------------------------------------------------
	// Gateway de pagamento
	// --------------------------------------------------
	var gw domain.Gateway
	if cfg.MPAccessToken != "" {
		mp, err := mercadopago.New(cfg.MPAccessToken)
		if err != nil {
			log.Fatalf("failed to init payment gateway: %v", err)
		}
		gw = mp
	} else {
		logger.Warn("MP_ACCESS_TOKEN not set, payment flows disabled")
		gw = noop.New()
	}

	// --------------------------------------------------
	// Redis (lock da varredura)
	// --------------------------------------------------
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	}

	// --------------------------------------------------
	// HTTP
	// --------------------------------------------------
	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	sweepUC := routes.RegisterRoutes(r, db, cfg, gw, logger)

	// --------------------------------------------------
	// Varredura periódica
	// --------------------------------------------------
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweeper := scheduler.NewSweeper(sweepUC, rdb, logger, cfg.SweepInterval)
	go sweeper.Run(ctx)

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
