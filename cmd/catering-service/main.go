package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"catering-service/internal/client"
	"catering-service/internal/config"
	"catering-service/internal/db"
	"catering-service/internal/handler"
	"catering-service/internal/inventory"
	"catering-service/internal/menu"
	"catering-service/internal/notify"
	"catering-service/internal/order"
	"catering-service/internal/pricing"
	"catering-service/internal/transport"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Logger = log.With().Str("service", "catering-service").Logger()

	log.Info().Msg("Catering service starting...")

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	dbConn, err := db.New(context.Background(), cfg.Postgres)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbConn.Close()

	// Hubs live here, owned by the composition root, one per event family.
	statusHub := notify.NewHub[order.StatusChange]()
	statusHub.Subscribe(order.NewLogNotifier(log.Logger))

	alertHub := notify.NewHub[inventory.Alert]()
	alertHub.Subscribe(inventory.NewLogAlertListener(log.Logger))

	orderService := order.NewService(
		order.NewRepository(dbConn.Pool),
		client.NewDirectory(dbConn.Pool),
		menu.NewCatalog(dbConn.Pool),
		pricing.NewCalculator(cfg.Orders.TaxRate),
		order.NewNumberGenerator(cfg.Orders.NumberPrefix),
		statusHub,
	)

	inventoryService := inventory.NewService(
		inventory.NewRepository(dbConn.Pool),
		alertHub,
		cfg.Inventory.ExpiryLookaheadDays,
	)

	router := transport.NewRouter(
		handler.NewOrderHandler(orderService),
		handler.NewInventoryHandler(inventoryService),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.App.Port).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	log.Info().Msg("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Shutdown failed")
	}
	log.Info().Msg("Server stopped")
}
